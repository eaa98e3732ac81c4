// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/stratarent/internal/app/system/dbconn"
	"github.com/dalemusser/stratarent/internal/app/system/indexes"
	"github.com/dalemusser/stratarent/internal/app/system/seeding"
	"github.com/dalemusser/stratarent/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB and initializes file storage.
//
// WAFFLE calls this after configuration is loaded but before EnsureSchema and
// Startup. The connector dials once here so a bad URI fails startup; request
// paths reuse the same client afterwards.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	conn := dbconn.New(dbconn.Config{
		URI:         appCfg.MongoURI,
		Database:    appCfg.MongoDatabase,
		MaxPoolSize: appCfg.MongoMaxPoolSize,
		MinPoolSize: appCfg.MongoMinPoolSize,
	}, logger)

	db, err := conn.Database(ctx)
	if err != nil {
		return DBDeps{}, err
	}

	store, err := newFileStorage(ctx, appCfg, logger)
	if err != nil {
		_ = conn.Close(context.Background())
		return DBDeps{}, err
	}

	return DBDeps{
		Connector:     conn,
		MongoDatabase: db,
		FileStorage:   store,
	}, nil
}

// newFileStorage builds the configured storage backend.
func newFileStorage(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (storage.Store, error) {
	switch appCfg.StorageType {
	case "s3":
		store, err := storage.NewS3(ctx, storage.S3Config{
			Region:                   appCfg.StorageS3Region,
			Bucket:                   appCfg.StorageS3Bucket,
			Prefix:                   appCfg.StorageS3Prefix,
			CloudFrontURL:            appCfg.StorageCFURL,
			CloudFrontKeyPairID:      appCfg.StorageCFKeyPairID,
			CloudFrontPrivateKeyPath: appCfg.StorageCFKeyPath,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		logger.Info("initialized S3/CloudFront file storage",
			zap.String("bucket", appCfg.StorageS3Bucket),
			zap.String("prefix", appCfg.StorageS3Prefix),
		)
		return store, nil
	case "local", "":
		store, err := storage.NewLocal(storage.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  appCfg.StorageLocalURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		logger.Info("initialized local file storage",
			zap.String("path", appCfg.StorageLocalPath),
			zap.String("url", appCfg.StorageLocalURL),
		)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", appCfg.StorageType)
	}
}

// EnsureSchema attaches validators, reconciles indexes and seeds defaults.
//
// This runs after ConnectDB succeeds but before Startup. The context carries
// coreCfg.IndexBootTimeout.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	// Validators first so indexes are created on existing collections.
	logger.Info("ensuring collections and validators")
	if err := validators.EnsureAll(ctx, db); err != nil {
		logger.Error("failed to ensure validators", zap.Error(err))
		return err
	}

	logger.Info("ensuring database indexes")
	if err := indexes.EnsureAll(ctx, db); err != nil {
		logger.Error("failed to ensure indexes", zap.Error(err))
		return err
	}

	logger.Info("seeding default data")
	opts := seeding.Options{
		AdminEmail:    appCfg.SeedAdminEmail,
		AdminPassword: appCfg.SeedAdminPassword,
		AdminName:     appCfg.SeedAdminName,
	}
	if err := seeding.SeedAll(ctx, db, opts, logger); err != nil {
		logger.Error("failed to seed default data", zap.Error(err))
		return err
	}

	logger.Info("database schema ensured successfully")
	return nil
}
