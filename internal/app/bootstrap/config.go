// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/stratarent/internal/app/system/auditlog"
	"github.com/dalemusser/stratarent/internal/app/system/authutil"
	"github.com/dalemusser/stratarent/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "STRATARENT"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: STRATARENT_MONGO_URI, STRATARENT_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "stratarent", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "stratarent-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie max age (e.g., 24h, 720h, 30m)"},

	// Rate limiting configuration
	{Name: "rate_limit_enabled", Default: true, Desc: "Enable rate limiting for login attempts"},
	{Name: "rate_limit_login_attempts", Default: 5, Desc: "Max failed login attempts before lockout"},
	{Name: "rate_limit_login_window", Default: "15m", Desc: "Time window for counting failed attempts"},
	{Name: "rate_limit_login_lockout", Default: "15m", Desc: "Lockout duration after exceeding limit"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars in production)"},

	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public site origin for robots.txt, sitemap and canonical URLs"},

	// Admin area
	{Name: "admin_prefix", Default: "/admin", Desc: "Path prefix that requires an admin session"},
	{Name: "admin_login_path", Default: "/admin/login", Desc: "Admin login page (reachable without a session)"},
	{Name: "admin_ui_path", Default: "./admin-ui", Desc: "Directory with the built admin UI shell"},

	// File storage configuration
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded files"},
	{Name: "storage_local_url", Default: "/uploads", Desc: "URL prefix for serving local files"},

	// S3/CloudFront configuration
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "uploads/", Desc: "S3 key prefix"},
	{Name: "storage_cf_url", Default: "", Desc: "CloudFront distribution URL"},
	{Name: "storage_cf_keypair_id", Default: "", Desc: "CloudFront key pair ID"},
	{Name: "storage_cf_key_path", Default: "", Desc: "Path to CloudFront private key file"},

	// Page cache
	{Name: "metadata_cache_ttl", Default: "10m", Desc: "Lifetime of derived page metadata"},
	{Name: "page_cache_ttl", Default: "5m", Desc: "Lifetime of regenerated page payloads"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_retention", Default: "2160h", Desc: "Delete audit events older than this (0 keeps everything)"},

	// Background jobs
	{Name: "timeout_ping", Default: "2s", Desc: "Deadline for health check pings"},
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document lookups"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for building a site page payload"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for uploads"},

	{Name: "booking_auto_complete", Default: true, Desc: "Mark confirmed bookings completed after their return date"},

	// Admin seeding configuration
	{Name: "seed_admin_email", Default: "", Desc: "Email of admin user to create on startup"},
	{Name: "seed_admin_password", Default: "", Desc: "Initial password of the seeded admin user"},
	{Name: "seed_admin_name", Default: "Admin", Desc: "Name of admin user to create on startup"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config.yaml/json/toml,
// environment variables (WAFFLE_* for core, STRATARENT_* for app) and
// command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 24*time.Hour),

		// Rate limiting
		RateLimitEnabled:       appValues.Bool("rate_limit_enabled"),
		RateLimitLoginAttempts: appValues.Int("rate_limit_login_attempts"),
		RateLimitLoginWindow:   appValues.Duration("rate_limit_login_window", 15*time.Minute),
		RateLimitLoginLockout:  appValues.Duration("rate_limit_login_lockout", 15*time.Minute),

		CSRFKey: appValues.String("csrf_key"),
		BaseURL: strings.TrimRight(appValues.String("base_url"), "/"),

		// Admin area
		AdminPrefix:    appValues.String("admin_prefix"),
		AdminLoginPath: appValues.String("admin_login_path"),
		AdminUIPath:    appValues.String("admin_ui_path"),

		// File storage
		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		// S3/CloudFront
		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageCFURL:       appValues.String("storage_cf_url"),
		StorageCFKeyPairID: appValues.String("storage_cf_keypair_id"),
		StorageCFKeyPath:   appValues.String("storage_cf_key_path"),

		// Page cache
		MetadataCacheTTL: appValues.Duration("metadata_cache_ttl", 10*time.Minute),
		PageCacheTTL:     appValues.Duration("page_cache_ttl", 5*time.Minute),

		// Audit logging
		AuditLogAuth:   appValues.String("audit_log_auth"),
		AuditLogAdmin:  appValues.String("audit_log_admin"),
		AuditRetention: appValues.Duration("audit_retention", 90*24*time.Hour),

		Timeouts: timeouts.Config{
			Ping:   appValues.Duration("timeout_ping", timeouts.DefaultPing),
			Short:  appValues.Duration("timeout_short", timeouts.DefaultShort),
			Medium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
			Long:   appValues.Duration("timeout_long", timeouts.DefaultLong),
		},

		BookingAutoComplete: appValues.Bool("booking_auto_complete"),

		// Admin seeding
		SeedAdminEmail:    appValues.String("seed_admin_email"),
		SeedAdminPassword: appValues.String("seed_admin_password"),
		SeedAdminName:     appValues.String("seed_admin_name"),
	}

	timeouts.Configure(appCfg.Timeouts)

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	for key, mode := range map[string]string{
		"audit_log_auth":  appCfg.AuditLogAuth,
		"audit_log_admin": appCfg.AuditLogAdmin,
	} {
		switch mode {
		case auditlog.ModeAll, auditlog.ModeDB, auditlog.ModeLog, auditlog.ModeOff:
		default:
			return fmt.Errorf("%s: unknown mode %q", key, mode)
		}
	}

	if !strings.HasPrefix(appCfg.AdminPrefix, "/") {
		return fmt.Errorf("admin_prefix must start with '/': %q", appCfg.AdminPrefix)
	}
	if !strings.HasPrefix(appCfg.AdminLoginPath, appCfg.AdminPrefix) {
		logger.Warn("admin login path is outside the admin prefix",
			zap.String("admin_prefix", appCfg.AdminPrefix),
			zap.String("admin_login_path", appCfg.AdminLoginPath))
	}

	if appCfg.SeedAdminEmail != "" {
		if err := authutil.ValidatePassword(appCfg.SeedAdminPassword); err != nil {
			return fmt.Errorf("seed_admin_password: %w", err)
		}
	}

	if coreCfg != nil && coreCfg.Env == "prod" {
		if strings.HasPrefix(appCfg.SessionKey, "dev-only") || strings.HasPrefix(appCfg.CSRFKey, "dev-only") {
			return fmt.Errorf("session_key and csrf_key must be set in production")
		}
	}

	return nil
}
