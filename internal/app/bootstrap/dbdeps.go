// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/stratarent/internal/app/system/dbconn"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// It is created in ConnectDB and passed to EnsureSchema, Startup,
// BuildHandler and Shutdown. Shutdown closes what is opened here.
type DBDeps struct {
	// Connector owns the single pooled MongoDB client for the process.
	Connector *dbconn.Connector
	// MongoDatabase is the configured database on the Connector's client.
	MongoDatabase *mongo.Database

	// FileStorage backs admin image uploads (local disk or S3/CloudFront).
	FileStorage storage.Store
}
