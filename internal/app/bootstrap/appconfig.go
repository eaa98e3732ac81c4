// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/stratarent/internal/app/system/timeouts"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework side (ports, TLS, logging, CORS, body limits, timeouts);
// everything the rental site itself needs lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: stratarent-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Maximum session cookie lifetime (default: 24h)

	// Rate limiting configuration
	RateLimitEnabled       bool          // Enable rate limiting for login attempts (default: true)
	RateLimitLoginAttempts int           // Max failed login attempts before lockout (default: 5)
	RateLimitLoginWindow   time.Duration // Time window for counting failed attempts (default: 15m)
	RateLimitLoginLockout  time.Duration // Lockout duration after exceeding limit (default: 15m)

	// CSRF protection configuration
	CSRFKey string // Secret key for CSRF token signing (32 bytes, must be strong in production)

	// Public origin, used for robots.txt, the sitemap and canonical URLs
	BaseURL string // e.g., "https://rent.example.com"

	// Admin area
	AdminPrefix    string // Gated path prefix (default: /admin)
	AdminLoginPath string // Login page inside the prefix that stays public
	AdminUIPath    string // Directory holding the built admin UI shell

	// File storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./uploads")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/uploads")

	// S3/CloudFront configuration (only used if StorageType is "s3")
	StorageS3Region    string // AWS region
	StorageS3Bucket    string // S3 bucket name
	StorageS3Prefix    string // Key prefix (e.g., "uploads/")
	StorageCFURL       string // CloudFront distribution URL
	StorageCFKeyPairID string // CloudFront key pair ID
	StorageCFKeyPath   string // Path to CloudFront private key file

	// Page cache lifetimes
	MetadataCacheTTL time.Duration // Derived page metadata (default: 10m)
	PageCacheTTL     time.Duration // Regenerated page payloads (default: 5m)

	// Audit logging configuration
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	AuditLogAuth   string        // Authentication events (login, logout, lockout)
	AuditLogAdmin  string        // Admin content changes
	AuditRetention time.Duration // Delete audit events older than this (0 keeps everything)

	// Operation deadlines below the request timeout (zero keeps the default)
	Timeouts timeouts.Config

	// Background jobs
	BookingAutoComplete bool // Mark confirmed bookings completed once their return date passes

	// Admin seeding configuration
	SeedAdminEmail    string // Email of the admin user to create on startup (if set)
	SeedAdminPassword string // Initial password for the seeded admin
	SeedAdminName     string // Name of the admin user to create on startup
}
