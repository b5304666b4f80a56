package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/intake-dal/internal/domain"
)

// Backend selectors.
const (
	StoreFirestore = "firestore"
	StoreDynamo    = "dynamo"
	BlobGCS        = "gcs"
	BlobS3         = "s3"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string
	LogFile  string // empty logs to stdout only

	StoreBackend string
	BlobBackend  string

	FirebaseProjectID string // empty uses the credential's project_id
	StorageBucket     string // empty uses {project}.firebasestorage.app
	SignedURLTTL      time.Duration

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string
	SNSTopicARN    string // empty disables notification publishing

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	FanOutConcurrency int
	RateLimitRPS      int // per client IP, public submission routes
	RateLimitBurst    int
	AllowedOrigins    []string // CORS allowed origins
}

// DynamoTables maps each document collection to a DynamoDB table name.
type DynamoTables struct {
	Applications          string
	VolunteerApplications string
	Notifications         string
	EventRegistrations    string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:  getEnv("APP_PORT", "3000"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", StoreFirestore)),
		BlobBackend:  strings.ToLower(getEnv("BLOB_BACKEND", BlobGCS)),

		FirebaseProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
		StorageBucket:     getEnv("FIREBASE_STORAGE_BUCKET", ""),
		SignedURLTTL:      getEnvDuration("SIGNED_URL_TTL", time.Hour),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Applications:          getEnv("DYNAMO_TABLE_APPLICATIONS", domain.CollectionApplications),
			VolunteerApplications: getEnv("DYNAMO_TABLE_VOLUNTEER_APPLICATIONS", domain.CollectionVolunteerApplications),
			Notifications:         getEnv("DYNAMO_TABLE_NOTIFICATIONS", domain.CollectionNotifications),
			EventRegistrations:    getEnv("DYNAMO_TABLE_EVENT_REGISTRATIONS", domain.CollectionEventRegistrations),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "intake-files"),
		SNSTopicARN:  getEnv("SNS_TOPIC_ARN", ""),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		FanOutConcurrency: getEnvInt("FANOUT_CONCURRENCY", 8),
		RateLimitRPS:      getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst:    getEnvInt("RATE_LIMIT_BURST", 10),
		AllowedOrigins:    strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// Table returns the DynamoDB table backing a document collection.
// Unknown collections map to a table of the same name.
func (t DynamoTables) Table(collection string) string {
	switch collection {
	case domain.CollectionApplications:
		return t.Applications
	case domain.CollectionVolunteerApplications:
		return t.VolunteerApplications
	case domain.CollectionNotifications:
		return t.Notifications
	case domain.CollectionEventRegistrations:
		return t.EventRegistrations
	}
	return collection
}

// All lists every configured table name.
func (t DynamoTables) All() []string {
	return []string{t.Applications, t.VolunteerApplications, t.Notifications, t.EventRegistrations}
}

// UsesGoogle reports whether any backend needs the Firebase service-account credential.
func (c *Config) UsesGoogle() bool {
	return c.StoreBackend == StoreFirestore || c.BlobBackend == BlobGCS
}

// UsesAWS reports whether any backend or the notification topic needs AWS clients.
func (c *Config) UsesAWS() bool {
	return c.StoreBackend == StoreDynamo || c.BlobBackend == BlobS3 || c.SNSTopicARN != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
