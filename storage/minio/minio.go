package minio

// DefaultEndpoint is used when no endpoint is configured; it points at a
// local MinIO instance.
const DefaultEndpoint = "localhost:9000"

// Config contains S3-compatible storage connection configuration.
// Works with MinIO, AWS S3 and other S3-compatible providers.
type Config struct {
	Endpoint           string `envconfig:"S3_ENDPOINT"`                             // S3 endpoint, host[:port] without scheme
	AccessKey          string `envconfig:"S3_ACCESS_KEY"`                           // Access key ID
	SecretKey          string `envconfig:"S3_SECRET_KEY"`                           // Secret access key
	Region             string `envconfig:"S3_REGION" default:"us-east-1"`           // Region name
	DefaultBucket      string `envconfig:"S3_BUCKET"`                               // Bucket used when a call passes an empty one
	Secure             bool   `envconfig:"S3_SECURE" default:"true"`                // Use HTTPS
	Timeout            int    `envconfig:"S3_TIMEOUT" default:"30"`                 // Connection check timeout in seconds
	InsecureSkipVerify bool   `envconfig:"S3_INSECURE_SKIP_VERIFY" default:"false"` // Skip TLS verification (for self-signed certs)
}

// GetEndpoint returns the endpoint to use, defaulting to a local MinIO.
func (c *Config) GetEndpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return DefaultEndpoint
}
