package template

// Backend selects where the template document is kept.
type Backend string

const (
	BackendFile Backend = "file" // local file, default
	BackendS3   Backend = "s3"   // S3-compatible object storage
)

// Config describes the single template location.
type Config struct {
	Backend Backend `envconfig:"TEMPLATE_BACKEND" default:"file"`
	Dir     string  `envconfig:"TEMPLATE_DIR" default:"data"`      // file backend directory
	Bucket  string  `envconfig:"TEMPLATE_BUCKET" default:"mailto"` // s3 backend bucket
	Key     string  `envconfig:"TEMPLATE_KEY" default:"template.html"`
}
