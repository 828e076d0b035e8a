package env

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const (
	DefaultEnvFile = ".env"
	// FileVar overrides the dotenv location, e.g. ENV_FILE=/etc/mailto/mailto.env.
	FileVar = "ENV_FILE"
)

// InitConfig loads the optional dotenv file and fills every passed config struct.
func InitConfig(configs ...any) error {
	file := os.Getenv(FileVar)
	if file == "" {
		file = DefaultEnvFile
	}
	// nolint:errcheck // .env file is optional, failure is acceptable
	_ = godotenv.Load(file)

	for _, config := range configs {
		if err := envconfig.Process("", config); err != nil {
			return errors.Wrap(err, "failed to envconfig.Process")
		}
	}

	return nil
}
