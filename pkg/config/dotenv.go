// pkg/config/dotenv.go

package config

import (
	"os"

	cerr "github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read from the working directory when present.
const DefaultEnvFile = ".env"

// LoadDotEnv loads the given files (default ".env") into the process
// environment. Variables already set are left alone; missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{DefaultEnvFile}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return cerr.Wrapf(err, "load %s", p)
		}
	}
	return nil
}
