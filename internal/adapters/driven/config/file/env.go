package file

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvFile reads a dotenv file and returns a lookup that prefers its
// values over the process environment. The process environment is not
// modified. An empty path returns os.LookupEnv.
func LoadEnvFile(path string) (func(string) (string, bool), error) {
	if path == "" {
		return os.LookupEnv, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}

	return func(key string) (string, bool) {
		if v, ok := values[key]; ok {
			return v, true
		}
		return os.LookupEnv(key)
	}, nil
}
