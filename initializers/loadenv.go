package initializers

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// LoadEnv loads a local .env file if one exists. In deployed environments
// configuration comes from real environment variables, so a missing file
// is not an error.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using process environment")
		return
	}
	logrus.Info("env loaded from .env")
}
