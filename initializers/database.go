package initializers

import (
	"fmt"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB // shared handle, also used by Migrate

// ConnectDB opens the GORM connection against the pooled Postgres
// endpoint. Simple protocol is forced because the Supabase pooler does
// not support prepared statements.
func ConnectDB(cfg *Config) error {
	logrus.Info("connecting to database")

	pgConfig := postgres.Config{
		PreferSimpleProtocol: true,
		DriverName:           "postgres",
		DSN:                  cfg.DatabaseURL,
	}

	var err error
	DB, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
		PrepareStmt:          false,
		DisableAutomaticPing: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %w", err)
	}

	logrus.Info("database connection successful")
	return nil
}
