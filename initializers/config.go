package initializers

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config carries everything the portal needs from the environment.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DatabaseURL string `envconfig:"DIRECT_URL"`

	StorageRegion    string `envconfig:"SUPABASE_REGION"`
	StorageEndpoint  string `envconfig:"SUPABASE_S3_ENDPOINT"`
	StorageAccessKey string `envconfig:"SUPABASE_ACCESS_KEY"`
	StorageSecretKey string `envconfig:"SUPABASE_SECRET_KEY"`
	StorageBucket    string `envconfig:"SUPABASE_BUCKET"`
	StoragePublicURL string `envconfig:"SUPABASE_S3_URL"`

	ElasticsearchURL string `envconfig:"ELASTICSEARCH_URL"`

	// TaxYear tags checklist items and documents for the current filing
	// cycle.
	TaxYear int `envconfig:"TAX_YEAR" default:"2025"`

	// Deferred-work tuning. Verification and auto-replies are cosmetic
	// simulations; the schedule is persisted so restarts do not lose them.
	VerifyDelaySec    int `envconfig:"VERIFY_DELAY_SEC" default:"30"`
	AutoReplyDelaySec int `envconfig:"AUTO_REPLY_DELAY_SEC" default:"20"`
	PollIntervalSec   int `envconfig:"POLL_INTERVAL_SEC" default:"5"`

	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"15728640"`
}

// LoadConfig populates Config from the environment.
func LoadConfig() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("env variable DIRECT_URL is empty")
	}
	return cfg, nil
}
