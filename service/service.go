package services

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/clearfile/taxportal/initializers"
)

// PortalService implements the document-requirement engine and the
// return-preparation pipeline. One instance serves all requests.
type PortalService struct {
	db       *gorm.DB
	cfg      *initializers.Config
	s3Client *s3.S3
	esClient *elasticsearch.Client
	locks    *userLocks
}

// NewPortalService wires the service against Postgres, Supabase S3 storage
// and (optionally) Elasticsearch. A missing Elasticsearch URL only disables
// indexing and search.
func NewPortalService(db *gorm.DB, cfg *initializers.Config) (*PortalService, error) {
	if cfg.StorageRegion == "" || cfg.StorageEndpoint == "" || cfg.StorageAccessKey == "" || cfg.StorageSecretKey == "" {
		return nil, fmt.Errorf("missing required S3 configuration environment variables")
	}

	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(cfg.StorageRegion),
		Endpoint:         aws.String(cfg.StorageEndpoint),
		DisableSSL:       aws.Bool(false),
		Credentials:      credentials.NewStaticCredentials(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	var esClient *elasticsearch.Client
	if cfg.ElasticsearchURL != "" {
		esClient, err = elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{cfg.ElasticsearchURL},
		})
		if err != nil {
			logrus.WithError(err).Warn("failed to create Elasticsearch client, search disabled")
			esClient = nil
		}
	}

	return &PortalService{
		db:       db,
		cfg:      cfg,
		s3Client: s3.New(sess),
		esClient: esClient,
		locks:    newUserLocks(),
	}, nil
}
