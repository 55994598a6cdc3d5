package searchindex

// Config configures the OpenSearch client. Field names and defaults
// follow the teacher's integration/database/opensearch package.
type Config struct {
	Addresses    []string `env:"OPENSEARCH_ADDRESSES,required"`
	Username     string   `env:"OPENSEARCH_USERNAME,notEmpty"`
	Password     string   `env:"OPENSEARCH_PASSWORD,notEmpty"`
	MaxRetries   int      `env:"OPENSEARCH_MAX_RETRIES" envDefault:"3"`
	DisableRetry bool     `env:"OPENSEARCH_DISABLE_RETRY" envDefault:"false"`
	// Index is the target index name for indexed detection documents.
	Index string `env:"OPENSEARCH_DETECTIONS_INDEX" envDefault:"botguard-detections"`
}
