package config

const (
	defaultRemoteKey = "satchel.db"

	defaultS3Endpoint = "s3.amazonaws.com"
	defaultS3UseSSL   = true

	defaultAPIListen = ":8080"

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "nomic-embed-text"
	defaultEmbeddingDimensions = 768

	defaultSearchLimit    = 10
	defaultSearchMinScore = 0.01
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values. Bucket and
// credentials have no defaults; they must come from the config file, env,
// or flags.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Storage: StorageConfig{
			RemoteKey: defaultRemoteKey,
		},
		S3: S3Config{
			Endpoint: defaultS3Endpoint,
			UseSSL:   defaultS3UseSSL,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Search: SearchConfig{
			Limit:    defaultSearchLimit,
			MinScore: defaultSearchMinScore,
		},
	}
}
