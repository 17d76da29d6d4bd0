package satchel

import (
	"go.uber.org/zap"

	"github.com/satchelworks/satchel/pkg/config"
	embeddingutils "github.com/satchelworks/satchel/pkg/embeddings/utils"
	"github.com/satchelworks/satchel/pkg/objectstore/s3"
)

// BuildFromDir resolves configuration from the given config directory (or
// the default .satchel/ discovery path) plus SATCHEL_* environment
// variables, then wires a Service from it.
func BuildFromDir(configDir string, logger *zap.Logger) (*Service, error) {
	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, err
	}
	return Build(config.ConfigFromViper(v), logger)
}

// Build wires a Service from resolved configuration: S3 object storage,
// the configured embedding provider, and the service defaults. This is the
// single construction path shared by the CLI commands and the serve
// command.
func Build(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	storage, err := s3.New(s3.Config{
		Endpoint:  cfg.S3.Endpoint,
		Region:    cfg.S3.Region,
		Bucket:    cfg.S3.Bucket,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}, logger)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
		APIKey:       cfg.Embedding.APIKey,
	})
	if err != nil {
		return nil, err
	}

	return New(Config{
		RemoteKey:       cfg.Storage.RemoteKey,
		Dimensions:      cfg.Embedding.Dimensions,
		DefaultLimit:    cfg.Search.Limit,
		DefaultMinScore: cfg.Search.MinScore,
	}, storage, embedder, logger)
}
