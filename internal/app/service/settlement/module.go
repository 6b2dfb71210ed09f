package settlement

import (
	"github.com/permadocs/permapay/internal/platform/blobstore"
	"github.com/permadocs/permapay/internal/platform/bundler"
	"github.com/permadocs/permapay/pkg/config"

	"go.uber.org/fx"
)

func newGateway(cfg *config.Config) UploadGateway {
	return bundler.New(cfg.Pricing.BundlerURL, cfg.Pricing.BundlerAPIKey, cfg.Pricing.ArweaveGatewayURL)
}

func newBlobStore(cfg *config.Config) blobstore.Store {
	return blobstore.NewLocal(cfg.Storage.BlobDir)
}

var Module = fx.Options(
	fx.Provide(NewGormStore),
	fx.Provide(newGateway),
	fx.Provide(newBlobStore),
	fx.Provide(NewPipeline),
)
