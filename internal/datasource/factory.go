package datasource

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitwall/internal/catalog"
	"github.com/yourusername/pitwall/internal/config"
	"github.com/yourusername/pitwall/internal/logger"
	"github.com/yourusername/pitwall/internal/models"
)

// Factory creates the data stack based on configuration
type Factory struct {
	logger *logrus.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *logrus.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// HTTPClient builds the rate-limited client from the data source settings
func (f *Factory) HTTPClient() *RateLimitedHTTPClient {
	httpCfg := DefaultHTTPClientConfig()
	ds := f.config.DataSource
	if ds.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(ds.TimeoutSeconds) * time.Second
	}
	httpCfg.MaxRetries = ds.RetryAttempts
	if ds.RateLimit > 0 {
		httpCfg.RateLimit = ds.RateLimit
	}
	return NewRateLimitedHTTPClient(httpCfg, f.logger)
}

// NewDataSource creates the remote results source. Lap counts and lengths
// of known circuits come from cat.
func (f *Factory) NewDataSource(httpClient *RateLimitedHTTPClient, cat *catalog.Catalog) DataSource {
	var lookup CircuitLookup
	if cat != nil {
		lookup = func(id string) (models.Circuit, bool) {
			c, err := cat.LookupCircuit(id)
			return c, err == nil
		}
	}
	return NewErgastClient(httpClient, f.config.DataSource.BaseURL, lookup, logger.NewDataLogger(f.logger))
}

// NewManager wires the source, local store and cache into a Manager
func (f *Factory) NewManager(cat *catalog.Catalog) *Manager {
	ds := f.config.DataSource
	return NewManager(
		f.NewDataSource(f.HTTPClient(), cat),
		NewFileStore(ds.DataDir),
		NewCache(ds.CacheTTL),
		ds.CurrentSeason,
		logger.NewDataLogger(f.logger),
	)
}
