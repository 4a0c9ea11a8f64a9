package app

import (
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the storefront configuration, loadable from environment
// variables (SHOP_ prefix), flags, or YAML config files.
type Config struct {
	APIBaseURL     string        `default:"http://localhost:8080/api" usage:"storefront API base URL" flag:"api-base-url"`
	CDNBaseURL     string        `default:"" usage:"base URL prepended to product image paths" flag:"cdn-base-url"`
	RequestTimeout time.Duration `default:"10s" usage:"network request timeout" flag:"request-timeout"`
}

// LoadConfig loads configuration from environment variables, flags, and
// optional YAML config files.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOP",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return &cfg, nil
}
