package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/orderdesk/orderdesk/pkg/orderdesk/catalog"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/internalerr"
)

// CatalogFile is the on-disk shape of a product catalog.
type CatalogFile struct {
	Products []ProductEntry `yaml:"products"`
}

// ProductEntry is one product in a catalog file.
type ProductEntry struct {
	Code      string   `yaml:"code"`
	Name      string   `yaml:"name"`
	UnitPrice int64    `yaml:"unit_price"`
	Aliases   []string `yaml:"aliases"`
}

// LoadCatalog reads a YAML catalog file and builds the immutable catalog,
// validating codes, prices and aliases.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	products := make([]catalog.Product, len(file.Products))
	for i, p := range file.Products {
		products[i] = catalog.Product{
			Code:        p.Code,
			DisplayName: p.Name,
			UnitPrice:   p.UnitPrice,
			Aliases:     p.Aliases,
		}
	}
	cat, err := catalog.New(products)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return cat, nil
}

// APIKeyEnv is consulted when the bot config does not carry an LLM API key.
const APIKeyEnv = "ORDERDESK_LLM_API_KEY"

// Bot is the webhook server configuration.
type Bot struct {
	Listen  string `yaml:"listen"`
	Catalog string `yaml:"catalog"`

	Ledger struct {
		Backend string `yaml:"backend"` // sqlite, csv or memory
		Path    string `yaml:"path"`
	} `yaml:"ledger"`

	LLM struct {
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"llm"`

	FallbackTimeoutSeconds int `yaml:"fallback_timeout_seconds"`
}

// FallbackTimeout returns the configured fallback budget, defaulting to 25s.
func (b Bot) FallbackTimeout() time.Duration {
	if b.FallbackTimeoutSeconds <= 0 {
		return 25 * time.Second
	}
	return time.Duration(b.FallbackTimeoutSeconds) * time.Second
}

// LoadBot reads the bot config, applies defaults, and fills the LLM API
// key from the environment when the file leaves it empty.
func LoadBot(path string) (Bot, error) {
	var cfg Bot
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.Catalog == "" {
		return cfg, fmt.Errorf("%w: catalog path required", internalerr.ErrInvalidConfig)
	}
	switch cfg.Ledger.Backend {
	case "", "memory":
		cfg.Ledger.Backend = "memory"
	case "sqlite", "csv":
		if cfg.Ledger.Path == "" {
			return cfg, fmt.Errorf("%w: ledger.path required for backend %q", internalerr.ErrInvalidConfig, cfg.Ledger.Backend)
		}
	default:
		return cfg, fmt.Errorf("%w: unknown ledger backend %q", internalerr.ErrInvalidConfig, cfg.Ledger.Backend)
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv(APIKeyEnv)
	}
	return cfg, nil
}
