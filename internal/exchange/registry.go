package exchange

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/akastanis/holdwise/internal/domain"
)

// Options carries exchange construction parameters. BaseURL overrides the
// production endpoint, used by tests.
type Options struct {
	APIKey    string
	APISecret string
	BaseURL   string
}

// Client is a market data source for one exchange.
type Client interface {
	domain.MarketData
	Name() string
}

// Factory constructs a client for one exchange.
type Factory func(opts Options, log zerolog.Logger) Client

// Known exchange identifiers are resolved at configuration-load time; an
// unknown identifier fails fast instead of being looked up dynamically.
var registry = map[string]Factory{
	"binance": newBinance,
	"kraken":  newKraken,
}

// Known returns the supported exchange names, sorted.
func Known() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New resolves an exchange by name.
func New(name string, opts Options, log zerolog.Logger) (Client, error) {
	factory, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown exchange %q (known: %s)", name, strings.Join(Known(), ", "))
	}
	return factory(opts, log), nil
}
