package feed

import (
	"fmt"
	"log/slog"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/config"
)

// Driver is a function that opens a publisher for one feed backend.
type Driver func(cfg config.FeedConfig, logger *slog.Logger) (Publisher, error)

// registry maps driver names to their factory functions.
var registry = map[string]Driver{}

// Register adds a named driver to the global registry.
// It is intended to be called from init() in each driver file.
func Register(name string, d Driver) {
	registry[name] = d
}

// Open selects the driver specified in cfg.Driver and returns a Publisher.
func Open(cfg config.FeedConfig, logger *slog.Logger) (Publisher, error) {
	d, ok := registry[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unknown feed driver %q (registered: %v)", cfg.Driver, registeredNames())
	}
	return d(cfg, logger)
}

func registeredNames() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	return names
}
