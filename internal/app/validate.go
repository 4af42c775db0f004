package app

import (
	"context"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tedpecoulas/claude-skills-mcp/internal/infra/catalog"
)

var knownConfigKeys = map[string]struct{}{
	"cacheTTLSeconds":     {},
	"fetchTimeoutSeconds": {},
	"listenAddress":       {},
	"observability":       {},
	"skills":              {},
}

// ValidateConfig loads and validates the configuration at the given path,
// then reports keys the gateway would silently ignore.
func (a *App) ValidateConfig(ctx context.Context, opts ValidateOptions) error {
	loader := catalog.NewLoader(a.logger)
	loaded, err := loader.Load(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}

	if opts.ConfigPath != "" {
		unknown, err := unknownKeys(opts.ConfigPath)
		if err != nil {
			return err
		}
		for _, key := range unknown {
			a.logger.Warn("unknown configuration key", zap.String("key", key))
		}
	}

	a.logger.Info("configuration validated",
		zap.String("config", opts.ConfigPath),
		zap.Int("skills", loaded.Catalog.Len()),
		zap.Duration("cache_ttl", loaded.CacheTTL))
	return nil
}

// unknownKeys re-reads the raw document because the config loader drops
// keys it does not map.
func unknownKeys(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var unknown []string
	for key := range doc {
		if _, ok := knownConfigKeys[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown, nil
}
