// Package fetcher retrieves skill content from its source URL, backed by the
// time-bound content cache.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tedpecoulas/claude-skills-mcp/internal/domain"
	"github.com/tedpecoulas/claude-skills-mcp/internal/infra/telemetry"
)

type Options struct {
	Client  *http.Client
	Timeout time.Duration
	Logger  *zap.Logger
	Metrics domain.Metrics
}

type Fetcher struct {
	catalog *domain.Catalog
	cache   *domain.ContentCache
	client  *http.Client
	logger  *zap.Logger
	metrics domain.Metrics
}

func New(catalog *domain.Catalog, cache *domain.ContentCache, opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = domain.DefaultFetchTimeoutSeconds * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	return &Fetcher{
		catalog: catalog,
		cache:   cache,
		client:  client,
		logger:  logger.Named("fetcher"),
		metrics: metrics,
	}
}

// Fetch returns the content for a skill, serving from the cache while fresh.
// A registry miss enumerates the valid identifiers; a transport failure or
// non-2xx upstream status surfaces immediately with no retry.
func (f *Fetcher) Fetch(ctx context.Context, name string) (string, error) {
	const op = "fetcher.fetch"

	if content, ok := f.cache.Get(name); ok {
		f.metrics.ObserveCacheLookup(name, true)
		f.logger.Debug("serving cached content",
			telemetry.EventField(telemetry.EventCacheHit),
			telemetry.SkillField(name),
		)
		return content, nil
	}
	f.metrics.ObserveCacheLookup(name, false)

	skill, ok := f.catalog.Lookup(name)
	if !ok {
		return "", domain.E(domain.CodeNotFound, op,
			fmt.Sprintf("skill %q not found, available skills: %s", name, strings.Join(f.catalog.Names(), ", ")),
			domain.ErrSkillNotFound,
		)
	}

	start := time.Now()
	content, err := f.fetchRemote(ctx, skill)
	f.metrics.ObserveFetch(name, time.Since(start), err)
	if err != nil {
		f.logger.Warn("fetch failed",
			telemetry.EventField(telemetry.EventFetchFailure),
			telemetry.SkillField(name),
			zap.Error(err),
		)
		return "", err
	}

	f.cache.Put(name, content)
	f.logger.Info("skill content fetched",
		telemetry.EventField(telemetry.EventFetch),
		telemetry.SkillField(name),
		telemetry.DurationField(time.Since(start)),
		zap.Int("bytes", len(content)),
	)
	return content, nil
}

func (f *Fetcher) fetchRemote(ctx context.Context, skill domain.Skill) (string, error) {
	const op = "fetcher.fetch"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, skill.SourceURL, nil)
	if err != nil {
		return "", domain.Wrap(domain.CodeInternal, op, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", domain.E(domain.CodeUnavailable, op,
			fmt.Sprintf("failed to load skill %q: %v", skill.Name, err),
			domain.ErrSourceUnavailable,
		)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", domain.E(domain.CodeUnavailable, op,
			fmt.Sprintf("failed to load skill %q: source returned %d %s", skill.Name, resp.StatusCode, http.StatusText(resp.StatusCode)),
			domain.ErrSourceUnavailable,
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.E(domain.CodeUnavailable, op,
			fmt.Sprintf("failed to load skill %q: %v", skill.Name, err),
			domain.ErrSourceUnavailable,
		)
	}
	return string(body), nil
}
