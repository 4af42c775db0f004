package telemetry

import (
	"time"

	"github.com/tedpecoulas/claude-skills-mcp/internal/domain"
)

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) ObserveRequest(_ string, _ time.Duration, _ error) {}

func (n *NoopMetrics) ObserveFetch(_ string, _ time.Duration, _ error) {}

func (n *NoopMetrics) ObserveCacheLookup(_ string, _ bool) {}

var _ domain.Metrics = (*NoopMetrics)(nil)
