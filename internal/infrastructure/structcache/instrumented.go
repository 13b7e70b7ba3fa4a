package structcache

import (
	"context"

	"github.com/turtacn/StructAlign/internal/domain/structure"
	metrics "github.com/turtacn/StructAlign/internal/infrastructure/monitoring/prometheus"
)

// InstrumentedProvider records resolution counts and latencies for the
// provider it wraps.  The source label distinguishes stacked providers on
// the same metrics, e.g. "file" versus "redis".
type InstrumentedProvider struct {
	inner   structure.Provider
	metrics *metrics.AlignMetrics
	source  string
}

func NewInstrumentedProvider(inner structure.Provider, m *metrics.AlignMetrics, source string) *InstrumentedProvider {
	if m == nil {
		m = metrics.NewNopMetrics()
	}
	if source == "" {
		source = "store"
	}
	return &InstrumentedProvider{inner: inner, metrics: m, source: source}
}

// Resolve implements structure.Provider.
func (p *InstrumentedProvider) Resolve(ctx context.Context, id structure.StructureID) (structure.AtomArray, error) {
	timer := metrics.NewTimer(p.metrics.StructureResolveDuration.WithLabelValues(p.source))
	defer timer.ObserveDuration()

	arr, err := p.inner.Resolve(ctx, id)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.metrics.StructureResolvesTotal.WithLabelValues(p.source, outcome).Inc()

	return arr, err
}
