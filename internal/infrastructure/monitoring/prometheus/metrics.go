package prometheus

// AlignMetrics holds the metrics the alignment pipeline reports: structure
// resolution, cache effectiveness, and conversion work.
type AlignMetrics struct {
	// Structure resolution
	StructureResolvesTotal   CounterVec   // labels: source, outcome
	StructureResolveDuration HistogramVec // labels: source

	// Cache tiers in front of a provider
	CacheHitsTotal   CounterVec // labels: tier
	CacheMissesTotal CounterVec // labels: tier

	// Pairwise-to-multiple conversion
	ConversionsTotal   CounterVec   // labels: mode, outcome
	ConversionDuration HistogramVec // labels: mode

	// Derived geometry
	DistanceMatrixDuration HistogramVec // labels: source
}

// Resolution is fast against memory and slow against remote stores, so the
// buckets span sub-millisecond to seconds.
var (
	DefaultResolveBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	DefaultComputeBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1}
)

// NewAlignMetrics registers the pipeline metrics on the collector.
func NewAlignMetrics(collector MetricsCollector) *AlignMetrics {
	m := &AlignMetrics{}

	m.StructureResolvesTotal = collector.RegisterCounter(
		"structure_resolves_total", "Structure resolutions", "source", "outcome")
	m.StructureResolveDuration = collector.RegisterHistogram(
		"structure_resolve_duration_seconds", "Structure resolution duration",
		DefaultResolveBuckets, "source")

	m.CacheHitsTotal = collector.RegisterCounter(
		"structure_cache_hits_total", "Structure cache hits", "tier")
	m.CacheMissesTotal = collector.RegisterCounter(
		"structure_cache_misses_total", "Structure cache misses", "tier")

	m.ConversionsTotal = collector.RegisterCounter(
		"conversions_total", "Pairwise-to-multiple conversions", "mode", "outcome")
	m.ConversionDuration = collector.RegisterHistogram(
		"conversion_duration_seconds", "Conversion duration",
		DefaultComputeBuckets, "mode")

	m.DistanceMatrixDuration = collector.RegisterHistogram(
		"distance_matrix_duration_seconds", "Distance matrix computation duration",
		DefaultComputeBuckets, "source")

	return m
}

// NewNopMetrics returns metrics that record nothing.
func NewNopMetrics() *AlignMetrics {
	return NewAlignMetrics(NewNopCollector())
}
