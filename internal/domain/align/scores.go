// Package align implements the layered model for multiple structural
// alignments: an Ensemble owns MultipleAlignments, a MultipleAlignment owns
// BlockSets, a BlockSet owns Blocks, and each layer carries the geometric and
// scoring state that belongs to it.  The package also provides the converter
// that lifts a pairwise alignment result into this model.
//
// The model is synchronous: no type in this package locks internally, and
// lazily computed state (atom arrays, distance matrices, cached lengths) must
// not be populated from multiple goroutines at once.  Callers either
// serialize access or pre-populate the caches before sharing an ensemble
// read-only.
package align

import "sort"

// Names under which the converter records the pairwise result's figures of
// merit.  The values are the conventional names emitted by structure
// alignment tools, kept verbatim so downstream consumers can find them.
const (
	ScoreProbability = "Probability"
	ScoreAvgTMScore  = "AvgTM-score"
	ScoreCEScore     = "CEscore"
	ScoreRMSD        = "RMSD"
)

// ScoresCache stores named numeric quality scores.  It is embedded by both
// MultipleAlignment and Ensemble; the zero value is ready to use.
type ScoresCache struct {
	scores map[string]float64
}

// PutScore records value under name, replacing any previous value.
func (c *ScoresCache) PutScore(name string, value float64) {
	if c.scores == nil {
		c.scores = make(map[string]float64)
	}
	c.scores[name] = value
}

// Score returns the value recorded under name.
func (c *ScoresCache) Score(name string) (float64, bool) {
	v, ok := c.scores[name]
	return v, ok
}

// ScoreNames returns the recorded names in lexicographic order.
func (c *ScoresCache) ScoreNames() []string {
	names := make([]string, 0, len(c.scores))
	for name := range c.scores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearScores discards every recorded score.
func (c *ScoresCache) ClearScores() {
	c.scores = nil
}

// cloneScores returns an independent copy of the cache for deep-copy paths.
func (c *ScoresCache) cloneScores() ScoresCache {
	if c.scores == nil {
		return ScoresCache{}
	}
	out := make(map[string]float64, len(c.scores))
	for k, v := range c.scores {
		out[k] = v
	}
	return ScoresCache{scores: out}
}
