package assembler

// CandidateSignals are the discovery facts scoring is computed from
type CandidateSignals struct {
	FromStackTrace  bool
	FromMentions    bool
	IsConfigFile    bool
	DependencyCount int
	DependentCount  int
}

// Scorer turns discovery signals into a relevance score in [0,1].
// Heuristic and pluggable: swapping the heuristic must not touch the
// assembler's orchestration.
type Scorer interface {
	Score(signals CandidateSignals) float64
}

// HeuristicScorer is the default additive heuristic. Weights reflect signal
// trust: a stack-trace frame points at the defect, a mention is a human
// guess, a config file is background.
type HeuristicScorer struct{}

// Score computes the additive relevance and clamps it to [0,1]
func (HeuristicScorer) Score(s CandidateSignals) float64 {
	score := 0.0
	if s.FromStackTrace {
		score += 0.4
	}
	if s.FromMentions {
		score += 0.3
	}
	if s.IsConfigFile {
		score += 0.1
	}

	connectivity := 0.05 * float64(s.DependencyCount+s.DependentCount)
	if connectivity > 0.2 {
		connectivity = 0.2
	}
	score += connectivity

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}
