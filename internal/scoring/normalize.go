package scoring

// Score scale bounds. All interview scores live on a 0-5 scale; values from
// the model are clamped into it at the boundary.
const (
	ScoreMin = 0.0
	ScoreMax = 5.0
)

// Clamp forces v into [ScoreMin, ScoreMax]
func Clamp(v float64) float64 {
	if v < ScoreMin {
		return ScoreMin
	}
	if v > ScoreMax {
		return ScoreMax
	}
	return v
}

// NormalizeFitScore converts a 0-100 scale score (e.g. resume-job fit) onto
// the internal 0-5 scale. Any figure produced on the 0-100 scale must pass
// through here before being merged with interview scores; mixing scales is a
// correctness bug.
func NormalizeFitScore(score100 float64) float64 {
	return Clamp(score100 / 20.0)
}
