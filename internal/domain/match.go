package domain

// MatchResult is the outcome of scoring one record against a keyword set.
// MatchedKeywords lists the include keywords that individually cleared the
// threshold, for display and audit.
type MatchResult struct {
	Record          JobRecord
	Score           float64
	Matched         bool
	Excluded        bool
	MatchedKeywords []string
}
