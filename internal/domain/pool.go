package domain

// QuestionSet holds the loaded question pools: simple questions grouped by
// category, plus the flag pool. Sets are immutable once handed to a bank.
type QuestionSet struct {
	ByCategory map[string][]SimpleQuestion
	Flags      []FlagQuestion
}

// Empty reports whether the set has no simple questions.
func (s QuestionSet) Empty() bool {
	for _, pool := range s.ByCategory {
		if len(pool) > 0 {
			return false
		}
	}
	return true
}
