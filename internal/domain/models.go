package domain

import "fmt"

// GroupKey identifies one chat group. At most one game runs per group.
type GroupKey string

// CategoryFlag is the reserved category that forces flag questions for the
// whole game.
const CategoryFlag = "flag"

// Question is a closed sum over the supported question shapes. Matching and
// rendering go through the shared methods so a new shape touches this file
// only, not every call site.
type Question interface {
	// AnswerText is the exact string a submission must equal to score.
	// Matching is case- and whitespace-sensitive on purpose.
	AnswerText() string
	// PromptText is announced when the round opens.
	PromptText() string
	// RevealText is announced when the round closes without a winner.
	RevealText() string
	// ImageURL is empty for questions without an image.
	ImageURL() string

	question()
}

// SimpleQuestion is a plain prompt/answer pair belonging to a category.
type SimpleQuestion struct {
	Category string
	Prompt   string
	Answer   string
	Comment  string
}

func (q SimpleQuestion) AnswerText() string { return q.Answer }

func (q SimpleQuestion) PromptText() string {
	return fmt.Sprintf("(%s) Q. %s", q.Category, q.Prompt)
}

func (q SimpleQuestion) RevealText() string {
	if q.Comment == "" {
		return "Answer: " + q.Answer
	}
	return "Answer: " + q.Answer + "\n" + q.Comment
}

func (q SimpleQuestion) ImageURL() string { return "" }

func (SimpleQuestion) question() {}

// FlagQuestion asks which country a flag belongs to. CountryCode is the ISO
// 3166-1 alpha-2 code, Name the expected answer.
type FlagQuestion struct {
	CountryCode string
	Name        string
}

func (q FlagQuestion) AnswerText() string { return q.Name }

func (q FlagQuestion) PromptText() string {
	return "(flag) Q. Which country does this flag belong to?"
}

func (q FlagQuestion) RevealText() string { return "Answer: " + q.Name }

func (q FlagQuestion) ImageURL() string {
	return fmt.Sprintf("https://flagcdn.com/256x192/%s.png", lowerASCII(q.CountryCode))
}

func (FlagQuestion) question() {}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

// AnswerResult reports the outcome of one submission. Correct carries the
// advanced state; a wrong answer leaves everything untouched.
type AnswerResult struct {
	Correct bool

	UserID           string
	UserScore        int64
	FinishedQuestion Question
	NextQuestion     Question
	NextRound        int
}

// TimeoutAdvance is what a round timeout leaves behind: the question nobody
// solved, its replacement, and the new round number.
type TimeoutAdvance struct {
	FinishedQuestion Question
	NextQuestion     Question
	NextRound        int
}
