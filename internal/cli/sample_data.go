package cli

import "trivia-skill/internal/domain"

// sampleQuestionSet provides a minimal pool so the server can run without
// Postgres or a CSV file; swap in a real source for production.
func sampleQuestionSet() domain.QuestionSet {
	return domain.QuestionSet{
		ByCategory: map[string][]domain.SimpleQuestion{
			"general": {
				{Category: "general", Prompt: "What is the largest planet in the solar system?", Answer: "Jupiter"},
				{Category: "general", Prompt: "Which element has the chemical symbol O?", Answer: "Oxygen"},
				{Category: "general", Prompt: "How many continents are there?", Answer: "7", Comment: "Counting Europe and Asia separately."},
				{Category: "general", Prompt: "What is the capital of Australia?", Answer: "Canberra", Comment: "Not Sydney!"},
			},
			"nonsense": {
				{Category: "nonsense", Prompt: "What kind of room has no doors or windows?", Answer: "mushroom"},
				{Category: "nonsense", Prompt: "What gets wetter the more it dries?", Answer: "towel"},
				{Category: "nonsense", Prompt: "What has hands but cannot clap?", Answer: "clock"},
			},
			"idiom": {
				{Category: "idiom", Prompt: "Once in a blue ___", Answer: "moon"},
				{Category: "idiom", Prompt: "Kill two birds with one ___", Answer: "stone"},
				{Category: "idiom", Prompt: "The early bird catches the ___", Answer: "worm"},
			},
		},
		Flags: []domain.FlagQuestion{
			{CountryCode: "KR", Name: "South Korea"},
			{CountryCode: "JP", Name: "Japan"},
			{CountryCode: "FR", Name: "France"},
			{CountryCode: "DE", Name: "Germany"},
			{CountryCode: "BR", Name: "Brazil"},
			{CountryCode: "CA", Name: "Canada"},
			{CountryCode: "AU", Name: "Australia"},
			{CountryCode: "IN", Name: "India"},
			{CountryCode: "MX", Name: "Mexico"},
			{CountryCode: "SE", Name: "Sweden"},
			{CountryCode: "ZA", Name: "South Africa"},
			{CountryCode: "AR", Name: "Argentina"},
		},
	}
}
