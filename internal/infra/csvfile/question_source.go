// Package csvfile loads question pools from a local CSV file.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"

	"trivia-skill/internal/domain"
)

// Source reads a CSV file with columns category,question,answer,comment.
// Rows in the reserved flag category are flag questions: the question column
// holds the ISO alpha-2 country code and the answer column the country name.
// Malformed rows are logged and skipped.
type Source struct {
	path string
}

func NewSource(path string) *Source {
	return &Source{path: path}
}

func (s *Source) Load(_ context.Context) (domain.QuestionSet, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("open question file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	set := domain.QuestionSet{ByCategory: make(map[string][]domain.SimpleQuestion)}
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Printf("quiz: skipping row %d of %s: %v", line, s.path, err)
			continue
		}
		if line == 1 && record[0] == "category" {
			continue // header row
		}
		if len(record) < 3 || record[0] == "" || record[1] == "" || record[2] == "" {
			log.Printf("quiz: skipping incomplete row %d of %s", line, s.path)
			continue
		}

		if record[0] == domain.CategoryFlag {
			set.Flags = append(set.Flags, domain.FlagQuestion{
				CountryCode: record[1],
				Name:        record[2],
			})
			continue
		}

		q := domain.SimpleQuestion{
			Category: record[0],
			Prompt:   record[1],
			Answer:   record[2],
		}
		if len(record) > 3 {
			q.Comment = record[3]
		}
		set.ByCategory[q.Category] = append(set.ByCategory[q.Category], q)
	}

	return set, nil
}
