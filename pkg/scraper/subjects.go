package scraper

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadSubjects reads the subject code list. Both a plain string array and
// the registrar export shape ([{"SUBJECT": "CS"}, ...]) are accepted.
func LoadSubjects(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("subjects file not readable: %w", err)
	}

	var plain []string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain, nil
	}

	var rows []struct {
		Subject string `json:"SUBJECT"`
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("subjects file malformed: %w", err)
	}
	subjects := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Subject != "" {
			subjects = append(subjects, row.Subject)
		}
	}
	return subjects, nil
}
