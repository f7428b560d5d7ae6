package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"recruitwatch/internal/domain"
)

// File appends matches as JSON lines, one object per job.
type File struct {
	Path string
}

func (f *File) Name() string { return "file" }

type fileEntry struct {
	At       string   `json:"at"`
	Source   string   `json:"source"`
	Title    string   `json:"title"`
	Company  string   `json:"company"`
	Link     string   `json:"link"`
	Score    float64  `json:"score"`
	Keywords []string `json:"keywords,omitempty"`
}

func (f *File) Notify(_ context.Context, matches []domain.MatchResult) error {
	fh, err := os.OpenFile(f.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open notification file: %w", err)
	}
	defer fh.Close()

	enc := json.NewEncoder(fh)
	now := time.Now().Format(time.RFC3339)
	for _, m := range matches {
		entry := fileEntry{
			At:       now,
			Source:   m.Record.Source,
			Title:    m.Record.Title,
			Company:  m.Record.Company,
			Link:     m.Record.Link,
			Score:    m.Score,
			Keywords: m.MatchedKeywords,
		}
		if err := enc.Encode(entry); err != nil {
			return fmt.Errorf("write notification file: %w", err)
		}
	}
	return nil
}
