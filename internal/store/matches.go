package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"recruitwatch/internal/domain"
)

type Match struct {
	ID        int64    `json:"id"`
	Source    string   `json:"source"`
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	Link      string   `json:"link"`
	Detail    string   `json:"detail"`
	Score     float64  `json:"score"`
	Keywords  []string `json:"keywords"`
	CreatedAt string   `json:"createdAt"`
}

// SaveMatch stores one matched record. Re-saving the same link+title is a
// no-op so overlapping runs stay idempotent.
func (s *Store) SaveMatch(ctx context.Context, res domain.MatchResult) error {
	kwB, _ := json.Marshal(res.MatchedKeywords)

	_, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO matches(source, title, company, link, detail, score, keywords, created_at)
VALUES(?,?,?,?,?,?,?,?);`,
		res.Record.Source,
		res.Record.Title,
		res.Record.Company,
		res.Record.Link,
		res.Record.Detail,
		res.Score,
		string(kwB),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	return nil
}

// ListRecentMatches returns the newest matches, best score first within the
// same scrape time.
func (s *Store) ListRecentMatches(ctx context.Context, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, source, title, company, link, detail, score, keywords, created_at
FROM matches
ORDER BY created_at DESC, score DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		var kw string
		if err := rows.Scan(&m.ID, &m.Source, &m.Title, &m.Company, &m.Link, &m.Detail, &m.Score, &kw, &m.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(kw), &m.Keywords)
		out = append(out, m)
	}
	return out, rows.Err()
}
