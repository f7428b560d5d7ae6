package notify

import (
	"context"
	"fmt"
	"io"
	"strings"

	"recruitwatch/internal/domain"
)

// Console prints matches as a readable block, one line per job.
type Console struct {
	Out io.Writer
}

func (c *Console) Name() string { return "console" }

func (c *Console) Notify(_ context.Context, matches []domain.MatchResult) error {
	fmt.Fprintf(c.Out, "=== %d new matching job(s) ===\n", len(matches))
	for _, m := range matches {
		fmt.Fprintln(c.Out, formatMatch(m))
	}
	return nil
}

func formatMatch(m domain.MatchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%.2f] %s | %s", m.Score, m.Record.Title, m.Record.Company)
	if len(m.MatchedKeywords) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(m.MatchedKeywords, ", "))
	}
	fmt.Fprintf(&b, "\n       %s", m.Record.Link)
	return b.String()
}
