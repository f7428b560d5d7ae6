package notify

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recruitwatch/internal/config"
	"recruitwatch/internal/domain"
)

func sampleMatches() []domain.MatchResult {
	return []domain.MatchResult{
		{
			Record: domain.JobRecord{
				Title:   "백엔드 개발자",
				Company: "에이크미",
				Link:    "https://x.test/1",
				Source:  "saramin",
			},
			Score:           1.0,
			Matched:         true,
			MatchedKeywords: []string{"백엔드 개발자"},
		},
		{
			Record: domain.JobRecord{
				Title:   "데이터 엔지니어",
				Company: "브라보텍",
				Link:    "https://x.test/2",
				Source:  "wanted",
			},
			Score:   0.82,
			Matched: true,
		},
	}
}

func TestConsoleNotify(t *testing.T) {
	var out strings.Builder
	c := &Console{Out: &out}

	require.NoError(t, c.Notify(context.Background(), sampleMatches()))
	got := out.String()
	require.Contains(t, got, "2 new matching job(s)")
	require.Contains(t, got, "백엔드 개발자 | 에이크미")
	require.Contains(t, got, "https://x.test/2")
}

func TestFileNotifyAppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.jsonl")
	f := &File{Path: path}

	require.NoError(t, f.Notify(context.Background(), sampleMatches()))
	require.NoError(t, f.Notify(context.Background(), sampleMatches()[:1]))

	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()

	var lines int
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		var entry fileEntry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
		require.NotEmpty(t, entry.Title)
		lines++
	}
	require.Equal(t, 3, lines)
}

type failing struct{}

func (failing) Name() string                                        { return "failing" }
func (failing) Notify(context.Context, []domain.MatchResult) error { return errors.New("boom") }

type counting struct{ calls int }

func (c *counting) Name() string { return "counting" }
func (c *counting) Notify(context.Context, []domain.MatchResult) error {
	c.calls++
	return nil
}

func TestMultiContinuesPastFailure(t *testing.T) {
	c := &counting{}
	m := NewMulti(zap.NewNop(), failing{}, c)

	m.Notify(context.Background(), sampleMatches())
	require.Equal(t, 1, c.calls)

	// nothing delivered for an empty batch
	m.Notify(context.Background(), nil)
	require.Equal(t, 1, c.calls)
}

func TestEmailBuildMessage(t *testing.T) {
	e := NewEmail(emailCfg(), "pw")
	msg := string(e.buildMessage(sampleMatches()))

	require.Contains(t, msg, "From: me@example.com")
	require.Contains(t, msg, "To: you@example.com")
	require.Contains(t, msg, "https://x.test/1")
	// Korean subject is RFC2047 encoded
	require.Contains(t, msg, "Subject: =?utf-8?q?")
}

func emailCfg() config.EmailNotify {
	return config.EmailNotify{
		SMTPHost: "smtp.example.com",
		SMTPPort: 587,
		From:     "me@example.com",
		To:       "you@example.com",
	}
}
