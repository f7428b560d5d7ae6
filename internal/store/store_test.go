package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"recruitwatch/internal/domain"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMarkSeenIfNew(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	fresh, err := s.MarkSeenIfNew(ctx, "saramin_https://x.test/1_백엔드 개발자")
	require.NoError(t, err)
	require.True(t, fresh)

	again, err := s.MarkSeenIfNew(ctx, "saramin_https://x.test/1_백엔드 개발자")
	require.NoError(t, err)
	require.False(t, again)

	n, err := s.SeenCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = s.MarkSeenIfNew(ctx, "")
	require.Error(t, err)
}

func TestSaveAndListMatches(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	res := domain.MatchResult{
		Record: domain.JobRecord{
			Title:   "백엔드 개발자",
			Company: "에이크미",
			Link:    "https://x.test/1",
			Detail:  "Python 서버 개발",
			Source:  "saramin",
		},
		Score:           1.0,
		Matched:         true,
		MatchedKeywords: []string{"백엔드 개발자"},
	}
	require.NoError(t, s.SaveMatch(ctx, res))
	// duplicate link+title is ignored
	require.NoError(t, s.SaveMatch(ctx, res))

	got, err := s.ListRecentMatches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "백엔드 개발자", got[0].Title)
	require.Equal(t, []string{"백엔드 개발자"}, got[0].Keywords)
	require.Equal(t, 1.0, got[0].Score)
}

func TestAcquireLockExclusive(t *testing.T) {
	dir := t.TempDir()

	lock, err := AcquireLock(dir)
	require.NoError(t, err)
	defer func() { _ = lock.Unlock() }()

	_, err = AcquireLock(dir)
	require.Error(t, err)
}
