// Package mail scrapes job-alert emails over IMAP. The HTML body of an alert
// is just another listing page, so it runs through the same selector-driven
// extraction as a site.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"go.uber.org/zap"

	"recruitwatch/internal/config"
	"recruitwatch/internal/domain"
	"recruitwatch/internal/extract"
)

const sourceName = "mail"

// alertCutoff keeps very old unread alerts out of the search.
const alertCutoff = 3 * 30 * 24 * time.Hour

type Source struct {
	cfg      config.Mail
	password string
	log      *zap.Logger
}

func NewSource(cfg config.Mail, password string, log *zap.Logger) *Source {
	return &Source{cfg: cfg, password: password, log: log.With(zap.String("site", sourceName))}
}

func (s *Source) Name() string { return sourceName }

// Fetch logs in, pulls unseen alert messages and extracts records from their
// HTML bodies. Messages are fetched with BODY.PEEK so nothing is marked seen
// unless mark_seen is on and extraction succeeded.
func (s *Source) Fetch(ctx context.Context) ([]domain.JobRecord, error) {
	addr := fmt.Sprintf("%s:%d", s.cfg.IMAPHost, s.cfg.IMAPPort)
	c, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12},
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial %s: %w", addr, err)
	}
	defer func() {
		if err := c.Logout().Wait(); err != nil {
			s.log.Debug("imap logout", zap.Error(err))
		}
		_ = c.Close()
	}()

	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	if err := c.Login(s.cfg.Username, s.password).Wait(); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}
	if _, err := c.Select(s.cfg.Mailbox, &imap.SelectOptions{ReadOnly: !s.cfg.MarkSeen}).Wait(); err != nil {
		return nil, fmt.Errorf("imap select %s: %w", s.cfg.Mailbox, err)
	}

	msgs, err := s.fetchUnseen(ctx, c)
	if err != nil {
		return nil, err
	}

	var out []domain.JobRecord
	var processed []imap.UID
	for _, m := range msgs {
		if !s.wanted(m) {
			continue
		}
		recs := s.extractFromMessage(m)
		if len(recs) == 0 {
			continue
		}
		out = append(out, recs...)
		processed = append(processed, m.uid)
	}

	if s.cfg.MarkSeen && len(processed) > 0 {
		if err := markSeen(c, processed); err != nil {
			s.log.Warn("mark seen failed", zap.Error(err))
		}
	}
	return out, nil
}

type message struct {
	uid     imap.UID
	from    string
	subject string
	raw     []byte
}

func (s *Source) fetchUnseen(ctx context.Context, c *imapclient.Client) ([]message, error) {
	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Since:   time.Now().Add(-alertCutoff),
	}
	searchData, err := c.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap search unseen: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	// newest first
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if len(uids) > s.cfg.MaxMessages {
		uids = uids[:s.cfg.MaxMessages]
	}

	bodyAll := &imap.FetchItemBodySection{
		Specifier: imap.PartSpecifierNone,
		Peek:      true,
	}
	fetchCmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{bodyAll},
	})
	defer func() { _ = fetchCmd.Close() }()

	var msgs []message
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch collect: %w", err)
		}

		var m message
		m.uid = buf.UID
		if buf.Envelope != nil {
			m.subject = buf.Envelope.Subject
			m.from = joinAddrs(buf.Envelope.From)
		}
		if b := buf.FindBodySection(bodyAll); b != nil {
			m.raw = append([]byte(nil), b...)
		}
		msgs = append(msgs, m)
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch close: %w", err)
	}
	return msgs, nil
}

func (s *Source) wanted(m message) bool {
	if s.cfg.FromContains != "" && !strings.Contains(strings.ToLower(m.from), strings.ToLower(s.cfg.FromContains)) {
		return false
	}
	if s.cfg.SubjectContains != "" && !strings.Contains(strings.ToLower(m.subject), strings.ToLower(s.cfg.SubjectContains)) {
		return false
	}
	return true
}

func (s *Source) extractFromMessage(m message) []domain.JobRecord {
	htmlBody := htmlPart(m.raw)
	if htmlBody == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		s.log.Warn("parse alert html", zap.Uint32("uid", uint32(m.uid)), zap.Error(err))
		return nil
	}

	var out []domain.JobRecord
	doc.Find(s.cfg.Selectors.JobList).Each(func(_ int, container *goquery.Selection) {
		rec, ok := extract.ExtractRecord(container, &s.cfg.Selectors, sourceName)
		if !ok {
			return
		}
		rec.Link = resolve(s.cfg.BaseURL, rec.Link)
		out = append(out, rec)
	})
	return out
}

func markSeen(c *imapclient.Client, uids []imap.UID) error {
	cmd := c.Store(imap.UIDSetNum(uids...), &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil)
	return cmd.Close()
}

func joinAddrs(addrs []imap.Address) string {
	parts := make([]string, 0, len(addrs))
	for i := range addrs {
		a := &addrs[i]
		addr := strings.TrimSpace(a.Addr())
		if addr == "" {
			addr = strings.TrimSpace(a.Name)
		}
		if addr != "" {
			parts = append(parts, addr)
		}
	}
	return strings.Join(parts, ", ")
}
