package notify

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"recruitwatch/internal/config"
	"recruitwatch/internal/domain"
)

// Email sends one digest message per run over SMTP with STARTTLS.
type Email struct {
	cfg      config.EmailNotify
	password string
}

func NewEmail(cfg config.EmailNotify, password string) *Email {
	return &Email{cfg: cfg, password: password}
}

func (e *Email) Name() string { return "email" }

func (e *Email) Notify(_ context.Context, matches []domain.MatchResult) error {
	addr := fmt.Sprintf("%s:%d", e.cfg.SMTPHost, e.cfg.SMTPPort)
	auth := smtp.PlainAuth("", e.cfg.From, e.password, e.cfg.SMTPHost)

	msg := e.buildMessage(matches)
	if err := smtp.SendMail(addr, auth, e.cfg.From, []string{e.cfg.To}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (e *Email) buildMessage(matches []domain.MatchResult) []byte {
	subject := fmt.Sprintf("새 채용 공고 %d건", len(matches))

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", e.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", e.cfg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")

	for _, m := range matches {
		fmt.Fprintf(&b, "[%.2f] %s | %s (%s)\r\n%s\r\n\r\n",
			m.Score, m.Record.Title, m.Record.Company, m.Record.Source, m.Record.Link)
	}
	return []byte(b.String())
}
