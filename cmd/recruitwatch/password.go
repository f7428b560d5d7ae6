package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"recruitwatch/internal/config"
	"recruitwatch/internal/secrets"
)

// storePassword reads a password from stdin and saves it under the right
// keyring account, so secrets never land in the YAML config.
func storePassword(cfg config.Config, imap bool) error {
	var account, label string
	if imap {
		if cfg.Mail.Username == "" || cfg.Mail.IMAPHost == "" {
			return fmt.Errorf("mail.username and mail.imap_host must be configured first")
		}
		account = secrets.IMAPAccount(cfg.Mail.Username, cfg.Mail.IMAPHost)
		label = "IMAP"
	} else {
		e := cfg.Notifications.Email
		if e.From == "" || e.SMTPHost == "" {
			return fmt.Errorf("notifications.email.from and smtp_host must be configured first")
		}
		account = secrets.SMTPAccount(e.From, e.SMTPHost)
		label = "SMTP"
	}

	fmt.Fprintf(os.Stderr, "%s password for %s: ", label, account)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if err := secrets.Set(account, strings.TrimSpace(line)); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	fmt.Fprintln(os.Stderr, "stored.")
	return nil
}
