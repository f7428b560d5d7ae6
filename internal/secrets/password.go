// Package secrets keeps mail passwords in the OS keyring so they never
// appear in the YAML config.
package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups the app's secrets in the OS keychain.
const KeyringService = "recruitwatch"

func Get(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}
	pw, err := keyring.Get(KeyringService, account)
	if err != nil {
		return "", fmt.Errorf("keyring get %s: %w", account, err)
	}
	if strings.TrimSpace(pw) == "" {
		return "", fmt.Errorf("keyring entry %s is empty", account)
	}
	return pw, nil
}

func Set(account, password string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, account, password)
}

func Delete(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}

// IMAPAccount names the keyring entry for the alert mailbox password.
func IMAPAccount(username, host string) string {
	return fmt.Sprintf("imap:%s@%s", username, host)
}

// SMTPAccount names the keyring entry for the notification sender password.
func SMTPAccount(from, host string) string {
	return fmt.Sprintf("smtp:%s@%s", from, host)
}
