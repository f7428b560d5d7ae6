// Package scrape collects job records from configured sources and runs them
// through the matching pipeline. A source is anything that can produce
// records: a job board site or an IMAP mailbox of job-alert emails.
package scrape

import (
	"context"

	"recruitwatch/internal/domain"
)

type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.JobRecord, error)
}
