// Package notify delivers newly matched jobs. Delivery is best effort: a
// failing channel is logged and the others still run.
package notify

import (
	"context"

	"go.uber.org/zap"

	"recruitwatch/internal/domain"
)

type Notifier interface {
	Name() string
	Notify(ctx context.Context, matches []domain.MatchResult) error
}

type Multi struct {
	notifiers []Notifier
	log       *zap.Logger
}

func NewMulti(log *zap.Logger, notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers, log: log}
}

func (m *Multi) Notify(ctx context.Context, matches []domain.MatchResult) {
	if len(matches) == 0 {
		return
	}
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, matches); err != nil {
			m.log.Warn("notification failed", zap.String("channel", n.Name()), zap.Error(err))
		}
	}
}
