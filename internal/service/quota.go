package service

import (
	"context"
	"time"

	"github.com/openloom/workspace-chat/internal/domain"
)

// QuotaGate decides whether a user may start another chat inside the rolling
// window. It is a single read against externally-synchronized counters, not
// a reserve-then-commit transaction: two concurrent sessions racing past the
// limit by one message are tolerated.
type QuotaGate struct {
	messages     domain.MessageRepository
	multiUser    bool
	window       time.Duration
	defaultLimit int
}

// NewQuotaGate creates a quota gate. The gate is inert in single-user
// deployments.
func NewQuotaGate(messages domain.MessageRepository, multiUser bool, window time.Duration, defaultLimit int) *QuotaGate {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &QuotaGate{
		messages:     messages,
		multiUser:    multiUser,
		window:       window,
		defaultLimit: defaultLimit,
	}
}

// CanSend reports whether the user is below their chat quota for the
// trailing window
func (g *QuotaGate) CanSend(ctx context.Context, user *domain.User) (bool, error) {
	if !g.multiUser || user == nil {
		return true, nil
	}

	count, err := g.messages.CountByUserSince(ctx, user.ID, time.Now().Add(-g.window))
	if err != nil {
		return false, err
	}

	return count < g.LimitFor(user), nil
}

// LimitFor returns the user's configured daily message limit, falling back
// to the deployment default
func (g *QuotaGate) LimitFor(user *domain.User) int {
	if user != nil && user.DailyMessageLimit > 0 {
		return user.DailyMessageLimit
	}
	return g.defaultLimit
}
