package authz

import (
	"context"
	"log/slog"

	"github.com/justicelink/case-management/internal/user"
)

// GrantReader looks up the access level recorded for a user on a case.
// found is false when no grant exists.
type GrantReader interface {
	AccessLevel(ctx context.Context, caseID, userID string) (level string, found bool, err error)
}

// Engine decides whether an actor may perform an action on a case. The
// decision is a two-tier check: the global role predicate first, the
// per-case grant lookup only when that fails. It holds no state of its own
// and is safe to call repeatedly within one request.
type Engine struct {
	grants GrantReader
	logger *slog.Logger
}

func NewEngine(grants GrantReader, logger *slog.Logger) *Engine {
	return &Engine{
		grants: grants,
		logger: logger,
	}
}

// Authorize returns true when actor may perform action on the case.
// Judges are allowed everything regardless of grants; everyone else is
// denied unless a grant exists whose capabilities cover the action.
func (e *Engine) Authorize(ctx context.Context, actor *user.User, caseID string, action Action) (bool, error) {
	if actor == nil {
		return false, nil
	}

	if actor.IsJudge() {
		return true, nil
	}

	level, found, err := e.grants.AccessLevel(ctx, caseID, actor.ID)
	if err != nil {
		e.logger.Error("grant lookup failed", "error", err, "case_id", caseID, "user_id", actor.ID)
		return false, err
	}
	if !found {
		return false, nil
	}

	allowed := CapabilityForLevel(level).Permits(action)
	if !allowed {
		e.logger.Warn("access denied: grant does not cover action",
			"case_id", caseID,
			"user_id", actor.ID,
			"access_level", level,
			"action", action)
	}

	return allowed, nil
}
