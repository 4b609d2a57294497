package permission

import (
	"context"

	"github.com/justicelink/case-management/internal"
)

// AccessGrant binds one user to one access level on one case. The
// composite key (case_id, user_id) means re-granting overwrites the prior
// level; there is never more than one row per pair.
type AccessGrant struct {
	CaseID      string `json:"case_id" gorm:"column:case_id;primaryKey"`
	UserID      string `json:"user_id" gorm:"column:user_id;primaryKey"`
	AccessLevel string `json:"access_level" gorm:"column:access_level;not null"`
}

func (AccessGrant) TableName() string {
	return "case_access_permissions"
}

// Collaborator is a grant joined with the identity of its holder, as
// returned by the case permissions listing.
type Collaborator struct {
	UserID      string `json:"user_id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	AccessLevel string `json:"access_level"`
}

// Repository is the access grant store. Upsert must be atomic with respect
// to concurrent upserts on the same (case_id, user_id) key; last writer
// wins.
type Repository interface {
	Get(ctx context.Context, caseID, userID string) (*AccessGrant, error)
	Upsert(ctx context.Context, grant *AccessGrant) error
	ListByCase(ctx context.Context, caseID string) ([]*Collaborator, error)

	// AccessLevel satisfies the authorization engine's grant lookup.
	AccessLevel(ctx context.Context, caseID, userID string) (string, bool, error)
}

var ErrGrantNotFound = internal.NewNotFoundError("access grant not found", internal.ErrCodeAccessDenied)
