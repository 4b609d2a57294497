package user

import (
	"context"
	"time"

	"github.com/justicelink/case-management/internal"
)

// Roles known to the directory. Judges carry global authority over every
// case; advocates may create cases; the remaining roles only ever act
// through explicit access grants.
const (
	RoleJudge            = "judge"
	RoleAdvocate         = "advocate"
	RoleGovernmentAgency = "government_agency"
	RolePrivateIntel     = "private_intel"
)

// MinSearchFragment bounds directory scans: shorter email fragments return
// an empty result instead of querying.
const MinSearchFragment = 3

type User struct {
	ID           string    `json:"user_id" gorm:"column:user_id;primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	FullName     string    `json:"full_name" gorm:"column:full_name;not null"`
	Role         string    `json:"role" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
}

func (User) TableName() string {
	return "users"
}

func ValidRole(role string) bool {
	switch role {
	case RoleJudge, RoleAdvocate, RoleGovernmentAgency, RolePrivateIntel:
		return true
	}
	return false
}

// IsJudge reports whether the user holds the global override role.
func (u *User) IsJudge() bool {
	return u.Role == RoleJudge
}

// CanCreateCases reports whether the user's role allows opening new cases.
func (u *User) CanCreateCases() bool {
	return u.Role == RoleJudge || u.Role == RoleAdvocate
}

var (
	ErrNotFound   = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	ErrEmailTaken = internal.NewConflictError("user with this email already exists", internal.ErrCodeEmailAlreadyExists)
)

type contextKey string

// ContextUserKey carries the authenticated user through a request.
const ContextUserKey contextKey = "auth_user"

func NewContext(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

// FromContext returns the authenticated user the middleware resolved, or
// false when the request never passed authentication.
func FromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}
