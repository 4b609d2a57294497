package cases

import (
	"strings"

	"github.com/justicelink/case-management/internal"
	"github.com/justicelink/case-management/internal/authz"
)

// CreateCaseDTO is the request payload for opening a case
type CreateCaseDTO struct {
	CaseName string `json:"case_name"`
}

func (dto CreateCaseDTO) Validate() error {
	if strings.TrimSpace(dto.CaseName) == "" {
		return internal.NewValidationError("case name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateStatusDTO is the request payload for a status transition
type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateStatusDTO) Validate() error {
	if dto.Status == "" {
		return internal.NewValidationError("status is required", internal.ErrCodeValidationFailed)
	}
	if !ValidStatus(dto.Status) {
		return internal.NewValidationError("status must be one of Open, InProgress, Closed", internal.ErrCodeInvalidCaseStatus)
	}
	return nil
}

// GrantAccessDTO is the request payload for granting a user access to a case
type GrantAccessDTO struct {
	UserID      string `json:"user_id"`
	AccessLevel string `json:"access_level"`
}

func (dto *GrantAccessDTO) Validate() error {
	if dto.UserID == "" {
		return internal.NewValidationError("user ID is required", internal.ErrCodeValidationFailed)
	}
	if dto.AccessLevel == "" {
		// the original client defaults omitted levels to view-only
		dto.AccessLevel = authz.LevelViewOnly
	}
	if !authz.ValidAccessLevel(dto.AccessLevel) {
		return internal.NewValidationError("access level must be one of view_only, upload_only, sudo", internal.ErrCodeInvalidAccessLevel)
	}
	return nil
}
