package cases

import (
	"time"

	"github.com/justicelink/case-management/internal"
)

// Case statuses. Transitions are unordered: any status may be set from any
// other, gated by authorization rather than a state machine.
const (
	StatusOpen       = "Open"
	StatusInProgress = "InProgress"
	StatusClosed     = "Closed"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

type Case struct {
	ID        string    `json:"case_id" gorm:"column:case_id;primaryKey"`
	Name      string    `json:"case_name" gorm:"column:case_name;not null"`
	Status    string    `json:"status" gorm:"not null"`
	CreatedBy string    `json:"created_by" gorm:"column:creator_id;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Case) TableName() string {
	return "cases"
}

var (
	ErrCaseNotFound = internal.NewNotFoundError("case not found", internal.ErrCodeCaseNotFound)
	ErrAccessDenied = internal.NewForbiddenError("you do not have access to this case", internal.ErrCodeAccessDenied)

	ErrCannotCreateCase = internal.NewForbiddenError("your role cannot create cases", internal.ErrCodeRoleCannotCreate)
	ErrCannotManageCase = internal.NewForbiddenError("you do not have permission to manage this case", internal.ErrCodeAccessDenied)
	ErrCannotUpload     = internal.NewForbiddenError("you do not have permission to upload to this case", internal.ErrCodeAccessDenied)
)
