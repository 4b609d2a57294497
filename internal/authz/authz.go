package authz

// Action is an operation subject to authorization on a case.
type Action string

const (
	ActionViewCase          Action = "view_case"
	ActionUploadDocument    Action = "upload_document"
	ActionManageCase        Action = "manage_case"
	ActionViewCollaborators Action = "view_collaborators"
)

// Access levels a grant can carry. A level collapses a capability set into
// a single stored value; the engine expands it back at lookup time.
const (
	LevelViewOnly   = "view_only"
	LevelUploadOnly = "upload_only"
	LevelSudo       = "sudo"
)

func ValidAccessLevel(level string) bool {
	switch level {
	case LevelViewOnly, LevelUploadOnly, LevelSudo:
		return true
	}
	return false
}

// Capability is the expanded form of an access level. The three flags are
// independent: upload implies view in practice (upload_only holders can see
// the case they feed), but never manage.
type Capability struct {
	CanView   bool
	CanUpload bool
	CanManage bool
}

// CapabilityForLevel expands a stored access level. Unknown levels expand
// to no capabilities at all.
func CapabilityForLevel(level string) Capability {
	switch level {
	case LevelSudo:
		return Capability{CanView: true, CanUpload: true, CanManage: true}
	case LevelUploadOnly:
		return Capability{CanView: true, CanUpload: true}
	case LevelViewOnly:
		return Capability{CanView: true}
	}
	return Capability{}
}

// Permits reports whether the capability set covers the action.
func (c Capability) Permits(action Action) bool {
	switch action {
	case ActionViewCase, ActionViewCollaborators:
		return c.CanView
	case ActionUploadDocument:
		return c.CanUpload
	case ActionManageCase:
		return c.CanManage
	}
	return false
}
