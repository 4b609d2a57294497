package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeCaseCreated       = "case.created"
	EventTypeCaseStatusUpdated = "case.status_updated"
	EventTypeAccessGranted     = "case.access_granted"
	EventTypeDocumentUploaded  = "case.document_uploaded"
)

type CaseCreatedEvent struct {
	BaseEvent
	CaseID    string `json:"case_id"`
	CaseName  string `json:"case_name"`
	CreatedBy string `json:"created_by"`
}

func NewCaseCreatedEvent(caseID, caseName, createdBy string) *CaseCreatedEvent {
	return &CaseCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCaseCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"case_id":    caseID,
				"case_name":  caseName,
				"created_by": createdBy,
			},
		},
		CaseID:    caseID,
		CaseName:  caseName,
		CreatedBy: createdBy,
	}
}

type CaseStatusUpdatedEvent struct {
	BaseEvent
	CaseID    string `json:"case_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	UpdatedBy string `json:"updated_by"`
}

func NewCaseStatusUpdatedEvent(caseID, oldStatus, newStatus, updatedBy string) *CaseStatusUpdatedEvent {
	return &CaseStatusUpdatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCaseStatusUpdated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"case_id":    caseID,
				"old_status": oldStatus,
				"new_status": newStatus,
				"updated_by": updatedBy,
			},
		},
		CaseID:    caseID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		UpdatedBy: updatedBy,
	}
}

type AccessGrantedEvent struct {
	BaseEvent
	CaseID      string `json:"case_id"`
	TargetUser  string `json:"target_user"`
	AccessLevel string `json:"access_level"`
	GrantedBy   string `json:"granted_by"`
}

func NewAccessGrantedEvent(caseID, targetUser, accessLevel, grantedBy string) *AccessGrantedEvent {
	return &AccessGrantedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAccessGranted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"case_id":      caseID,
				"target_user":  targetUser,
				"access_level": accessLevel,
				"granted_by":   grantedBy,
			},
		},
		CaseID:      caseID,
		TargetUser:  targetUser,
		AccessLevel: accessLevel,
		GrantedBy:   grantedBy,
	}
}

type DocumentUploadedEvent struct {
	BaseEvent
	CaseID     string `json:"case_id"`
	DocumentID string `json:"document_id"`
	FileName   string `json:"file_name"`
	UploadedBy string `json:"uploaded_by"`
}

func NewDocumentUploadedEvent(caseID, documentID, fileName, uploadedBy string) *DocumentUploadedEvent {
	return &DocumentUploadedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDocumentUploaded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"case_id":     caseID,
				"document_id": documentID,
				"file_name":   fileName,
				"uploaded_by": uploadedBy,
			},
		},
		CaseID:     caseID,
		DocumentID: documentID,
		FileName:   fileName,
		UploadedBy: uploadedBy,
	}
}
