package cases

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/justicelink/case-management/internal/auth"
	"github.com/justicelink/case-management/internal/permission"
	"github.com/justicelink/case-management/internal/transport"
	"github.com/justicelink/case-management/internal/user"
	"github.com/justicelink/case-management/pkg/logger"
)

type ServiceAPI interface {
	CreateCase(ctx context.Context, actor *user.User, dto CreateCaseDTO) (*Case, error)
	ListCases(ctx context.Context, actor *user.User) ([]*Case, error)
	GetCase(ctx context.Context, actor *user.User, caseID string) (*Case, error)
	UpdateStatus(ctx context.Context, actor *user.User, caseID string, dto UpdateStatusDTO) (*Case, error)
	GrantAccess(ctx context.Context, actor *user.User, caseID string, dto GrantAccessDTO) (*permission.AccessGrant, error)
	ListCollaborators(ctx context.Context, actor *user.User, caseID string) ([]*permission.Collaborator, error)
	Summarize(ctx context.Context, actor *user.User, caseID string) (string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreateCase(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.Logger.Error("CreateCase: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateCaseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateCase: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.CreateCase(r.Context(), actor, dto)
	if err != nil {
		h.Logger.Error("CreateCase: service error", "error", err, "user_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) ListCases(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	list, err := h.Service.ListCases(r.Context(), actor)
	if err != nil {
		h.Logger.Error("ListCases: service error", "error", err, "user_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) GetCase(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	caseID := chi.URLParam(r, "id")
	c, err := h.Service.GetCase(r.Context(), actor, caseID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	caseID := chi.URLParam(r, "id")

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateStatus: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.UpdateStatus(r.Context(), actor, caseID, dto)
	if err != nil {
		h.Logger.Error("UpdateStatus: service error", "error", err, "case_id", caseID, "user_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) GrantAccess(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	caseID := chi.URLParam(r, "id")

	var dto GrantAccessDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("GrantAccess: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	grant, err := h.Service.GrantAccess(r.Context(), actor, caseID, dto)
	if err != nil {
		h.Logger.Error("GrantAccess: service error", "error", err, "case_id", caseID, "user_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, grant)
}

func (h *Handler) ListCollaborators(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	caseID := chi.URLParam(r, "id")
	collaborators, err := h.Service.ListCollaborators(r.Context(), actor, caseID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, collaborators)
}

func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	caseID := chi.URLParam(r, "id")
	summary, err := h.Service.Summarize(r.Context(), actor, caseID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"summary": summary})
}
