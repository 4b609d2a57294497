package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/justicelink/case-management/internal/auth"
	"github.com/justicelink/case-management/internal/transport"
	"github.com/justicelink/case-management/internal/user"
	"github.com/justicelink/case-management/pkg/logger"
)

// maxUploadBytes caps a single multipart upload at 50 MiB.
const maxUploadBytes = 50 << 20

type ServiceAPI interface {
	Upload(ctx context.Context, actor *user.User, caseID, fileName string, r io.Reader) (*Document, error)
	ListByCase(ctx context.Context, actor *user.User, caseID string) ([]*Document, error)
	Download(ctx context.Context, actor *user.User, docID string) (*Document, io.ReadCloser, error)
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

// Upload accepts a multipart form with a "file" part and attaches it to
// the case. The bytes stream straight from the request body into storage.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	caseID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.Logger.Error("Upload: missing or unreadable file part", "error", err, "case_id", caseID)
		h.HandleServiceError(w, ErrNoFile)
		return
	}
	defer file.Close()

	doc, err := h.Service.Upload(r.Context(), actor, caseID, header.Filename, file)
	if err != nil {
		h.Logger.Error("Upload: service error", "error", err, "case_id", caseID, "user_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) ListByCase(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	caseID := chi.URLParam(r, "id")
	docs, err := h.Service.ListByCase(r.Context(), actor, caseID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, docs)
}

// Download streams the stored bytes back with the original file name.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	docID := chi.URLParam(r, "id")
	doc, rc, err := h.Service.Download(r.Context(), actor, docID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.Error("Download: stream interrupted", "error", err, "doc_id", docID)
	}
}
