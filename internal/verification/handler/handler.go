package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"verifyflow/internal/casework/models"
	"verifyflow/internal/casework/ports"
	"verifyflow/internal/casework/workflow"
	id "verifyflow/pkg/domain"
	dErrors "verifyflow/pkg/domain-errors"
	"verifyflow/pkg/platform/httputil"
	"verifyflow/pkg/requestcontext"
)

// multipartOverhead is allowed on top of the file ceiling for form fields
// and part headers.
const multipartOverhead = 1 << 20

// Handler serves the case REST API over a Verification Service.
type Handler struct {
	service        ports.VerificationService
	logger         *slog.Logger
	maxUploadBytes int64
}

func New(service ports.VerificationService, logger *slog.Logger, maxUploadBytes int64) *Handler {
	return &Handler{
		service:        service,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Register registers the case routes. Authentication middleware is applied
// by the caller.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/applications", h.handleCreateCase)
	r.Get("/api/applications/{id}", h.handleGetCase)
	r.Get("/api/applications/{id}/complete", h.handleGetCompleteCase)
	r.Get("/api/applications/user/{userID}", h.handleListForUser)
	r.Put("/api/applications/{id}/submit", h.handleSubmit)

	r.Post("/api/profiles/{applicationID}", h.handleSaveProfile)
	r.Get("/api/profiles/{applicationID}", h.handleGetProfile)

	r.Post("/api/documents/upload", h.handleUpload)
	r.Get("/api/documents/application/{applicationID}", h.handleListDocuments)
	r.Delete("/api/documents/{id}", h.handleDeleteDocument)

	r.Get("/api/admin/applications/pending", h.handleListPending)
	r.Post("/api/admin/applications/{id}/claim", h.handleClaim)
	r.Put("/api/admin/applications/{id}/review", h.handleReview)
	r.Get("/api/admin/dashboard", h.handleDashboard)
}

// session rebuilds the caller's session from what the auth middleware put
// in the request context. An unknown role leaves the session unauthenticated.
func session(ctx context.Context) ports.Session {
	role, _ := workflow.ParseActor(requestcontext.Role(ctx))
	return ports.Session{
		Token:     requestcontext.BearerToken(ctx),
		UserID:    requestcontext.UserID(ctx),
		Role:      role,
		ExpiresAt: requestcontext.TokenExpiresAt(ctx),
	}
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	code := dErrors.CodeOf(err)
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"user_id", requestcontext.UserID(ctx),
		"error", err,
	}
	if code == "" || code == dErrors.CodeInternal || code == dErrors.CodeUnavailable {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}

type createCaseRequest struct {
	ApplicationType string `json:"application_type"`
}

func (r *createCaseRequest) Validate() error {
	_, err := models.ParseCaseType(strings.TrimSpace(r.ApplicationType))
	return err
}

type caseList struct {
	Applications []*models.Case `json:"applications"`
}

type documentList struct {
	Documents []models.Document `json:"documents"`
}

func (h *Handler) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[createCaseRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.service.CreateCase(ctx, session(ctx), models.CaseType(strings.TrimSpace(req.ApplicationType)))
	if err != nil {
		h.fail(ctx, w, "failed to create case", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleGetCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, err := id.ParseCaseID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, "invalid case id", err)
		return
	}
	c, err := h.service.GetCase(ctx, session(ctx), caseID)
	if err != nil {
		h.fail(ctx, w, "failed to get case", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleGetCompleteCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, err := id.ParseCaseID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, "invalid case id", err)
		return
	}
	c, err := h.service.GetCompleteCase(ctx, session(ctx), caseID)
	if err != nil {
		h.fail(ctx, w, "failed to get complete case", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(ctx, w, "invalid user id", err)
		return
	}
	cases, err := h.service.ListCasesForUser(ctx, session(ctx), userID)
	if err != nil {
		h.fail(ctx, w, "failed to list cases", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, caseList{Applications: cases})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, err := id.ParseCaseID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, "invalid case id", err)
		return
	}
	c, err := h.service.SubmitCase(ctx, session(ctx), caseID)
	if err != nil {
		h.fail(ctx, w, "failed to submit case", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// handleSaveProfile decodes the body into the variant of the stored case.
// If-Match carries the version the client last saw.
func (h *Handler) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session(ctx)
	caseID, err := id.ParseCaseID(chi.URLParam(r, "applicationID"))
	if err != nil {
		h.fail(ctx, w, "invalid case id", err)
		return
	}
	expected, err := parseIfMatch(r.Header.Get("If-Match"))
	if err != nil {
		h.fail(ctx, w, "invalid If-Match header", err)
		return
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, httputil.MaxBodyBytes))
	if err != nil {
		h.fail(ctx, w, "failed to read profile", dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read request body"))
		return
	}

	c, err := h.service.GetCase(ctx, sess, caseID)
	if err != nil {
		h.fail(ctx, w, "failed to load case for profile", err)
		return
	}
	profile, err := models.DecodeProfile(c.CaseType, raw)
	if err != nil {
		h.fail(ctx, w, "invalid profile payload", err)
		return
	}
	saved, err := h.service.SaveProfile(ctx, sess, caseID, profile, expected)
	if err != nil {
		h.fail(ctx, w, "failed to save profile", err)
		return
	}
	w.Header().Set("ETag", strconv.FormatInt(saved.Version, 10))
	httputil.WriteJSON(w, http.StatusOK, saved)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, err := id.ParseCaseID(chi.URLParam(r, "applicationID"))
	if err != nil {
		h.fail(ctx, w, "invalid case id", err)
		return
	}
	c, err := h.service.GetCase(ctx, session(ctx), caseID)
	if err != nil {
		h.fail(ctx, w, "failed to get profile", err)
		return
	}
	w.Header().Set("ETag", strconv.FormatInt(c.Version, 10))
	httputil.WriteJSON(w, http.StatusOK, c.Profile)
}

// parseIfMatch accepts a bare or quoted version number. An absent header
// means the client makes no claim.
func parseIfMatch(header string) (int64, error) {
	v := strings.TrimSpace(header)
	v = strings.TrimPrefix(v, "W/")
	v = strings.Trim(v, `"`)
	if v == "" || v == "*" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "If-Match must be a case version")
	}
	return n, nil
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := h.maxUploadBytes + multipartOverhead
	if r.ContentLength > limit {
		h.fail(ctx, w, "upload too large", h.tooLarge())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.fail(ctx, w, "upload too large", h.tooLarge())
			return
		}
		h.fail(ctx, w, "invalid multipart form", dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid multipart form"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	caseID, err := id.ParseCaseID(r.FormValue("application_id"))
	if err != nil {
		h.fail(ctx, w, "invalid case id", err)
		return
	}
	upload := ports.Upload{DocumentType: models.DocumentType(strings.TrimSpace(r.FormValue("document_type")))}
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		upload.File = models.File{
			Filename:  header.Filename,
			MediaType: header.Header.Get("Content-Type"),
			SizeBytes: header.Size,
		}
		upload.Content = file
	case errors.Is(err, http.ErrMissingFile):
	default:
		h.fail(ctx, w, "invalid file part", dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid file part"))
		return
	}

	doc, err := h.service.UploadDocument(ctx, session(ctx), caseID, upload)
	if err != nil {
		h.fail(ctx, w, "failed to upload document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, err := id.ParseCaseID(chi.URLParam(r, "applicationID"))
	if err != nil {
		h.fail(ctx, w, "invalid case id", err)
		return
	}
	c, err := h.service.GetCompleteCase(ctx, session(ctx), caseID)
	if err != nil {
		h.fail(ctx, w, "failed to list documents", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, documentList{Documents: c.Documents})
}

func (h *Handler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, err := id.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, "invalid document id", err)
		return
	}
	if err := h.service.DeleteDocument(ctx, session(ctx), docID); err != nil {
		h.fail(ctx, w, "failed to delete document", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) tooLarge() error {
	return dErrors.Wrap(dErrors.FieldErrors{{
		FieldPath: "file",
		Message:   "File exceeds the " + strconv.FormatInt(h.maxUploadBytes, 10) + " byte limit",
	}}, dErrors.CodeValidation, "File exceeds the upload limit")
}
