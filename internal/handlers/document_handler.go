package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/services"
	"suryaghar-backend/internal/timeutil"
	"suryaghar-backend/pkg/utils"
)

// multipart overhead allowed on top of the file itself
const formSlack = 1 << 20

type DocumentHandler struct {
	Service *services.DocumentService
}

func NewDocumentHandler(s *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{Service: s}
}

func optionalFormInt(r *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parseExpiry accepts a plain date (read in IST) or an RFC 3339 timestamp.
func parseExpiry(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, timeutil.IST); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Upload handles POST /api/documents/upload (multipart/form-data).
// Fields: file, category, description, customerId or partnerId, expiresAt.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, services.MaxDocumentBytes+formSlack)
	if err := r.ParseMultipartForm(services.MaxDocumentBytes + formSlack); err != nil {
		utils.Error(w, http.StatusBadRequest, "Upload must be multipart/form-data and at most 10 MB")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	customerID, err := optionalFormInt(r, "customerId")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid customerId")
		return
	}
	partnerID, err := optionalFormInt(r, "partnerId")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid partnerId")
		return
	}
	expiresAt, err := parseExpiry(strings.TrimSpace(r.FormValue("expiresAt")))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid expiresAt")
		return
	}

	up := &models.DocumentUpload{
		CustomerID:  customerID,
		PartnerID:   partnerID,
		Category:    models.DocumentCategory(r.FormValue("category")),
		ExpiresAt:   expiresAt,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		SizeBytes:   header.Size,
	}
	if desc := strings.TrimSpace(r.FormValue("description")); desc != "" {
		up.Description = &desc
	}

	doc, err := h.Service.Upload(r.Context(), actor, up, file)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, doc)
}

// ListForCustomer handles GET /api/customers/{id}/documents
func (h *DocumentHandler) ListForCustomer(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	docs, err := h.Service.ListForCustomer(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if docs == nil {
		docs = []*models.Document{}
	}
	utils.JSON(w, http.StatusOK, docs)
}

// ListForPartner handles GET /api/partners/{id}/documents
func (h *DocumentHandler) ListForPartner(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	docs, err := h.Service.ListForPartner(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if docs == nil {
		docs = []*models.Document{}
	}
	utils.JSON(w, http.StatusOK, docs)
}

// Download handles GET /api/documents/{id}/download. It returns a
// presigned URL rather than streaming the object.
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	dl, err := h.Service.Download(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, dl)
}

// Verify handles PATCH /api/documents/{id}/verify
func (h *DocumentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	doc, err := h.Service.Verify(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
