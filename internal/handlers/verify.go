package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"maps"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"

	"docverify/internal/db"
	"docverify/internal/models"
	"docverify/internal/verification"
)

const (
	documentField = "document"
	// base64 inflates by 4/3; leave room for the JSON envelope.
	jsonBodyFactor = 2
)

type verifyRequest struct {
	Image         string                       `json:"image"`
	ApplicantData *models.ApplicantDeclaration `json:"applicantData"`
}

// VerifyJSON: POST /api/verify
// body {"image": "<base64 or data URL>", "applicantData": {...}}
func (h *Handler) VerifyJSON(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload*jsonBodyFactor)

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "Image too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	img, err := verification.DecodeImage(req.Image)
	if err != nil {
		h.writeVerifyError(w, r, err)
		return
	}
	h.verify(w, r, img, req.ApplicantData)
}

// VerifyDocument: POST /api/v1/verify-document
// multipart/form-data with file field "document" and optional applicant
// fields named like the JSON keys.
func (h *Handler) VerifyDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "Image too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	file, ok := formFile(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "No image provided")
		return
	}
	defer file.Close()

	img, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}
	h.verify(w, r, img, declarationFromForm(r))
}

// formFile returns the "document" part, or else the first file part in key
// order.
func formFile(r *http.Request) (multipart.File, bool) {
	if f, _, err := r.FormFile(documentField); err == nil {
		return f, true
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File) == 0 {
		return nil, false
	}
	for _, k := range slices.Sorted(maps.Keys(r.MultipartForm.File)) {
		if f, _, err := r.FormFile(k); err == nil {
			return f, true
		}
	}
	return nil, false
}

func declarationFromForm(r *http.Request) *models.ApplicantDeclaration {
	get := func(k string) string { return strings.TrimSpace(r.FormValue(k)) }
	d := models.ApplicantDeclaration{
		FullName:         get("fullName"),
		DateOfBirth:      get("dateOfBirth"),
		PassportNumber:   get("passportNumber"),
		Nationality:      get("nationality"),
		IntendedVisaType: get("intendedVisaType"),
		PurposeOfVisit:   get("purposeOfVisit"),
	}
	if d == (models.ApplicantDeclaration{}) {
		return nil
	}
	return &d
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request, img []byte, decl *models.ApplicantDeclaration) {
	ctx := r.Context()
	a, err := h.verifier.Verify(ctx, img, decl)
	if err != nil {
		h.writeVerifyError(w, r, err)
		return
	}

	if h.store != nil {
		if id, err := h.persist(r, a); err != nil {
			h.logger.WarnContext(ctx, "failed to persist verification", "error", err)
		} else {
			w.Header().Set("X-Verification-ID", id)
		}
	}
	writeJSONResp(w, http.StatusOK, a.Result)
}

func (h *Handler) persist(r *http.Request, a verification.Analysis) (string, error) {
	rec, err := db.NewRecord(a.Result, string(a.Source))
	if err != nil {
		return "", err
	}
	if err := h.store.Save(r.Context(), rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (h *Handler) writeVerifyError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, verification.ErrNoImage):
		writeError(w, http.StatusBadRequest, "No image provided")
	case errors.Is(err, verification.ErrInvalidImage):
		writeError(w, http.StatusBadRequest, "Invalid image data")
	default:
		h.logger.ErrorContext(r.Context(), "verification failed", "error", err)
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{
			"error":   "Verification failed",
			"details": err.Error(),
		})
	}
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
