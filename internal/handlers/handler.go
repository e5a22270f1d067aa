// Package handlers exposes the verification pipeline over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"docverify/internal/models"
	"docverify/internal/verification"
)

const defaultMaxUploadBytes = 10 << 20

// Verifier runs the document pipeline on one image.
type Verifier interface {
	Verify(ctx context.Context, image []byte, decl *models.ApplicantDeclaration) (verification.Analysis, error)
}

// RecordStore persists completed verifications.
type RecordStore interface {
	Save(ctx context.Context, rec *models.VerificationRecord) error
	Get(ctx context.Context, id string) (*models.VerificationRecord, error)
}

// Deps are the collaborators of Handler. Store and Links are optional; the
// endpoints that need them answer 501 when they are absent.
type Deps struct {
	Verifier       Verifier
	Store          RecordStore
	Links          *ShareLinks
	Logger         *slog.Logger
	MaxUploadBytes int64
}

// Handler wires HTTP endpoints to the verification service.
type Handler struct {
	verifier  Verifier
	store     RecordStore
	links     *ShareLinks
	logger    *slog.Logger
	maxUpload int64
}

func New(d Deps) *Handler {
	h := &Handler{
		verifier:  d.Verifier,
		store:     d.Store,
		links:     d.Links,
		logger:    d.Logger,
		maxUpload: d.MaxUploadBytes,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.maxUpload <= 0 {
		h.maxUpload = defaultMaxUploadBytes
	}
	return h
}

// Register mounts the verification endpoints on r.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/verify", h.VerifyJSON)
	r.Post("/api/v1/verify-document", h.VerifyDocument)
	r.Post("/api/v1/verify-batch", h.VerifyBatch)

	r.Route("/api/v1/verifications/{id}", func(r chi.Router) {
		r.Get("/", h.GetVerification)
		r.Post("/share-link", h.GenerateShareLink)
		r.Get("/qrcode", h.GetVerificationQRCode)
	})
}

func writeJSONResp(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSONResp(w, status, map[string]any{"error": msg})
}
