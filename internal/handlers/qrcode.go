package handlers

import (
	"net/http"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// GetVerificationQRCode: GET /api/v1/verifications/{id}/qrcode?token=...
// Renders the share link carried by token as a PNG.
func (h *Handler) GetVerificationQRCode(w http.ResponseWriter, r *http.Request) {
	id, _, ok := h.authorizeShare(w, r)
	if !ok {
		return
	}
	if _, err := h.store.Get(r.Context(), id); err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	png, err := qrcode.Encode(h.links.URL(id, r.URL.Query().Get("token")), qrcode.Medium, qrSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
