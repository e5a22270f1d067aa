package handlers

import (
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"net/http"
	"slices"

	"golang.org/x/sync/errgroup"

	"docverify/internal/models"
)

const (
	maxBatchFiles  = 10
	batchWorkers   = 4
	batchFileField = "documents"
)

type batchItem struct {
	File   string                     `json:"file"`
	Result *models.VerificationResult `json:"result,omitempty"`
	Error  string                     `json:"error,omitempty"`
}

// VerifyBatch: POST /api/v1/verify-batch
// multipart/form-data with up to 10 files under "documents" (or any file
// field) and optional applicant fields applied to every file. Items come back
// in upload order; a failing file does not fail the batch.
func (h *Handler) VerifyBatch(w http.ResponseWriter, r *http.Request) {
	limit := h.maxUpload * maxBatchFiles
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	headers := batchFiles(r.MultipartForm)
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "No image provided")
		return
	}
	if len(headers) > maxBatchFiles {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d files per batch", maxBatchFiles))
		return
	}

	decl := declarationFromForm(r)
	items := make([]batchItem, len(headers))

	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(batchWorkers)
	for i, fh := range headers {
		g.Go(func() error {
			items[i].File = fh.Filename

			img, err := readPart(fh)
			if err != nil {
				items[i].Error = "failed to read uploaded file"
				return nil
			}
			a, err := h.verifier.Verify(ctx, img, decl)
			if err != nil {
				h.logger.WarnContext(ctx, "batch item failed", "index", i, "error", err)
				items[i].Error = err.Error()
				return nil
			}
			items[i].Result = &a.Result
			return nil
		})
	}
	_ = g.Wait()

	writeJSONResp(w, http.StatusOK, map[string]any{"items": items})
}

// batchFiles returns the "documents" parts, or else every file part in key
// order.
func batchFiles(form *multipart.Form) []*multipart.FileHeader {
	if form == nil {
		return nil
	}
	if fhs := form.File[batchFileField]; len(fhs) > 0 {
		return fhs
	}
	var out []*multipart.FileHeader
	for _, k := range slices.Sorted(maps.Keys(form.File)) {
		out = append(out, form.File[k]...)
	}
	return out
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
