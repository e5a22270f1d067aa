package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"docverify/internal/db"
)

const (
	minShareHours = 1
	maxShareHours = 168

	invalidLinkMsg = "This verification link is invalid or has expired."
)

var errInvalidShareToken = errors.New("invalid share token")

type shareClaims struct {
	VerificationID string `json:"verification_id"`
	jwt.RegisteredClaims
}

type generateShareLinkResp struct {
	ShareableURL string `json:"shareable_url"`
}

// ShareLinks signs and checks expiring links to a stored verification.
type ShareLinks struct {
	secret  []byte
	baseURL string
	now     func() time.Time
}

func NewShareLinks(secret, baseURL string) (*ShareLinks, error) {
	if secret == "" {
		return nil, errors.New("missing SHARE_TOKEN_SECRET")
	}
	return &ShareLinks{secret: []byte(secret), baseURL: trimRightSlash(baseURL), now: time.Now}, nil
}

// Issue signs a token for id valid for ttl.
func (s *ShareLinks) Issue(id string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := shareClaims{
		VerificationID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign share token: %w", err)
	}
	return signed, nil
}

// Parse checks a token and returns the verification id it grants and its
// expiry.
func (s *ShareLinks) Parse(token string) (string, time.Time, error) {
	parsed, err := jwt.ParseWithClaims(token, &shareClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return "", time.Time{}, errInvalidShareToken
	}
	claims, ok := parsed.Claims.(*shareClaims)
	if !ok || claims.VerificationID == "" {
		return "", time.Time{}, errInvalidShareToken
	}
	return claims.VerificationID, claims.ExpiresAt.Time, nil
}

// URL is the public address of the shared record.
func (s *ShareLinks) URL(id, token string) string {
	return fmt.Sprintf("%s/api/v1/verifications/%s?token=%s", s.baseURL, url.PathEscape(id), url.QueryEscape(token))
}

// GenerateShareLink: POST /api/v1/verifications/{id}/share-link
// body {"expires_in_hours": 1..168}
func (h *Handler) GenerateShareLink(w http.ResponseWriter, r *http.Request) {
	if h.store == nil || h.links == nil {
		writeError(w, http.StatusNotImplemented, "share links are not configured")
		return
	}
	id := chi.URLParam(r, "id")

	// Be liberal in what we accept from the frontend
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	expires := 0
	for _, k := range []string{"expires_in_hours", "expiresInHours", "duration"} {
		if v, ok := payload[k]; ok {
			expires, _ = parseHours(v)
			break
		}
	}
	if expires < minShareHours || expires > maxShareHours {
		writeError(w, http.StatusBadRequest, "expires_in_hours must be between 1 and 168")
		return
	}

	if _, err := h.store.Get(r.Context(), id); err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	token, err := h.links.Issue(id, time.Duration(expires)*time.Hour)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to sign share token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to sign share token")
		return
	}
	writeJSONResp(w, http.StatusOK, generateShareLinkResp{ShareableURL: h.links.URL(id, token)})
}

// GetVerification: GET /api/v1/verifications/{id}?token=...
func (h *Handler) GetVerification(w http.ResponseWriter, r *http.Request) {
	id, validUntil, ok := h.authorizeShare(w, r)
	if !ok {
		return
	}
	rec, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{
		"id":          rec.ID,
		"created_at":  rec.CreatedAt,
		"source":      rec.Source,
		"result":      json.RawMessage(rec.Result),
		"valid_until": validUntil,
	})
}

// authorizeShare checks the token query parameter against the {id} path
// parameter and writes the error response when they do not agree.
func (h *Handler) authorizeShare(w http.ResponseWriter, r *http.Request) (string, time.Time, bool) {
	if h.store == nil || h.links == nil {
		writeError(w, http.StatusNotImplemented, "share links are not configured")
		return "", time.Time{}, false
	}
	id := chi.URLParam(r, "id")
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		writeError(w, http.StatusUnauthorized, invalidLinkMsg)
		return "", time.Time{}, false
	}
	granted, exp, err := h.links.Parse(tokenStr)
	if err != nil {
		writeError(w, http.StatusUnauthorized, invalidLinkMsg)
		return "", time.Time{}, false
	}
	if granted != id {
		writeError(w, http.StatusForbidden, "forbidden: id mismatch")
		return "", time.Time{}, false
	}
	return id, exp, true
}

func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "verification not found")
		return
	}
	h.logger.ErrorContext(r.Context(), "verification store failed", "error", err)
	writeError(w, http.StatusInternalServerError, "database error")
}

// parseHours accepts a JSON number or a numeric string.
func parseHours(x any) (int, bool) {
	switch t := x.(type) {
	case float64:
		return int(t), true
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func trimRightSlash(s string) string {
	return strings.TrimRight(s, "/")
}
