package verification

import (
	"encoding/base64"
	"strings"
)

// DecodeImage accepts plain base64 or a data URL
// ("data:image/png;base64,....") and returns the raw bytes.
func DecodeImage(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrNoImage
	}

	if strings.HasPrefix(s, "data:") {
		header, payload, ok := strings.Cut(s, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, ErrInvalidImage
		}
		s = payload
	}

	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)

	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		b, err = base64.RawStdEncoding.DecodeString(s)
	}
	if err != nil || len(b) == 0 {
		return nil, ErrInvalidImage
	}
	return b, nil
}
