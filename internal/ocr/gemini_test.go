package ocr

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini("  ", "")
	assert.Error(t, err)

	g, err := NewGemini("key", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultGeminiModel, g.model)
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"plain":                      "plain",
		"```\nP<USA\n```":            "P<USA",
		"```text\nLINE1\nLINE2\n```": "LINE1\nLINE2",
		"  spaced  ":                 "spaced",
	}
	for in, want := range cases {
		assert.Equal(t, want, stripCodeFences(in), in)
	}
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text("```\nPASSPORT\n"),
				genai.Text("P<USADOE<<JOHN\n```"),
			}},
		}},
	}
	got, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "PASSPORT\nP<USADOE<<JOHN", got)

	_, err = responseText(nil)
	assert.Error(t, err)
	_, err = responseText(&genai.GenerateContentResponse{})
	assert.Error(t, err)
}

func TestImageFormat(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	jpeg := []byte("\xff\xd8\xff\xe0")
	assert.Equal(t, "png", imageFormat(png))
	assert.Equal(t, "jpeg", imageFormat(jpeg))
	assert.Equal(t, "jpeg", imageFormat([]byte("unknown")))
}
