package ocr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-2.0-flash-lite"

const transcribePrompt = `You are an OCR engine. Transcribe every piece of text visible in this identity document image.

Rules:
1. Output plain text only, one printed line per output line, top to bottom.
2. Copy machine readable zone lines exactly, keeping every '<' character and without spaces.
3. Do not translate, summarize, explain or add anything that is not printed on the document.`

// GeminiRecognizer reads document text with a Gemini multimodal model.
type GeminiRecognizer struct {
	apiKey string
	model  string
}

// NewGemini returns a recognizer for the given API key. An empty model name
// selects DefaultGeminiModel.
func NewGemini(apiKey, model string) (*GeminiRecognizer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiRecognizer{apiKey: apiKey, model: model}, nil
}

func (g *GeminiRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to init Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(0)

	resp, err := model.GenerateContent(ctx, genai.ImageData(imageFormat(image), image), genai.Text(transcribePrompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	return responseText(resp)
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return "", errors.New("empty response from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return stripCodeFences(sb.String()), nil
}

// imageFormat maps sniffed content to the short format name Gemini expects.
func imageFormat(image []byte) string {
	switch http.DetectContentType(image) {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "jpeg"
	}
}

// stripCodeFences removes surrounding Markdown code fences like ```text ... ```.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// a short first line is a language tag
		if i := strings.IndexByte(s, '\n'); i != -1 {
			first := strings.TrimSpace(s[:i])
			if len(first) < 20 {
				s = s[i+1:]
			}
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
