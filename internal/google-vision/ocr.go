// Package googlevision recognizes document text with Google Cloud Vision.
package googlevision

import (
	"context"
	"errors"
	"fmt"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// Recognizer runs DOCUMENT_TEXT_DETECTION on a single image. A client is
// created per call so no connection outlives a request.
type Recognizer struct {
	credentialsFile string
}

// New returns a recognizer. An empty credentialsFile falls back to
// application default credentials.
func New(credentialsFile string) *Recognizer {
	return &Recognizer{credentialsFile: credentialsFile}
}

func (r *Recognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	var opts []option.ClientOption
	if r.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(r.credentialsFile))
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to init OCR client: %w", err)
	}
	defer client.Close()

	resp, err := client.BatchAnnotateImages(ctx, annotateRequest(image))
	if err != nil {
		return "", fmt.Errorf("vision annotate: %w", err)
	}
	return documentText(resp)
}

func annotateRequest(image []byte) *visionpb.BatchAnnotateImagesRequest {
	return &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image:    &visionpb.Image{Content: image},
			Features: []*visionpb.Feature{{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION}},
		}},
	}
}

// documentText pulls the full text out of a response. An image with no text
// yields an empty string, not an error.
func documentText(resp *visionpb.BatchAnnotateImagesResponse) (string, error) {
	if resp == nil || len(resp.GetResponses()) == 0 {
		return "", errors.New("vision returned no responses")
	}
	r := resp.GetResponses()[0]
	if e := r.GetError(); e != nil && e.GetMessage() != "" {
		return "", fmt.Errorf("vision: %s", e.GetMessage())
	}
	return r.GetFullTextAnnotation().GetText(), nil
}
