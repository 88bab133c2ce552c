// Package ocr adapts an external text extraction sidecar for image scanning
package ocr

import "context"

// Image is a fetched attachment handed to the extractor
type Image struct {
	URL      string
	MimeType string
	Bytes    []byte
}

// ExtractorPort pulls visible text out of an image
// implementations signal outage with ErrorCodeOCRUnavailable so callers
// can degrade to manual review instead of guessing
type ExtractorPort interface {
	ExtractText(ctx context.Context, img Image) (string, error)
}
