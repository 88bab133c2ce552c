package ocr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	perr "codewarden/internal/platform/errors"
	"codewarden/internal/platform/logger"
)

func TestExtractTextOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/extract" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"def foo():\n    return 1"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{Host: srv.URL}, logger.Nop())
	got, err := c.ExtractText(context.Background(), Image{URL: "u", MimeType: "image/png", Bytes: []byte{1}})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got == "" {
		t.Fatalf("empty text")
	}
}

func TestExtractTextServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{Host: srv.URL}, logger.Nop())
	_, err := c.ExtractText(context.Background(), Image{Bytes: []byte{1}})
	if !perr.IsCode(err, perr.ErrorCodeOCRUnavailable) {
		t.Fatalf("err = %v want ocr unavailable", err)
	}
}

func TestExtractTextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(Config{Host: srv.URL, Timeout: 20 * time.Millisecond}, logger.Nop())
	_, err := c.ExtractText(context.Background(), Image{Bytes: []byte{1}})
	if !perr.IsCode(err, perr.ErrorCodeOCRUnavailable) {
		t.Fatalf("err = %v want ocr unavailable", err)
	}
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.ExtractText(context.Background(), Image{})
	if !perr.IsCode(err, perr.ErrorCodeOCRUnavailable) {
		t.Fatalf("err = %v want ocr unavailable", err)
	}
}
