// Package testutils holds fixtures shared by package tests: minimal image
// payloads and multipart helpers.
package testutils

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"
)

// MinimalJPEG returns bytes sniffed as image/jpeg.
func MinimalJPEG() []byte {
	return append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, bytes.Repeat([]byte{0x00}, 32)...)
}

// MinimalPNG returns bytes sniffed as image/png.
func MinimalPNG() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0x00}, 32)...)
}

// MinimalWEBP returns bytes sniffed as image/webp.
func MinimalWEBP() []byte {
	return append([]byte("RIFF\x24\x00\x00\x00WEBPVP8 "), bytes.Repeat([]byte{0x00}, 32)...)
}

// MinimalGIF returns bytes sniffed as image/gif.
func MinimalGIF() []byte {
	return append([]byte("GIF89a"), bytes.Repeat([]byte{0x00}, 32)...)
}

// FileHeader builds a parsed multipart file header carrying content.
func FileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body, contentType := MultipartBody(t, nil, "image", filename, content)
	req := httptest.NewRequest("POST", "http://example/upload", body)
	req.Header.Set("Content-Type", contentType)
	if err := req.ParseMultipartForm(int64(len(content)) + 1024); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}

	fhs := req.MultipartForm.File["image"]
	if len(fhs) != 1 {
		t.Fatalf("expected 1 file header, got %d", len(fhs))
	}
	return fhs[0]
}

// MultipartBody encodes form fields and an optional file part. An empty
// filename omits the file part.
func MultipartBody(t *testing.T, fields map[string]string, fileField, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField %s: %v", k, err)
		}
	}
	if filename != "" {
		part, err := w.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, w.FormDataContentType()
}
