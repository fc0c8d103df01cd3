package utils

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

const (
	defaultContentType = "application/octet-stream"
	sniffLen           = 512
)

// ContentTypeDetector provides methods to detect content types
type ContentTypeDetector struct{}

// NewContentTypeDetector creates a new content type detector
func NewContentTypeDetector() *ContentTypeDetector {
	return &ContentTypeDetector{}
}

// IsUndeclared reports whether a client supplied content type carries no information
func (d *ContentTypeDetector) IsUndeclared(contentType string) bool {
	ct := strings.TrimSpace(contentType)
	return ct == "" || strings.EqualFold(ct, defaultContentType)
}

// DetectContentTypeFromExtension tries to detect content type from a file extension
func (d *ContentTypeDetector) DetectContentTypeFromExtension(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return defaultContentType
	}

	contentType := mime.TypeByExtension(strings.ToLower(ext))
	if contentType == "" {
		return defaultContentType
	}

	return contentType
}

// DetectContentType tries the extension first, then the content
func (d *ContentTypeDetector) DetectContentType(filename string, data []byte) string {
	contentType := d.DetectContentTypeFromExtension(filename)
	if contentType == defaultContentType && len(data) > 0 {
		return http.DetectContentType(data)
	}

	return contentType
}

// DetectContentTypeFromReader reads up to 512 bytes from reader to detect the
// content type. The returned reader replays those bytes followed by the rest
// of reader and must be used in its place.
func (d *ContentTypeDetector) DetectContentTypeFromReader(filename string, reader io.Reader) (string, io.Reader, error) {
	buffer := make([]byte, sniffLen)
	n, err := io.ReadFull(reader, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, err
	}

	head := buffer[:n]
	return d.DetectContentType(filename, head), io.MultiReader(bytes.NewReader(head), reader), nil
}

// IsImageContentType checks if a content type is an image
func (d *ContentTypeDetector) IsImageContentType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp", "image/tiff", "image/bmp", "image/svg+xml":
		return true
	default:
		return false
	}
}
