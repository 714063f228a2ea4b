package storage

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MIMEOctetStream is used when nothing better is known.
const MIMEOctetStream = "application/octet-stream"

// DetectContentType sniffs the MIME type of data, without parameters.
func DetectContentType(data []byte) string {
	if len(data) == 0 {
		return MIMEOctetStream
	}
	return normalizeMIME(mimetype.Detect(data).String())
}

// ExtFromMIME returns the preferred extension for a MIME type, or "".
func ExtFromMIME(contentType string) string {
	m := mimetype.Lookup(normalizeMIME(contentType))
	if m == nil {
		return ""
	}
	return m.Extension()
}

func normalizeMIME(ct string) string {
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
