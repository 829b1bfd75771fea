// Package dataurl handles inline base64 image references ("data:<mime>;base64,<payload>").
package dataurl

import (
	"encoding/base64"
	"regexp"
	"strings"
)

var re = regexp.MustCompile(`^data:([a-zA-Z0-9.+-]+/[a-zA-Z0-9.+-]+);base64,([A-Za-z0-9+/=\s]+)$`)

func Is(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// Parse returns the lower-cased mime type and the base64 payload.
func Parse(s string) (mime string, b64 string, ok bool) {
	m := re.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", "", false
	}
	return strings.ToLower(m[1]), m[2], true
}

func Format(mime, b64 string) string {
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + b64
}

// Decode accepts padded and unpadded payloads and ignores embedded whitespace.
func Decode(b64 string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, b64)
	if out, err := base64.StdEncoding.DecodeString(clean); err == nil {
		return out, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(clean, "="))
}
