package util

import (
	"errors"
	"strings"
)

var errInvalidSegment = errors.New("invalid key segment")

// SanitizeKeySegment makes an identifier safe to use as one segment of a
// storage key. Separators are replaced and traversal patterns rejected.
func SanitizeKeySegment(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errInvalidSegment
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errInvalidSegment
	}
	return s, nil
}
