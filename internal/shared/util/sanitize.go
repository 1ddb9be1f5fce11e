package util

import (
	"errors"
	"strings"
)

// MaxFileNameBytes caps sanitized names at the common filesystem limit.
const MaxFileNameBytes = 255

// SanitizeFileName removes path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	if len(s) > MaxFileNameBytes {
		return "", errors.New("file name too long")
	}
	return s, nil
}
