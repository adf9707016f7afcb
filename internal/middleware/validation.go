package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// maxImageBytes bounds an uploaded frame; native-resolution JPEG from a
// phone camera stays well under this.
const maxImageBytes = 8 << 20

// ValidateMessageContent validates a chat message or search query.
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("content cannot be empty")
	}
	if len(content) > 100000 {
		return errors.New("content exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("content must be valid UTF-8")
	}
	return nil
}

// ValidateImage validates an uploaded camera frame.
func ValidateImage(data []byte, mimeType string) error {
	if len(data) == 0 {
		return errors.New("image cannot be empty")
	}
	if len(data) > maxImageBytes {
		return errors.New("image exceeds maximum size")
	}
	switch mimeType {
	case "image/jpeg", "image/png", "image/webp":
		return nil
	default:
		return errors.New("unsupported image type")
	}
}
