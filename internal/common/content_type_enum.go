package common

import (
	"mime"
	"strings"
)

// DetectAttachmentKind maps a MIME type to the message kind used to show it.
func DetectAttachmentKind(mimeType string) MessageKind {
	lowerMimeType := strings.ToLower(strings.TrimSpace(mimeType))
	if parsed, _, err := mime.ParseMediaType(lowerMimeType); err == nil {
		lowerMimeType = parsed
	}
	if strings.HasPrefix(lowerMimeType, "image/") {
		return MessageImage
	}
	return MessageFile // everything else is a plain download
}
