package mediajob

import (
	"mime"
	"path/filepath"
	"strings"
)

// videoTypes covers extensions the host MIME database often lacks.
var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".flv":  "video/x-flv",
	".m4v":  "video/x-m4v",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
	".wmv":  "video/x-ms-wmv",
}

// ResolveMIME picks the upload MIME type. A video/* hint wins; otherwise the
// type is guessed from the file extension and kept only if it is video/*.
// An empty result lets the service infer the type.
func ResolveMIME(hint, name string) string {
	hint = strings.TrimSpace(hint)
	if isVideo(hint) {
		return hint
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	if guessed := mime.TypeByExtension(ext); isVideo(guessed) {
		if base, _, err := mime.ParseMediaType(guessed); err == nil {
			return base
		}
		return guessed
	}
	return videoTypes[ext]
}

func isVideo(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "video/")
}
