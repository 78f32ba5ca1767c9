package fsmodel

import (
	"mime"
	"path/filepath"
	"strings"
)

var (
	imageExts     = set(".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".svg", ".tif", ".tiff", ".ico", ".avif", ".heic")
	videoExts     = set(".mp4", ".mkv", ".webm", ".avi", ".mov", ".flv", ".wmv", ".m4v", ".mpg", ".mpeg")
	audioExts     = set(".mp3", ".flac", ".ogg", ".opus", ".wav", ".m4a", ".aac", ".wma")
	documentExts  = set(".pdf", ".epub", ".djvu", ".doc", ".docx", ".odt", ".ps", ".rtf", ".xls", ".xlsx", ".ppt", ".pptx")
	containerExts = set(".zip", ".tar", ".gz", ".tgz", ".bz2", ".xz", ".zst", ".7z", ".rar", ".iso", ".deb", ".rpm", ".jar", ".apk", ".dmg", ".lz", ".lzma")
)

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

// MimeTags classifies a file name into the style tags the colorscheme
// understands: media, image, video, audio, document and container.
func MimeTags(name string) []string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return nil
	}
	switch {
	case imageExts[ext]:
		return []string{"media", "image"}
	case videoExts[ext]:
		return []string{"media", "video"}
	case audioExts[ext]:
		return []string{"media", "audio"}
	case documentExts[ext]:
		return []string{"document"}
	case containerExts[ext]:
		return []string{"container"}
	}
	typ := mime.TypeByExtension(ext)
	switch {
	case strings.HasPrefix(typ, "image/"):
		return []string{"media", "image"}
	case strings.HasPrefix(typ, "video/"):
		return []string{"media", "video"}
	case strings.HasPrefix(typ, "audio/"):
		return []string{"media", "audio"}
	}
	return nil
}

// IsImage reports whether name looks like a raster or vector image.
func IsImage(name string) bool {
	tags := MimeTags(name)
	return len(tags) == 2 && tags[1] == "image"
}
