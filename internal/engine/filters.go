package engine

import (
	"mime"
	"path/filepath"
	"strings"
)

var defaultExcludeDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	".idea":        true,
	".vscode":      true,
}

// suffixes of binary formats the line scanner cannot read
var defaultExcludeFileSuffixes = []string{
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".ico", ".tif", ".tiff",
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".odt",
	".zip", ".gz", ".tar", ".tgz", ".7z", ".rar", ".bz2", ".xz",
	".jar", ".class", ".exe", ".dll", ".so", ".dylib", ".o", ".a",
	".wasm", ".pyc", ".db", ".sqlite", ".mdb",
	".mp3", ".mp4", ".mov", ".avi", ".wav",
	".woff", ".woff2", ".ttf", ".eot",
}

var defaultExcludeFileNames = map[string]bool{
	".ds_store": true,
	"thumbs.db": true,
}

func isDefaultDirExcluded(name string) bool {
	return defaultExcludeDirs[name]
}

func isDefaultFileExcluded(lowerRel string) bool {
	for _, s := range defaultExcludeFileSuffixes {
		if strings.HasSuffix(lowerRel, s) {
			return true
		}
	}
	if defaultExcludeFileNames[filepath.Base(lowerRel)] {
		return true
	}
	return looksNonTextMIME(lowerRel)
}

// looksNonTextMIME skips media and archives the suffix list does not name.
func looksNonTextMIME(p string) bool {
	ct := mime.TypeByExtension(filepath.Ext(p))
	if ct == "" {
		return false
	}
	if strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/") || strings.HasPrefix(ct, "audio/") {
		return true
	}
	return strings.Contains(ct, "zip") || strings.Contains(ct, "tar") || strings.Contains(ct, "gzip")
}
