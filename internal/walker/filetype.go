package walker

import (
	"path/filepath"
	"strings"
)

// docExtensions are the extensions whose content is also run through
// internal/chunk for section-level embedding, on top of whatever
// internal/extract.Registry does for symbol-level heading extraction
// (spec §4.2 step 3: a documentation file produces both ApiSymbol rows
// for its headings and DocChunk rows for its prose). Mirrors the
// markup half of the teacher's detectFileType table
// (internal/queue/workers/local_dir_worker.go).
var docExtensions = map[string]bool{
	".md": true, ".markdown": true, ".mdx": true, ".rst": true, ".txt": true,
}

// NeedsChunking reports whether path's content should additionally be
// split into search chunks via internal/chunk, independent of whether it
// also has a symbol extractor registered.
func NeedsChunking(path string) bool {
	return docExtensions[strings.ToLower(filepath.Ext(path))]
}

// binaryExtensions mirrors the teacher's isBinaryExtensionLocalDir table;
// these are never indexed regardless of walker mode.
var binaryExtensions = map[string]bool{
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".a": true, ".o": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true, ".webp": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true, ".ppt": true, ".pptx": true,
	".zip": true, ".tar": true, ".gz": true, ".rar": true, ".7z": true, ".bz2": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".otf": true,
	".mp3": true, ".mp4": true, ".wav": true, ".avi": true, ".mov": true, ".mkv": true, ".webm": true,
	".pyc": true, ".pyo": true, ".class": true,
	".bin": true, ".dat": true,
	".db": true, ".sqlite": true, ".sqlite3": true,
}

// IsBinary reports whether path's extension marks it as non-text content
// that must never be routed to an extractor or chunker.
func IsBinary(path string) bool {
	return binaryExtensions[strings.ToLower(filepath.Ext(path))]
}

