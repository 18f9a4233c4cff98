package services

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// ValidImageName reports whether the file name carries an accepted image
// extension.
func ValidImageName(name string) bool {
	return imageExtensions[strings.ToLower(path.Ext(name))]
}

// ValidAudioName reports whether the file name carries an accepted audio
// extension.
func ValidAudioName(name string) bool {
	return audioExtensions[strings.ToLower(path.Ext(name))]
}

// SaveUploads writes pending files into dir, creating it if needed. File names
// are flattened to their base name so a crafted name cannot escape the lesson
// directory.
func SaveUploads(files []PendingFile, dir string) error {
	if len(files) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create upload directory %s: %w", dir, err)
	}
	for _, f := range files {
		name := filepath.Base(f.Name)
		if name == "." || name == string(filepath.Separator) {
			continue
		}
		dest := filepath.Join(dir, name)
		if err := os.WriteFile(dest, f.Data, 0644); err != nil {
			return fmt.Errorf("write upload %s: %w", name, err)
		}
	}
	return nil
}

var blobSrcPattern = regexp.MustCompile(`(?i)\s*src="blob:[^"]*"`)

// RewriteUploadPaths points every src attribute that ends in one of the given
// unique file names at its public path under basePath. Names with unaccepted
// extensions are skipped.
func RewriteUploadPaths(html, basePath string, names []string) string {
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	for _, name := range names {
		name = path.Base(name)
		if !ValidImageName(name) && !ValidAudioName(name) {
			continue
		}
		pattern := regexp.MustCompile(`(?i)(src=")([^"]*` + regexp.QuoteMeta(name) + `)(")`)
		html = pattern.ReplaceAllString(html, `${1}`+basePath+name+`${3}`)
	}
	return html
}

// StripBlobSources removes any src attribute still pointing at an ephemeral
// preview reference. Persisted markup must never reference one.
func StripBlobSources(html string) string {
	return blobSrcPattern.ReplaceAllString(html, "")
}
