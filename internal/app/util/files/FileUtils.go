package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/samber/lo"

	apperrors "whisper-batch/internal/app/errors"
	"whisper-batch/internal/app/model"
)

// ExtensionSet holds lowercase extensions with a leading dot.
type ExtensionSet map[string]struct{}

// DefaultAudioExtensions are the formats the batch runner recognizes.
var DefaultAudioExtensions = NewExtensionSet(".m4a", ".ogg", ".wav", ".mp3", ".flac", ".aac")

// NewExtensionSet normalizes exts to lowercase with a leading dot.
func NewExtensionSet(exts ...string) ExtensionSet {
	set := make(ExtensionSet, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

// Contains reports whether ext matches, ignoring case.
func (s ExtensionSet) Contains(ext string) bool {
	_, ok := s[strings.ToLower(ext)]
	return ok
}

// List returns the extensions in no particular order.
func (s ExtensionSet) List() []string {
	return lo.Keys(s)
}

// Discover walks rootDir recursively and returns every regular file whose
// extension is in exts. Order follows filepath.WalkDir and must not be relied on.
// A missing root fails with ErrDirectoryNotFound; no matches is not an error.
func Discover(rootDir string, exts ExtensionSet) ([]model.AudioFileRef, error) {
	info, err := os.Stat(rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrDirectoryNotFound, rootDir)
		}
		return nil, apperrors.Wrapf(apperrors.ErrDirectoryNotFound, "%s: %v", rootDir, err)
	}
	if !info.IsDir() {
		return nil, apperrors.Wrapf(apperrors.ErrDirectoryNotFound, "%s is not a directory", rootDir)
	}

	// WalkDir does not descend into a symlinked root
	walkRoot, err := filepath.EvalSymlinks(rootDir)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDirectoryNotFound, "%s: %v", rootDir, err)
	}

	refs := make([]model.AudioFileRef, 0)
	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == walkRoot {
				return err
			}
			// unreadable entry below the root
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if exts.Contains(filepath.Ext(path)) {
			rel, err := filepath.Rel(walkRoot, path)
			if err != nil {
				return err
			}
			refs = append(refs, model.NewAudioFileRef(rootDir, filepath.Join(rootDir, rel)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", rootDir, err)
	}
	return refs, nil
}

// DeriveOutputName flattens a relative path into a single file-name stem:
// separators become '_' and the extension is dropped.
func DeriveOutputName(relPath string) string {
	stem := strings.TrimSuffix(relPath, filepath.Ext(relPath))
	return strings.NewReplacer("/", "_", "\\", "_").Replace(stem)
}

var disallowedChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFileComponent replaces characters that are not allowed in file names with '_'.
func SanitizeFileComponent(s string) string {
	return disallowedChars.ReplaceAllString(s, "_")
}

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// ReadOutputFile reads the specified output file and returns its text content.
func ReadOutputFile(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(content)), nil
}
