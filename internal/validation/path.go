// Package validation provides safety checks for the paths and URLs a scene is
// read from and rendered to. It rejects path traversal, unreadable inputs and
// unwritable output locations before any rendering work starts.
package validation

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ValidateOutputPath validates an output path for security and accessibility.
// Missing parent directories are allowed as long as the closest existing
// ancestor is a writable directory.
func ValidateOutputPath(outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("output path cannot be empty")
	}

	if hasTraversal(outputPath) {
		return fmt.Errorf("path traversal detected in output path: %s", outputPath)
	}

	absPath, err := filepath.Abs(filepath.Clean(outputPath))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if info, err := os.Stat(absPath); err == nil && info.IsDir() {
		return fmt.Errorf("output path is a directory: %s", absPath)
	}

	dir, err := existingAncestor(filepath.Dir(absPath))
	if err != nil {
		return err
	}

	testFile, err := os.CreateTemp(dir, ".sketch_write_test")
	if err != nil {
		return fmt.Errorf("output directory is not writable: %s: %w", dir, err)
	}
	testFile.Close()
	os.Remove(testFile.Name())

	return nil
}

// ValidateInputPath validates a scene file path.
// Returns error if the path doesn't exist, is a directory or escapes upward.
func ValidateInputPath(inputPath string) error {
	if inputPath == "" {
		return fmt.Errorf("input path cannot be empty")
	}

	if hasTraversal(inputPath) && !filepath.IsAbs(inputPath) {
		return fmt.Errorf("potentially unsafe path detected: %s", inputPath)
	}

	cleanPath := filepath.Clean(inputPath)
	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input path does not exist: %s", cleanPath)
		}
		return fmt.Errorf("failed to access input path: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("input path must be a file: %s", cleanPath)
	}

	return nil
}

// ValidateSceneURL checks that a remote scene location is an absolute http or
// https URL.
func ValidateSceneURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("scene URL cannot be empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid scene URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scene URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("scene URL has no host: %s", raw)
	}

	return nil
}

// hasTraversal reports whether any path element is ".."
func hasTraversal(p string) bool {
	for _, part := range strings.FieldsFunc(filepath.ToSlash(p), func(r rune) bool { return r == '/' }) {
		if part == ".." {
			return true
		}
	}
	return false
}

// existingAncestor walks up from dir to the first path that exists, which
// must be a directory
func existingAncestor(dir string) (string, error) {
	for {
		info, err := os.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return "", fmt.Errorf("output path parent is not a directory: %s", dir)
			}
			return dir, nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to access output directory: %w", err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("output directory does not exist: %s", dir)
		}
		dir = parent
	}
}

// Validator exposes the package checks through a value that can be injected
type Validator struct{}

func (Validator) ValidateOutputPath(path string) error { return ValidateOutputPath(path) }
func (Validator) ValidateInputPath(path string) error  { return ValidateInputPath(path) }
func (Validator) ValidateSceneURL(url string) error    { return ValidateSceneURL(url) }
