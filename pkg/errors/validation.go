package errors

import (
	"path"
	"strings"
	"unicode"
)

// ValidatePath validates a project-relative file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(p string) error {
	if p == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(p) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range p {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	if strings.HasPrefix(p, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}
	if strings.Contains(p, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}
	if strings.Contains(p, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}
	return nil
}

// ValidatePattern validates an include/exclude glob. Patterns use forward
// slashes and may contain "**" segments.
func ValidatePattern(pattern string) error {
	if pattern == "" {
		return New(ErrCodeInvalidPattern, "pattern cannot be empty")
	}
	if strings.Contains(pattern, "\\") {
		return New(ErrCodeInvalidPattern, "pattern cannot contain backslashes: %q", pattern)
	}
	for _, seg := range strings.Split(pattern, "/") {
		if seg == "**" {
			continue
		}
		if _, err := path.Match(seg, ""); err != nil {
			return Wrap(ErrCodeInvalidPattern, err, "invalid pattern %q", pattern)
		}
	}
	return nil
}

// ValidateComponentName checks that name is a plain identifier, as produced
// by the resolver. Seeds naming anything else could never match.
func ValidateComponentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidComponent, "component name cannot be empty")
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return New(ErrCodeInvalidComponent, "component name %q is not an identifier", name)
		}
	}
	return nil
}
