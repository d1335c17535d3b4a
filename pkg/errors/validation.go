package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxSocketPath is the conservative limit on Unix socket path length
// (sun_path is 104 bytes on BSD/macOS, 108 on Linux, including the NUL).
const maxSocketPath = 103

// ValidateSocketPath validates the control channel path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 103 bytes
//   - No null bytes or control characters
func ValidateSocketPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "socket path cannot be empty")
	}

	if len(path) > maxSocketPath {
		return New(ErrCodeInvalidPath, "socket path too long (max %d bytes): %q", maxSocketPath, path)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "socket path contains invalid characters")
		}
	}

	return nil
}

// boardKeyRegex matches board keys usable as file names and database ids.
var boardKeyRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateBoardKey validates the key under which board state is persisted.
// Keys become file names in the file store, so path traversal is rejected.
func ValidateBoardKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "board key cannot be empty")
	}

	if len(key) > 128 {
		return New(ErrCodeInvalidInput, "board key too long (max 128 characters)")
	}

	if strings.Contains(key, "..") {
		return New(ErrCodeInvalidInput, "board key cannot contain path traversal sequences (..)")
	}

	if !boardKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidInput, "invalid board key: %q", key)
	}

	return nil
}

// ValidateAddress checks that s is a two-character address made of ASCII
// letters and digits. It is used by the sending side only: the listener
// ignores malformed addresses rather than rejecting them.
func ValidateAddress(s string) error {
	if len(s) != 2 {
		return New(ErrCodeInvalidAddress, "address must be exactly 2 characters, got %q", s)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		if !isLetter && !isDigit {
			return New(ErrCodeInvalidAddress, "address %q contains invalid character %q", s, c)
		}
	}
	return nil
}
