// Package validate sanitizes and validates untrusted input before it is
// forwarded upstream: uploaded audio files, free-text search parameters,
// and file names.
package validate

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"notespy/pkg/errors"
)

// Input limits
const (
	MaxTextLength     = 200
	MaxFilenameLength = 255
	MaxFileSize       = 10 * 1024 * 1024
	MinFileSize       = 1000

	// DefaultFilename is used when sanitization leaves nothing usable.
	DefaultFilename = "upload.wav"
)

// allowedAudioTypes are the accepted declared MIME types. An empty MIME
// type is tolerated since some browsers omit it.
var allowedAudioTypes = map[string]bool{
	"audio/wav":   true,
	"audio/wave":  true,
	"audio/x-wav": true,
	"audio/webm":  true,
	"audio/mp4":   true,
	"audio/mpeg":  true,
	"audio/mp3":   true,
	"audio/ogg":   true,
	"audio/flac":  true,
	"audio/x-m4a": true,
	"audio/aac":   true,
}

var allowedExtensions = map[string]bool{
	".wav":  true,
	".webm": true,
	".mp4":  true,
	".mp3":  true,
	".m4a":  true,
	".ogg":  true,
	".flac": true,
	".aac":  true,
}

var (
	tagPattern = regexp.MustCompile(`<[^>]*>`)

	// Patterns that signal injection attempts in text that may later be
	// embedded in an outbound query and rendered.
	suspiciousPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<script`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)data:`),
		regexp.MustCompile(`(?i)vbscript:`),
		regexp.MustCompile(`(?i)on\w+\s*=`),
	}

	unsafeFilenameChars = regexp.MustCompile(`[<>:"|?*\x00-\x1F]`)
)

// FileInfo describes an uploaded file as seen at the multipart boundary.
// The content itself is not inspected; ownership of the bytes stays with
// the caller.
type FileInfo struct {
	Name     string
	Size     int64
	MIMEType string
}

// AudioFile validates an uploaded audio file. Checks run in priority
// order and the first failure wins; a nil return means the file is
// acceptable to forward.
func AudioFile(f *FileInfo) error {
	if f == nil {
		return errors.NewError(errors.ErrorTypeBadRequest, "No file provided")
	}

	if f.Size > MaxFileSize {
		maxMB := MaxFileSize / (1024 * 1024)
		return errors.NewError(errors.ErrorTypeBadRequest,
			fmt.Sprintf("File too large. Maximum size is %dMB", maxMB))
	}

	if f.Size < MinFileSize {
		return errors.NewError(errors.ErrorTypeBadRequest, "File is too small to be valid audio")
	}

	mimeType := strings.ToLower(f.MIMEType)
	if mimeType != "" && !allowedAudioTypes[mimeType] {
		return errors.NewError(errors.ErrorTypeBadRequest,
			fmt.Sprintf("Invalid file type: %s. Please upload an audio file.", mimeType))
	}

	if f.Name != "" {
		if ext := strings.ToLower(path.Ext(f.Name)); ext != "" && ext != "." && !allowedExtensions[ext] {
			return errors.NewError(errors.ErrorTypeBadRequest,
				fmt.Sprintf("Invalid file extension: %s", ext))
		}

		if len(f.Name) > MaxFilenameLength {
			return errors.NewError(errors.ErrorTypeBadRequest, "Filename is too long")
		}
	}

	return nil
}

// SanitizeText trims, truncates to maxLength, and strips control
// characters and tag-shaped substrings. Total on all inputs.
func SanitizeText(input string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = MaxTextLength
	}

	sanitized := strings.TrimSpace(input)
	if runes := []rune(sanitized); len(runes) > maxLength {
		sanitized = string(runes[:maxLength])
	}

	// Drop null bytes and control characters, keeping tab/newline/CR
	sanitized = strings.Map(func(r rune) rune {
		if r == 0x7F {
			return -1
		}
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, sanitized)

	return tagPattern.ReplaceAllString(sanitized, "")
}

// SearchParam validates a free-text search parameter and returns its
// sanitized form. fieldName is only used in error messages.
func SearchParam(value, fieldName string) (string, error) {
	if value == "" {
		return "", errors.NewError(errors.ErrorTypeBadRequest,
			fmt.Sprintf("%s is required", fieldName))
	}

	sanitized := SanitizeText(value, MaxTextLength)
	if sanitized == "" {
		return "", errors.NewError(errors.ErrorTypeBadRequest,
			fmt.Sprintf("%s cannot be empty", fieldName))
	}

	for _, pattern := range suspiciousPatterns {
		if pattern.MatchString(sanitized) {
			return "", errors.NewError(errors.ErrorTypeBadRequest,
				fmt.Sprintf("Invalid characters in %s", fieldName))
		}
	}

	return sanitized, nil
}

// SanitizeFilename strips path components and filesystem-unsafe
// characters, caps the length while preserving the extension, and falls
// back to DefaultFilename when nothing usable remains.
func SanitizeFilename(filename string) string {
	if filename == "" {
		return DefaultFilename
	}

	// Keep only the last path segment; accept both separators
	sanitized := filename
	if idx := strings.LastIndexAny(sanitized, `/\`); idx >= 0 {
		sanitized = sanitized[idx+1:]
	}

	sanitized = unsafeFilenameChars.ReplaceAllString(sanitized, "")

	if len(sanitized) > MaxFilenameLength {
		ext := strings.TrimPrefix(path.Ext(sanitized), ".")
		if ext == "" {
			ext = "wav"
		}
		keep := MaxFilenameLength - len(ext) - 1
		if keep <= 0 {
			// The extension alone exhausts the cap; nothing usable left
			return DefaultFilename
		}
		// Truncate on runes so a multibyte character is never split
		base := []rune(sanitized)
		if len(base) > keep {
			sanitized = string(base[:keep]) + "." + ext
		}
	}

	if sanitized == "" {
		return DefaultFilename
	}
	return sanitized
}
