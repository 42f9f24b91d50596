package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	// MaxFileSize is 10MB in bytes
	MaxFileSize = 10 * 1024 * 1024
)

// AllowedImageFormats lists the accepted photo file extensions.
var AllowedImageFormats = []string{".png", ".jpg", ".jpeg"}

var orderNumberPattern = regexp.MustCompile(`^[0-9]+$`)

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateOrderNumber checks that the human-chosen order number is a
// non-empty digit-only string.
func ValidateOrderNumber(number string) error {
	if !orderNumberPattern.MatchString(number) {
		return fmt.Errorf("order number must be a non-empty numeric string, got %q", number)
	}
	return nil
}

// ValidateImageFile validates the uploaded photo format and size
func ValidateImageFile(fileHeader *multipart.FileHeader) error {
	// Check file size
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	// Check file extension
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	for _, allowed := range AllowedImageFormats {
		if ext == allowed {
			return nil
		}
	}
	return &FileUploadError{
		Code:    "INVALID_FILE_FORMAT",
		Message: fmt.Sprintf("Only %s files are allowed", strings.Join(AllowedImageFormats, ", ")),
	}
}

// PhotoObjectKey builds the blob key for an order photo:
// {orderId}-{timestamp}{ext}.
func PhotoObjectKey(orderID, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s-%d%s", orderID, now.Unix(), ext)
}
