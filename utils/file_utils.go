// utils/file_utils.go
package utils

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// Base directory for storing uploaded files
	uploadBaseDir = "uploads"
	// Base URL for serving files
	baseURL = "/uploads"
	// Maximum file size (5MB)
	maxFileSize = 5 * 1024 * 1024
	// Longest side of a stored screenshot
	maxScreenshotDim = 1280
)

// Allowed screenshot extensions
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// InitializeStorage creates the directories for uploaded payment screenshots.
func InitializeStorage() error {
	for _, dir := range []string{uploadBaseDir, filepath.Join(uploadBaseDir, "screenshots")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s directory: %v", dir, err)
		}
	}
	return nil
}

// SaveScreenshot stores an uploaded payment screenshot, downscaling large
// images, and returns the URL the stored file is served from. The caller only
// ever records the URL; the image content is never inspected beyond decoding.
func SaveScreenshot(file *multipart.FileHeader) (string, error) {
	if file.Size > maxFileSize {
		return "", fmt.Errorf("file too large: maximum size is %d bytes", maxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("unsupported image format. Allowed formats: jpg, jpeg, png")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("invalid image file: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxScreenshotDim || bounds.Dy() > maxScreenshotDim {
		img = imaging.Fit(img, maxScreenshotDim, maxScreenshotDim, imaging.Lanczos)
	}

	filename := uuid.New().String() + ext
	destPath := filepath.Join(uploadBaseDir, "screenshots", filename)
	if err := imaging.Save(img, destPath); err != nil {
		return "", fmt.Errorf("failed to save screenshot: %v", err)
	}

	return baseURL + "/screenshots/" + filename, nil
}
