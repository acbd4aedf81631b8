package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// EnsureUploadDir creates the uploads directory if it doesn't exist
func EnsureUploadDir() error {
	return os.MkdirAll("uploads", os.ModePerm)
}

// SaveFile saves the uploaded file to the given destination path
func SaveFile(fileHeader *multipart.FileHeader, destPath string) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, file)
	return err
}

// SaveScreenshot stores an issue screenshot under a random key and returns its
// URL. Goes to R2 when configured, otherwise to the local uploads directory.
func SaveScreenshot(fileHeader *multipart.FileHeader) (string, error) {
	ext := filepath.Ext(fileHeader.Filename)
	key := fmt.Sprintf("screenshots/%s%s", uuid.NewString(), ext)

	if R2Enabled() {
		return UploadFileToR2(fileHeader, key)
	}

	destPath := filepath.Join("uploads", key)
	if err := SaveFile(fileHeader, destPath); err != nil {
		return "", err
	}
	return "/" + destPath, nil
}
