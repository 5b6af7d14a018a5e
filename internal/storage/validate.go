package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// MaxImageSize is the largest accepted upload, 2048 KiB.
const MaxImageSize = 2048 * 1024

// allowedImageTypes lists the content types an upload may be sniffed as.
// gif is deliberately absent.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var errImageType = errors.New("the image must be a file of type: jpeg, png, jpg, webp")

// ValidateImage checks an upload against the size limit and the type read
// from its magic bytes. The client's file name plays no part in the
// decision. The returned error message is meant for the user.
func ValidateImage(file *multipart.FileHeader) error {
	if file == nil {
		return errors.New("an image is required")
	}
	if file.Size > MaxImageSize {
		return fmt.Errorf("the image may not be greater than %d kilobytes", MaxImageSize/1024)
	}

	src, err := file.Open()
	if err != nil {
		return errors.New("the image failed to upload")
	}
	defer func() { _ = src.Close() }()

	buffer := make([]byte, 512)
	n, err := io.ReadFull(src, buffer)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return errors.New("the image failed to upload")
	}
	if !allowedImageTypes[http.DetectContentType(buffer[:n])] {
		return errImageType
	}
	return nil
}
