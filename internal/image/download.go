package imagepkg

import (
	"bytes"
	"errors"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/youruser/idcardapp/internal/util"
)

// ErrNon200 is returned when a photo URL answers with a non-200 status.
var ErrNon200 = errors.New("non-200 response")

// DownloadImage downloads an image from URL and returns image.Image (decoded).
func DownloadImage(url string) (image.Image, error) {
	body, status, err := util.GetBytes(url)
	if err != nil {
		return nil, err
	}
	if status != 200 {
		return nil, ErrNon200
	}
	return imaging.Decode(bytes.NewReader(body), imaging.AutoOrientation(true))
}

// LoadPhoto opens a student photo from a file path or an http(s) URL.
func LoadPhoto(ref string) (image.Image, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return DownloadImage(ref)
	}
	return imaging.Open(ref, imaging.AutoOrientation(true))
}
