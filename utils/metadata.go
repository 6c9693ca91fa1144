package utils

import (
	"bytes"
	"image"
	"log"
	"strings"
	"time"

	// register decoders for image.DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
)

// ImageMetadata holds what the backend cares about from an uploaded photo:
// pixel dimensions for the media record and EXIF GPS / capture time to
// default an identification's geolocation.
type ImageMetadata struct {
	Width     *int
	Height    *int
	Latitude  *float64
	Longitude *float64
	TakenAt   *time.Time
}

// ExtractImageMetadata decodes dimensions and EXIF data from raw image bytes.
// Every field is best-effort; a photo without EXIF simply yields dimensions.
func ExtractImageMetadata(data []byte) *ImageMetadata {
	meta := &ImageMetadata{}

	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		w, h := config.Width, config.Height
		meta.Width = &w
		meta.Height = &h
	} else {
		log.Printf("metadata: could not decode image dimensions: %v", err)
	}

	exifData, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		// common for screenshots and web images
		return meta
	}

	if lat, long, err := exifData.LatLong(); err == nil {
		meta.Latitude = &lat
		meta.Longitude = &long
	}

	if taken, err := exifData.DateTime(); err == nil {
		meta.TakenAt = &taken
	}

	return meta
}

// IsImageContentType reports whether the content type belongs to the image
// MIME family.
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}
