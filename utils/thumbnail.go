package utils

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// GenerateThumbnail downsizes raw image bytes so the longest side fits within
// maxSize, re-encoded as JPEG. Returns the encoded thumbnail bytes.
func GenerateThumbnail(data []byte, maxSize int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image for thumbnail: %w", err)
	}

	thumb := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
