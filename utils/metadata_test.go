package utils

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func TestExtractImageMetadataDimensions(t *testing.T) {
	data := encodeTestJPEG(t, 64, 48)

	meta := ExtractImageMetadata(data)
	require.NotNil(t, meta.Width)
	require.NotNil(t, meta.Height)
	assert.Equal(t, 64, *meta.Width)
	assert.Equal(t, 48, *meta.Height)

	// no EXIF block: GPS and capture time stay nil
	assert.Nil(t, meta.Latitude)
	assert.Nil(t, meta.Longitude)
	assert.Nil(t, meta.TakenAt)
}

func TestExtractImageMetadataGarbageInput(t *testing.T) {
	meta := ExtractImageMetadata([]byte("not an image at all"))
	assert.Nil(t, meta.Width)
	assert.Nil(t, meta.Height)
	assert.Nil(t, meta.Latitude)
}

func TestIsImageContentType(t *testing.T) {
	assert.True(t, IsImageContentType("image/jpeg"))
	assert.True(t, IsImageContentType("image/heic"))
	assert.False(t, IsImageContentType("video/mp4"))
	assert.False(t, IsImageContentType(""))
}

func TestGenerateThumbnailFitsWithinBounds(t *testing.T) {
	data := encodeTestJPEG(t, 800, 400)

	thumb, err := GenerateThumbnail(data, 200)
	require.NoError(t, err)

	config, _, err := image.DecodeConfig(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.LessOrEqual(t, config.Width, 200)
	assert.LessOrEqual(t, config.Height, 200)
}

func TestGenerateThumbnailRejectsGarbage(t *testing.T) {
	_, err := GenerateThumbnail([]byte("nope"), 200)
	assert.Error(t, err)
}
