package upload

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestOptimizeResizesToExactDimensions(t *testing.T) {
	svc := &Service{}

	out, err := svc.Optimize(testPNG(t, 640, 480), 100, 100)
	require.NoError(t, err)

	decoded, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, decoded.Bounds().Dx())
	assert.Equal(t, 100, decoded.Bounds().Dy())
}

func TestOptimizeUpscalesSmallImages(t *testing.T) {
	svc := &Service{}

	out, err := svc.Optimize(testPNG(t, 10, 20), 100, 100)
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, decoded.Bounds().Dx())
	assert.Equal(t, 100, decoded.Bounds().Dy())
}

func TestOptimizeRejectsGarbage(t *testing.T) {
	svc := &Service{}

	_, err := svc.Optimize([]byte("definitely not an image"), 100, 100)
	assert.Error(t, err)
}

func TestSafeExt(t *testing.T) {
	assert.Equal(t, ".png", safeExt("me.PNG"))
	assert.Equal(t, ".jpg", safeExt("photo.jpg"))
	assert.Equal(t, ".jpg", safeExt("archive.tar.gz"))
	assert.Equal(t, ".jpg", safeExt("noext"))
}
