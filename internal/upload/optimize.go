package upload

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// jpegQuality for re-encoded avatars. Avatars are tiny; quality matters
// more than size here.
const jpegQuality = 90

// Optimize decodes an image, scales it to the given dimensions and
// re-encodes it as JPEG. Aspect ratio is not preserved: the caller asks for
// an exact size and avatar crops happen client-side.
func (s *Service) Optimize(data []byte, width, height int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("upload: decoding image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("upload: encoding image: %w", err)
	}
	return buf.Bytes(), nil
}
