package integrations

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNGWithAlpha(t *testing.T, dir string) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 30), G: 0, B: 0, A: uint8(y * 30)})
		}
	}

	path := filepath.Join(dir, "page.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestEncodePage_FlattensAlphaPNG(t *testing.T) {
	path := writePNGWithAlpha(t, t.TempDir())

	out, err := EncodePage(path)
	require.NoError(t, err)

	decoded, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 8, decoded.Bounds().Dx())
	assert.Equal(t, 8, decoded.Bounds().Dy())
}

func TestEncodePage_JPEGPassthrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.jpg")

	src := image.NewYCbCr(image.Rect(0, 0, 4, 4), image.YCbCrSubsampleRatio420)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, src, nil))
	f.Close()

	out, err := EncodePage(path)
	require.NoError(t, err)

	_, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestEncodePage_MissingFile(t *testing.T) {
	_, err := EncodePage(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestEncodePage_NotAnImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := EncodePage(path)
	assert.ErrorContains(t, err, "failed to decode")
}

func TestFlatten_OpaqueFormatsPassThrough(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	assert.Equal(t, image.Image(gray), flatten(gray))

	ycbcr := image.NewYCbCr(image.Rect(0, 0, 2, 2), image.YCbCrSubsampleRatio444)
	assert.Equal(t, image.Image(ycbcr), flatten(ycbcr))
}

func TestFlatten_CompositesOverWhite(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.Set(0, 0, color.NRGBA{A: 0}) // fully transparent pixel

	flat := flatten(src)
	r, g, b, _ := flat.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
}
