package images

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func solid(w, h int, c color.Color) *image.NRGBA {
	return imaging.New(w, h, c)
}

// gradient returns a w×h image with distinct pixels so resampling is exercised.
func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x * 255) / w),
				G: uint8((y * 255) / h),
				B: 140,
				A: 255,
			})
		}
	}
	return img
}

func writeImage(t *testing.T, path string, img image.Image) {
	t.Helper()

	var buf bytes.Buffer
	var err error
	switch filepath.Ext(path) {
	case ".png":
		err = png.Encode(&buf, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	case ".gif":
		err = gif.Encode(&buf, img, nil)
	case ".bmp":
		err = bmp.Encode(&buf, img)
	case ".tiff":
		err = tiff.Encode(&buf, img, nil)
	default:
		t.Fatalf("no encoder for %s", path)
	}
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestLetterboxSquareFillsCanvas(t *testing.T) {
	canvas, geom, err := Letterbox(solid(40, 40, red), 20, imaging.NearestNeighbor)
	require.NoError(t, err)

	assert.Equal(t, image.Pt(0, 0), geom.Offset)
	assert.Equal(t, image.Rect(0, 0, 20, 20), canvas.Bounds())
	for _, p := range []image.Point{{0, 0}, {19, 0}, {0, 19}, {19, 19}, {10, 10}} {
		assert.Equal(t, red, nrgbaAt(canvas, p.X, p.Y), "pixel %v", p)
	}
}

func TestLetterboxLandscapePadsWhite(t *testing.T) {
	// 40x20 -> 20x10, placed at y=5
	canvas, geom, err := Letterbox(solid(40, 20, red), 20, imaging.NearestNeighbor)
	require.NoError(t, err)

	assert.Equal(t, 10, geom.Height)
	assert.Equal(t, image.Pt(0, 5), geom.Offset)
	assert.Equal(t, image.Rect(0, 0, 20, 20), canvas.Bounds())

	assert.Equal(t, Background, nrgbaAt(canvas, 0, 0))
	assert.Equal(t, Background, nrgbaAt(canvas, 10, 4))
	assert.Equal(t, red, nrgbaAt(canvas, 10, 5))
	assert.Equal(t, red, nrgbaAt(canvas, 10, 14))
	assert.Equal(t, Background, nrgbaAt(canvas, 10, 15))
	assert.Equal(t, Background, nrgbaAt(canvas, 19, 19))
}

func TestLetterboxVeryWideKeepsOneRow(t *testing.T) {
	// 200x1 -> floor(10*1/200) = 0 rows, raised to one row at y=4
	canvas, geom, err := Letterbox(solid(200, 1, red), 10, imaging.NearestNeighbor)
	require.NoError(t, err)

	assert.Equal(t, 10, geom.Width)
	assert.Equal(t, 1, geom.Height)
	assert.Equal(t, image.Pt(0, 4), geom.Offset)
	assert.Equal(t, image.Rect(0, 0, 10, 10), canvas.Bounds())

	assert.Equal(t, Background, nrgbaAt(canvas, 5, 3))
	assert.Equal(t, red, nrgbaAt(canvas, 0, 4))
	assert.Equal(t, red, nrgbaAt(canvas, 9, 4))
	assert.Equal(t, Background, nrgbaAt(canvas, 5, 5))
}

func TestLetterboxTallClipsSymmetrically(t *testing.T) {
	// top half red, bottom half blue: 10x40 -> 20x80, offset y=-30
	src := image.NewNRGBA(image.Rect(0, 0, 10, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 10; x++ {
			c := red
			if y >= 20 {
				c = blue
			}
			src.SetNRGBA(x, y, c)
		}
	}

	canvas, geom, err := Letterbox(src, 20, imaging.NearestNeighbor)
	require.NoError(t, err)

	assert.Equal(t, 80, geom.Height)
	assert.Equal(t, image.Pt(0, -30), geom.Offset)
	assert.Equal(t, image.Rect(0, 0, 20, 20), canvas.Bounds())

	// visible rows are source rows 30..49 of the resized image
	assert.Equal(t, red, nrgbaAt(canvas, 5, 0))
	assert.Equal(t, red, nrgbaAt(canvas, 5, 9))
	assert.Equal(t, blue, nrgbaAt(canvas, 5, 10))
	assert.Equal(t, blue, nrgbaAt(canvas, 5, 19))
}

func TestLetterboxTransparentKeepsBackground(t *testing.T) {
	transparent := solid(16, 16, color.NRGBA{})
	canvas, _, err := Letterbox(transparent, 16, imaging.NearestNeighbor)
	require.NoError(t, err)

	for _, p := range []image.Point{{0, 0}, {8, 8}, {15, 15}} {
		assert.Equal(t, Background, nrgbaAt(canvas, p.X, p.Y))
	}
}

func TestLetterboxHalfTransparentBlends(t *testing.T) {
	half := solid(8, 8, color.NRGBA{A: 128})
	canvas, _, err := Letterbox(half, 8, imaging.NearestNeighbor)
	require.NoError(t, err)

	px := nrgbaAt(canvas, 4, 4)
	assert.Equal(t, uint8(255), px.A, "canvas stays opaque")
	assert.InDelta(t, 127, int(px.R), 2, "black at half alpha over white")
}

func TestLetterboxRejectsBadSize(t *testing.T) {
	_, _, err := Letterbox(solid(4, 4, red), 0, imaging.Lanczos)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestTransformFormats(t *testing.T) {
	dir := t.TempDir()
	lb := NewLetterboxer(nil, imaging.Lanczos)

	for _, ext := range []string{".png", ".jpg", ".gif", ".bmp", ".tiff"} {
		t.Run(ext, func(t *testing.T) {
			in := filepath.Join(dir, "src"+ext)
			out := filepath.Join(dir, "out"+ext+".png")
			writeImage(t, in, gradient(120, 60))

			res, err := lb.Transform(context.Background(), in, out, 64)
			require.NoError(t, err)

			assert.Equal(t, in, res.Source)
			assert.Equal(t, out, res.Output)
			assert.Equal(t, 120, res.SourceWidth)
			assert.Equal(t, 60, res.SourceHeight)
			assert.Equal(t, 64, res.Width)
			assert.Equal(t, 32, res.Height)
			assert.Equal(t, image.Pt(0, 16), res.Offset)

			info, err := os.Stat(out)
			require.NoError(t, err)
			assert.Equal(t, info.Size(), res.Bytes)

			img := readPNG(t, out)
			assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())
			assert.Equal(t, Background, nrgbaAt(img, 0, 0))
			assert.Equal(t, Background, nrgbaAt(img, 63, 63))
		})
	}
}

func TestTransformIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "src.png")
	writeImage(t, in, gradient(97, 131))

	lb := NewLetterboxer(FileCodec{}, imaging.Lanczos)
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	_, err := lb.Transform(context.Background(), in, a, 50)
	require.NoError(t, err)
	_, err = lb.Transform(context.Background(), in, b, 50)
	require.NoError(t, err)

	first, err := os.ReadFile(a)
	require.NoError(t, err)
	second, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTransformOverwritesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "src.png")
	out := filepath.Join(dir, "1000.png")
	writeImage(t, in, gradient(10, 10))
	require.NoError(t, os.WriteFile(out, []byte("stale"), 0o644))

	_, err := NewLetterboxer(nil, imaging.Box).Transform(context.Background(), in, out, 10)
	require.NoError(t, err)

	img := readPNG(t, out)
	assert.Equal(t, 10, img.Bounds().Dx())
}

func TestTransformErrors(t *testing.T) {
	dir := t.TempDir()
	lb := NewLetterboxer(nil, imaging.Lanczos)
	ctx := context.Background()

	garbage := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err := lb.Transform(ctx, garbage, filepath.Join(dir, "x.png"), 32)
	assert.ErrorIs(t, err, ErrDecode)

	_, err = lb.Transform(ctx, filepath.Join(dir, "missing.png"), filepath.Join(dir, "y.png"), 32)
	assert.ErrorIs(t, err, ErrIO)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	good := filepath.Join(dir, "good.png")
	writeImage(t, good, gradient(8, 8))
	_, err = lb.Transform(ctx, good, filepath.Join(dir, "no", "such", "dir", "z.png"), 32)
	assert.ErrorIs(t, err, ErrIO)

	_, err = lb.Transform(ctx, good, filepath.Join(dir, "w.png"), 0)
	assert.ErrorIs(t, err, ErrConfig)
	assert.NoFileExists(t, filepath.Join(dir, "w.png"))
}

func TestTransformHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLetterboxer(nil, imaging.Lanczos).Transform(ctx, "in.png", "out.png", 8)
	assert.ErrorIs(t, err, context.Canceled)
}

type memCodec struct {
	src     image.Image
	written map[string]image.Image
}

func (m *memCodec) Decode(string) (image.Image, error) { return m.src, nil }

func (m *memCodec) EncodePNG(path string, img image.Image) (int64, error) {
	m.written[path] = img
	return 1, nil
}

func TestTransformUsesInjectedCodec(t *testing.T) {
	codec := &memCodec{src: solid(30, 10, blue), written: map[string]image.Image{}}
	res, err := NewLetterboxer(codec, imaging.NearestNeighbor).Transform(context.Background(), "a.webp", "out/1000.png", 30)
	require.NoError(t, err)

	require.Contains(t, codec.written, "out/1000.png")
	canvas := codec.written["out/1000.png"]
	assert.Equal(t, image.Rect(0, 0, 30, 30), canvas.Bounds())
	assert.Equal(t, image.Pt(0, 10), res.Offset)
	assert.Equal(t, blue, nrgbaAt(canvas, 15, 15))
	assert.Equal(t, Background, nrgbaAt(canvas, 15, 0))
}
