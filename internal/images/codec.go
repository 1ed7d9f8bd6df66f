package images

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Codec reads source images and writes PNG canvases. FileCodec is the
// production implementation; tests substitute in-memory fakes.
type Codec interface {
	Decode(path string) (image.Image, error)
	EncodePNG(path string, img image.Image) (int64, error)
}

// FileCodec decodes png, jpeg, gif, bmp, tiff and webp from disk and writes PNG.
type FileCodec struct{}

// Decode opens path and decodes it in whatever registered format it holds.
func (FileCodec) Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return img, nil
}

// EncodePNG writes img to path as PNG, replacing any existing file, and
// returns the number of bytes written.
func (FileCodec) EncodePNG(path string, img image.Image) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrIO, err)
	}

	cw := &countingWriter{w: f}
	if err := imaging.Encode(cw, img, imaging.PNG); err != nil {
		f.Close()
		return cw.n, fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		return cw.n, fmt.Errorf("%w: close %s: %w", ErrIO, path, err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
