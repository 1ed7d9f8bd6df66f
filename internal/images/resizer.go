package images

import (
	"context"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Background is the canvas fill, fully opaque white.
var Background = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Result describes one completed transform.
type Result struct {
	Source string
	Output string
	Geometry
	Bytes int64
}

// Letterboxer resizes images to a square canvas, preserving aspect ratio.
type Letterboxer struct {
	codec  Codec
	filter imaging.ResampleFilter
}

// NewLetterboxer creates a letterboxer. A nil codec selects FileCodec.
func NewLetterboxer(codec Codec, filter imaging.ResampleFilter) *Letterboxer {
	if codec == nil {
		codec = FileCodec{}
	}
	return &Letterboxer{
		codec:  codec,
		filter: filter,
	}
}

// Transform decodes inputPath, letterboxes it onto a size×size white canvas
// and writes the canvas as PNG to outputPath, replacing any existing file.
func (l *Letterboxer) Transform(ctx context.Context, inputPath, outputPath string, size int) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}

	// Reject bad sizes before touching the input
	if _, err := ComputeGeometry(1, 1, size); err != nil {
		return Result{}, err
	}

	src, err := l.codec.Decode(inputPath)
	if err != nil {
		return Result{}, err
	}

	canvas, geom, err := Letterbox(src, size, l.filter)
	if err != nil {
		return Result{}, err
	}

	n, err := l.codec.EncodePNG(outputPath, canvas)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Source:   inputPath,
		Output:   outputPath,
		Geometry: geom,
		Bytes:    n,
	}, nil
}

// Letterbox scales src to the canvas width and composites it, centered, over
// an opaque white size×size canvas. Transparent source pixels leave the
// background visible; parts falling outside the canvas are clipped.
func Letterbox(src image.Image, size int, filter imaging.ResampleFilter) (*image.NRGBA, Geometry, error) {
	bounds := src.Bounds()
	geom, err := ComputeGeometry(bounds.Dx(), bounds.Dy(), size)
	if err != nil {
		return nil, Geometry{}, err
	}

	resized := imaging.Resize(src, geom.Width, geom.Height, filter)
	canvas := imaging.New(size, size, Background)

	return imaging.Overlay(canvas, resized, geom.Offset, 1.0), geom, nil
}
