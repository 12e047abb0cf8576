package mri

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	// Register the decoders for the formats MRI scans arrive in.
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// InputSize is the model's expected input edge length in pixels.
const InputSize = 128

// ErrInvalidImage is returned when the uploaded bytes cannot be decoded as a
// supported image format.
var ErrInvalidImage = errors.New("mri: invalid image file")

// Preprocess decodes an uploaded scan and converts it to the model input
// tensor: a single-channel 128x128 grayscale image, normalized to [-1, 1],
// flattened in row-major order. The transform must match the one used during
// training (resize, grayscale, mean 0.5, std 0.5).
func Preprocess(data []byte) ([]float32, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	// Scaling onto a Gray destination performs the grayscale conversion.
	gray := image.NewGray(image.Rect(0, 0, InputSize, InputSize))
	draw.BiLinear.Scale(gray, gray.Bounds(), src, src.Bounds(), draw.Src, nil)

	out := make([]float32, InputSize*InputSize)
	for y := range InputSize {
		for x := range InputSize {
			v := float32(gray.GrayAt(x, y).Y) / 255
			out[y*InputSize+x] = (v - 0.5) / 0.5
		}
	}
	return out, nil
}
