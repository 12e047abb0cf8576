package mri

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// weightsMagic identifies the exported weights file format. The file is the
// magic header followed by every parameter tensor as little-endian float32,
// in declaration order.
const weightsMagic = "ADDNETv1"

// Network dimensions. These are fixed by the trained model and are validated
// against the weights file on load.
const (
	conv1Out = 32
	conv2Out = 64
	pool1    = InputSize / 2 // 64
	pool2    = pool1 / 2     // 32
	flatLen  = conv2Out * pool2 * pool2
	fc1Out   = 128
	numClass = 4
)

// AddNet is a convolutional classifier for dementia staging on MRI scans.
// Two 3x3 convolution blocks with max pooling feed a pair of dense layers;
// the output is a softmax over ClassNames.
type AddNet struct {
	conv1W []float32 // [conv1Out][1][3][3]
	conv1B []float32
	conv2W []float32 // [conv2Out][conv1Out][3][3]
	conv2B []float32
	fc1W   []float32 // [fc1Out][flatLen]
	fc1B   []float32
	fc2W   []float32 // [numClass][fc1Out]
	fc2B   []float32
}

var _ Classifier = (*AddNet)(nil)

// LoadAddNet reads trained weights from path and returns a ready classifier.
func LoadAddNet(path string) (*AddNet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open weights: %w", err)
	}
	defer f.Close()

	magic := make([]byte, len(weightsMagic))
	if _, err := io.ReadFull(f, magic); err != nil {
		return nil, fmt.Errorf("read weights header: %w", err)
	}
	if string(magic) != weightsMagic {
		return nil, fmt.Errorf("bad weights header %q, want %q", magic, weightsMagic)
	}

	n := &AddNet{}
	tensors := []struct {
		name string
		dst  *[]float32
		size int
	}{
		{"conv1.weight", &n.conv1W, conv1Out * 1 * 3 * 3},
		{"conv1.bias", &n.conv1B, conv1Out},
		{"conv2.weight", &n.conv2W, conv2Out * conv1Out * 3 * 3},
		{"conv2.bias", &n.conv2B, conv2Out},
		{"fc1.weight", &n.fc1W, fc1Out * flatLen},
		{"fc1.bias", &n.fc1B, fc1Out},
		{"fc2.weight", &n.fc2W, numClass * fc1Out},
		{"fc2.bias", &n.fc2B, numClass},
	}
	for _, t := range tensors {
		buf := make([]byte, t.size*4)
		if _, err := io.ReadFull(f, buf); err != nil {
			return nil, fmt.Errorf("read %s: %w", t.name, err)
		}
		vals := make([]float32, t.size)
		for i := range vals {
			vals[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		}
		*t.dst = vals
	}
	if _, err := f.Read(make([]byte, 1)); err != io.EOF {
		return nil, fmt.Errorf("weights file has trailing data")
	}
	return n, nil
}

// Classify runs the forward pass and returns the top class with its
// probability as a percentage rounded to two decimals.
func (n *AddNet) Classify(ctx context.Context, input []float32) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if len(input) != InputSize*InputSize {
		return Result{}, fmt.Errorf("input has %d values, want %d", len(input), InputSize*InputSize)
	}

	x := conv3x3(input, InputSize, 1, conv1Out, n.conv1W, n.conv1B)
	relu(x)
	x = maxPool2(x, InputSize, conv1Out)

	x = conv3x3(x, pool1, conv1Out, conv2Out, n.conv2W, n.conv2B)
	relu(x)
	x = maxPool2(x, pool1, conv2Out)

	x = dense(x, n.fc1W, n.fc1B, fc1Out)
	relu(x)
	logits := dense(x, n.fc2W, n.fc2B, numClass)

	probs := softmax(logits)
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return Result{
		Class:      ClassNames[best],
		Confidence: math.Round(float64(probs[best])*10000) / 100,
	}, nil
}

// conv3x3 applies a same-padded 3x3 convolution over a square CHW tensor.
// Weights are laid out [outC][inC][3][3].
func conv3x3(in []float32, size, inC, outC int, w, b []float32) []float32 {
	out := make([]float32, outC*size*size)
	plane := size * size
	for oc := 0; oc < outC; oc++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				sum := b[oc]
				for ic := 0; ic < inC; ic++ {
					wBase := ((oc*inC + ic) * 9)
					for ky := -1; ky <= 1; ky++ {
						iy := y + ky
						if iy < 0 || iy >= size {
							continue
						}
						for kx := -1; kx <= 1; kx++ {
							ix := x + kx
							if ix < 0 || ix >= size {
								continue
							}
							sum += in[ic*plane+iy*size+ix] * w[wBase+(ky+1)*3+(kx+1)]
						}
					}
				}
				out[oc*plane+y*size+x] = sum
			}
		}
	}
	return out
}

func relu(v []float32) {
	for i, x := range v {
		if x < 0 {
			v[i] = 0
		}
	}
}

// maxPool2 halves each spatial dimension with 2x2 max pooling.
func maxPool2(in []float32, size, channels int) []float32 {
	half := size / 2
	out := make([]float32, channels*half*half)
	for c := 0; c < channels; c++ {
		inPlane := in[c*size*size:]
		outPlane := out[c*half*half:]
		for y := 0; y < half; y++ {
			for x := 0; x < half; x++ {
				a := inPlane[(2*y)*size+2*x]
				if v := inPlane[(2*y)*size+2*x+1]; v > a {
					a = v
				}
				if v := inPlane[(2*y+1)*size+2*x]; v > a {
					a = v
				}
				if v := inPlane[(2*y+1)*size+2*x+1]; v > a {
					a = v
				}
				outPlane[y*half+x] = a
			}
		}
	}
	return out
}

// dense computes out = W*in + b with W laid out [outLen][len(in)].
func dense(in, w, b []float32, outLen int) []float32 {
	out := make([]float32, outLen)
	for o := 0; o < outLen; o++ {
		sum := b[o]
		row := w[o*len(in):]
		for i, v := range in {
			sum += row[i] * v
		}
		out[o] = sum
	}
	return out
}

func softmax(logits []float32) []float32 {
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}
	var sum float64
	exps := make([]float64, len(logits))
	for i, v := range logits {
		exps[i] = math.Exp(float64(v - max))
		sum += exps[i]
	}
	out := make([]float32, len(logits))
	for i, e := range exps {
		out[i] = float32(e / sum)
	}
	return out
}
