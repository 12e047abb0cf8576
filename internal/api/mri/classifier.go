// Package mri turns uploaded MRI scans into dementia-stage classifications.
// It covers the fixed preprocessing pipeline (decode, grayscale, resize,
// normalize) and the trained AddNet convolutional network.
package mri

import "context"

// ClassNames are the model's output labels, in training order. Do not
// reorder: index i of the network output corresponds to ClassNames[i].
var ClassNames = []string{
	"Mild Dementia",
	"Moderate Dementia",
	"Non Demented",
	"Very mild Dementia",
}

// Result is a single classification outcome. Confidence is a percentage
// rounded to two decimals.
type Result struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

// Classifier runs a preprocessed input tensor (see Preprocess) through a
// model and returns the predicted class. Implementations are CPU-bound and
// run to completion once started.
type Classifier interface {
	Classify(ctx context.Context, input []float32) (Result, error)
}
