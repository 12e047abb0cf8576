package mri

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestWeights writes a zeroed weights file, then patches individual
// parameters via overrides keyed by absolute float offset into the payload.
func writeTestWeights(t *testing.T, overrides map[int]float32) string {
	t.Helper()

	sizes := []int{
		conv1Out * 1 * 3 * 3,
		conv1Out,
		conv2Out * conv1Out * 3 * 3,
		conv2Out,
		fc1Out * flatLen,
		fc1Out,
		numClass * fc1Out,
		numClass,
	}
	total := 0
	for _, s := range sizes {
		total += s
	}

	payload := make([]byte, total*4)
	for off, v := range overrides {
		binary.LittleEndian.PutUint32(payload[off*4:], math.Float32bits(v))
	}

	path := filepath.Join(t.TempDir(), "addnet.bin")
	f, err := os.Create(path)
	require.NoError(t, err)
	_, err = f.Write([]byte(weightsMagic))
	require.NoError(t, err)
	_, err = f.Write(payload)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return path
}

// fc2BiasOffset returns the payload offset of fc2.bias[i].
func fc2BiasOffset(i int) int {
	return conv1Out*9 + conv1Out +
		conv2Out*conv1Out*9 + conv2Out +
		fc1Out*flatLen + fc1Out +
		numClass*fc1Out + i
}

func TestLoadAddNetBadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addnet.bin")
	require.NoError(t, os.WriteFile(path, []byte("NOTMAGIC"), 0o600))

	_, err := LoadAddNet(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")
}

func TestLoadAddNetTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addnet.bin")
	require.NoError(t, os.WriteFile(path, []byte(weightsMagic+"short"), 0o600))

	_, err := LoadAddNet(path)
	require.Error(t, err)
}

func TestLoadAddNetMissingFile(t *testing.T) {
	_, err := LoadAddNet(filepath.Join(t.TempDir(), "nope.bin"))
	require.Error(t, err)
}

func TestClassifyUniformWithZeroWeights(t *testing.T) {
	net, err := LoadAddNet(writeTestWeights(t, nil))
	require.NoError(t, err)

	res, err := net.Classify(context.Background(), make([]float32, InputSize*InputSize))
	require.NoError(t, err)

	// All logits are zero, so the softmax is uniform and argmax picks the
	// first class.
	assert.Equal(t, ClassNames[0], res.Class)
	assert.InDelta(t, 25.0, res.Confidence, 0.01)
}

func TestClassifyBiasSelectsClass(t *testing.T) {
	net, err := LoadAddNet(writeTestWeights(t, map[int]float32{
		fc2BiasOffset(1): 1,
	}))
	require.NoError(t, err)

	res, err := net.Classify(context.Background(), make([]float32, InputSize*InputSize))
	require.NoError(t, err)

	assert.Equal(t, "Moderate Dementia", res.Class)
	// softmax([0,1,0,0])[1] = e / (3 + e)
	want := math.E / (3 + math.E) * 100
	assert.InDelta(t, want, res.Confidence, 0.01)
}

func TestClassifyInputValidation(t *testing.T) {
	net, err := LoadAddNet(writeTestWeights(t, nil))
	require.NoError(t, err)

	_, err = net.Classify(context.Background(), make([]float32, 10))
	require.Error(t, err)
}

func TestClassifyCancelledContext(t *testing.T) {
	net, err := LoadAddNet(writeTestWeights(t, nil))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = net.Classify(ctx, make([]float32, InputSize*InputSize))
	require.ErrorIs(t, err, context.Canceled)
}
