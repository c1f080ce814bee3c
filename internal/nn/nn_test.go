package nn_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/wordgen/internal/autodiff"
	"github.com/born-ml/wordgen/internal/backend/cpu"
	"github.com/born-ml/wordgen/internal/nn"
	"github.com/born-ml/wordgen/internal/tensor"
)

func toFloat64(data []float32) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}

func TestUniform_Range(t *testing.T) {
	backend := cpu.New()
	u := nn.Uniform(tensor.Shape{100, 10}, 0, 1, backend, rand.NewPCG(1, 2))

	for _, v := range u.Data() {
		require.GreaterOrEqual(t, v, float32(0))
		require.Less(t, v, float32(1))
	}
	assert.InDelta(t, 0.5, stat.Mean(toFloat64(u.Data()), nil), 0.05)
}

func TestScaledNormal_Moments(t *testing.T) {
	backend := cpu.New()
	gain := (5.0 / 3.0) / math.Sqrt(30)
	w := nn.ScaledNormal(tensor.Shape{200, 100}, gain, backend, rand.NewPCG(3, 4))

	mean, std := stat.MeanStdDev(toFloat64(w.Data()), nil)
	assert.InDelta(t, 0, mean, 0.01)
	assert.InDelta(t, gain, std, gain*0.05)
}

func TestScaledNormal_SeededIsDeterministic(t *testing.T) {
	backend := cpu.New()
	a := nn.ScaledNormal(tensor.Shape{8}, 0.01, backend, rand.NewPCG(7, 7))
	b := nn.ScaledNormal(tensor.Shape{8}, 0.01, backend, rand.NewPCG(7, 7))
	assert.Equal(t, a.Data(), b.Data())
}

func TestParameter(t *testing.T) {
	backend := cpu.New()
	p := nn.NewParameter("b2", nn.Zeros(tensor.Shape{27}, backend))

	assert.Equal(t, "b2", p.Name())
	assert.Nil(t, p.Grad())

	p.SetGrad(nn.Zeros(tensor.Shape{27}, backend))
	assert.NotNil(t, p.Grad())
	p.ZeroGrad()
	assert.Nil(t, p.Grad())

	next := tensor.Full[float32](tensor.Shape{27}, 1, backend)
	p.SetTensor(next)
	assert.Same(t, next, p.Tensor())
}

func TestCrossEntropy_PlainAndAutodiffAgree(t *testing.T) {
	logits := []float32{2, 1, 0.1, 0.5, 2.5, -1}
	targets := []int32{0, 1}

	plain := cpu.New()
	l1, err := tensor.FromSlice(logits, tensor.Shape{2, 3}, plain)
	require.NoError(t, err)
	t1, err := tensor.FromSlice(targets, tensor.Shape{2}, plain)
	require.NoError(t, err)

	ad := autodiff.New(cpu.New())
	ad.Tape().StartRecording()
	l2, err := tensor.FromSlice(logits, tensor.Shape{2, 3}, ad)
	require.NoError(t, err)
	t2, err := tensor.FromSlice(targets, tensor.Shape{2}, ad)
	require.NoError(t, err)

	got := nn.CrossEntropy(l2, t2).Item()
	assert.InDelta(t, nn.CrossEntropy(l1, t1).Item(), got, 1e-6)
	assert.Equal(t, 1, ad.Tape().NumOps())
	assert.Greater(t, got, float32(0))
}

func TestTanh(t *testing.T) {
	x, err := tensor.FromSlice([]float32{-1, 0, 1}, tensor.Shape{3}, cpu.New())
	require.NoError(t, err)
	y := nn.Tanh(x).Data()
	assert.InDelta(t, -math.Tanh(1), y[0], 1e-6)
	assert.Equal(t, float32(0), y[1])
}
