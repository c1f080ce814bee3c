package autodiff_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/wordgen/internal/autodiff"
	"github.com/born-ml/wordgen/internal/backend/cpu"
	"github.com/born-ml/wordgen/internal/tensor"
)

type testBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func fromSlice[T tensor.DType](t *testing.T, b testBackend, data []T, shape ...int) *tensor.Tensor[T, testBackend] {
	t.Helper()
	x, err := tensor.FromSlice(data, tensor.Shape(shape), b)
	require.NoError(t, err)
	return x
}

func TestBackward_Square(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x := fromSlice(t, backend, []float32{3}, 1)
	y := x.Mul(x) // y = x²

	grads := autodiff.Backward(y, backend)
	assert.InDelta(t, 6.0, grads[x.Raw()].AsFloat32()[0], 1e-6)
}

func TestBackward_NotRecordingLeavesTapeEmpty(t *testing.T) {
	backend := autodiff.New(cpu.New())

	x := fromSlice(t, backend, []float32{1, 2}, 2)
	_ = x.Add(x).Tanh()

	assert.Equal(t, 0, backend.Tape().NumOps())
	assert.Panics(t, func() { autodiff.Backward(x, backend) })
}

func TestBackward_BiasBroadcastSumsRows(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	h := fromSlice(t, backend, []float32{1, 2, 3, 4, 5, 6}, 2, 3)
	bias := fromSlice(t, backend, []float32{0, 0, 0}, 3)
	y := h.Add(bias)

	grads := autodiff.Backward(y, backend)
	assert.Equal(t, []float32{2, 2, 2}, grads[bias.Raw()].AsFloat32())
	assert.Equal(t, []float32{1, 1, 1, 1, 1, 1}, grads[h.Raw()].AsFloat32())
}

func TestBackward_SubAndMul(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a := fromSlice(t, backend, []float32{2, 3}, 2)
	b := fromSlice(t, backend, []float32{5, 7}, 2)
	y := a.Sub(b).Mul(a) // (a-b)*a

	grads := autodiff.Backward(y, backend)
	// d/da = 2a - b, d/db = -a
	assert.Equal(t, []float32{-1, -1}, grads[a.Raw()].AsFloat32())
	assert.Equal(t, []float32{-2, -3}, grads[b.Raw()].AsFloat32())
}

func TestBackward_EmbeddingAccumulatesRepeatedRows(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	weight := fromSlice(t, backend, []float32{0, 0, 0, 0, 0, 0}, 3, 2)
	idx := fromSlice(t, backend, []int32{0, 1, 0}, 3)
	y := weight.Embedding(idx)

	grads := autodiff.Backward(y, backend)
	assert.Equal(t, []float32{2, 2, 1, 1, 0, 0}, grads[weight.Raw()].AsFloat32())
}

func TestBackward_TransposeRoundTrip(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	w := fromSlice(t, backend, []float32{1, 2, 3, 4, 5, 6}, 2, 3)
	scale := fromSlice(t, backend, []float32{1, 10}, 2)
	y := w.Transpose().Mul(scale) // [3,2] * [2]

	grads := autodiff.Backward(y, backend)
	assert.Equal(t, []float32{1, 1, 1, 10, 10, 10}, grads[w.Raw()].AsFloat32())
}

func TestCrossEntropy_UniformLogits(t *testing.T) {
	backend := autodiff.New(cpu.New())

	logits := fromSlice(t, backend, make([]float32, 2*27), 2, 27)
	targets := fromSlice(t, backend, []int32{0, 5}, 2)

	loss := backend.CrossEntropy(logits.Raw(), targets.Raw())
	assert.InDelta(t, math.Log(27), loss.AsFloat32()[0], 1e-5)
}

// mlp holds the parameters of a tiny embedding -> tanh -> logits network.
type mlp struct {
	c, w1, b1, w2, b2 *tensor.Tensor[float32, testBackend]
}

func (m mlp) loss(backend testBackend, x, y *tensor.Tensor[int32, testBackend]) *tensor.Tensor[float32, testBackend] {
	n, block := x.Shape()[0], x.Shape()[1]
	emb := m.c.Embedding(x).Reshape(n, block*m.c.Shape()[1])
	h := emb.MatMul(m.w1).Add(m.b1).Tanh()
	logits := h.MatMul(m.w2).Add(m.b2)
	return tensor.New[float32](backend.CrossEntropy(logits.Raw(), y.Raw()), backend)
}

// TestBackward_MatchesFiniteDifferences checks every gradient of the full
// training graph against a central difference.
func TestBackward_MatchesFiniteDifferences(t *testing.T) {
	backend := autodiff.New(cpu.New())

	seq := float32(0)
	next := func() float32 {
		seq++
		return float32(math.Sin(float64(seq))) * 0.5
	}
	m := mlp{
		c:  tensor.Generate[float32](tensor.Shape{5, 2}, backend, next),
		w1: tensor.Generate[float32](tensor.Shape{6, 4}, backend, next),
		b1: tensor.Generate[float32](tensor.Shape{4}, backend, next),
		w2: tensor.Generate[float32](tensor.Shape{4, 5}, backend, next),
		b2: tensor.Generate[float32](tensor.Shape{5}, backend, next),
	}
	x := fromSlice(t, backend, []int32{0, 0, 1, 1, 2, 3, 4, 4, 0, 2, 2, 2}, 4, 3)
	y := fromSlice(t, backend, []int32{1, 3, 0, 2}, 4)

	backend.Tape().StartRecording()
	grads := autodiff.Backward(m.loss(backend, x, y), backend)
	backend.Tape().StopRecording()
	backend.Tape().Clear()

	const eps = 1e-2
	for name, p := range map[string]*tensor.Tensor[float32, testBackend]{
		"C": m.c, "W1": m.w1, "b1": m.b1, "W2": m.w2, "b2": m.b2,
	} {
		g, ok := grads[p.Raw()]
		require.True(t, ok, "missing gradient for %s", name)
		require.True(t, g.Shape().Equal(p.Shape()), "%s gradient shape %v", name, g.Shape())

		data := p.Data()
		numeric := make([]float64, len(data))
		analytic := make([]float64, len(data))
		for i := range data {
			orig := data[i]
			data[i] = orig + eps
			up := m.loss(backend, x, y).Item()
			data[i] = orig - eps
			down := m.loss(backend, x, y).Item()
			data[i] = orig

			numeric[i] = float64((up - down) / (2 * eps))
			analytic[i] = float64(g.AsFloat32()[i])
		}
		assert.True(t, floats.EqualApprox(numeric, analytic, 2e-3),
			"%s: numeric %v, analytic %v", name, numeric, analytic)
	}
}
