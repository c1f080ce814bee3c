package optim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/wordgen/internal/autodiff"
	"github.com/born-ml/wordgen/internal/backend/cpu"
	"github.com/born-ml/wordgen/internal/nn"
	"github.com/born-ml/wordgen/internal/optim"
	"github.com/born-ml/wordgen/internal/tensor"
)

type testBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func TestSGD_SimpleUpdate(t *testing.T) {
	backend := autodiff.New(cpu.New())

	x, err := tensor.FromSlice([]float32{2.0, -1.0}, tensor.Shape{2}, backend)
	require.NoError(t, err)
	param := nn.NewParameter("x", x)

	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{param}, optim.SGDConfig{LR: 0.1}, backend)
	assert.Equal(t, float32(0.1), optimizer.GetLR())

	grad := tensor.MustRaw(tensor.Shape{2}, tensor.Float32, backend.Device())
	copy(grad.AsFloat32(), []float32{1.0, -2.0})

	require.NoError(t, optimizer.Step(map[*tensor.RawTensor]*tensor.RawTensor{x.Raw(): grad}))

	assert.InDeltaSlice(t, []float32{1.9, -0.8}, param.Tensor().Data(), 1e-6)
	assert.NotSame(t, x, param.Tensor(), "parameter must be replaced, not mutated")
	assert.Equal(t, []float32{2.0, -1.0}, x.Data())
	assert.NotNil(t, param.Grad())

	optimizer.ZeroGrad()
	assert.Nil(t, param.Grad())
}

func TestSGD_MissingGradientLeavesParamsUntouched(t *testing.T) {
	backend := autodiff.New(cpu.New())

	a := nn.NewParameter("a", tensor.Full[float32](tensor.Shape{1}, 1, backend))
	b := nn.NewParameter("b", tensor.Full[float32](tensor.Shape{1}, 1, backend))
	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{a, b}, optim.SGDConfig{LR: 0.5}, backend)

	grad := tensor.MustRaw(tensor.Shape{1}, tensor.Float32, backend.Device())
	err := optimizer.Step(map[*tensor.RawTensor]*tensor.RawTensor{a.Tensor().Raw(): grad})

	require.ErrorIs(t, err, optim.ErrMissingGradient)
	assert.Contains(t, err.Error(), "parameter b")
	assert.Equal(t, float32(1), a.Tensor().Item())
}

func TestSGD_DefaultLR(t *testing.T) {
	optimizer := optim.NewSGD[*cpu.CPUBackend](nil, optim.SGDConfig{}, cpu.New())
	assert.Equal(t, float32(0.1), optimizer.GetLR())
	optimizer.SetLR(0.01)
	assert.Equal(t, float32(0.01), optimizer.GetLR())
}

func TestSGD_GradientStepReducesLoss(t *testing.T) {
	backend := autodiff.New(cpu.New())

	w, err := tensor.FromSlice([]float32{0.5, -0.5, 0.2, 0.1, 0.3, -0.2}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)
	x, err := tensor.FromSlice([]float32{1, 0, 0, 1}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)
	y, err := tensor.FromSlice([]int32{2, 0}, tensor.Shape{2}, backend)
	require.NoError(t, err)

	param := nn.NewParameter("W", w)
	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{param}, optim.SGDConfig{LR: 1}, backend)

	loss := func() *tensor.Tensor[float32, testBackend] {
		return nn.CrossEntropy(x.MatMul(param.Tensor()), y)
	}

	backend.Tape().StartRecording()
	before := loss()
	grads := autodiff.Backward(before, backend)
	backend.Tape().StopRecording()
	backend.Tape().Clear()

	require.NoError(t, optimizer.Step(grads))
	assert.Less(t, loss().Item(), before.Item())
}
