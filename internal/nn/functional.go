package nn

import (
	"github.com/born-ml/wordgen/internal/autodiff/ops"
	"github.com/born-ml/wordgen/internal/tensor"
)

// CrossEntropyBackend is implemented by backends that record cross-entropy
// on a gradient tape (autodiff.AutodiffBackend).
type CrossEntropyBackend interface {
	CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor
}

// Tanh applies the hyperbolic tangent element-wise.
func Tanh[B tensor.Backend](x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return x.Tanh()
}

// CrossEntropy computes the mean cross-entropy of logits [N, C] against
// class indices targets [N] and returns a [1] loss tensor.
//
// When the backend is autodiff-aware the loss is recorded on its tape;
// otherwise it is computed directly.
func CrossEntropy[B tensor.Backend](logits *tensor.Tensor[float32, B], targets *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	backend := logits.Backend()
	if ce, ok := any(backend).(CrossEntropyBackend); ok {
		return tensor.New[float32](ce.CrossEntropy(logits.Raw(), targets.Raw()), backend)
	}
	return tensor.New[float32](ops.CrossEntropyForward(logits.Raw(), targets.Raw(), backend.Device()), backend)
}
