package optim

import (
	"github.com/born-ml/wordgen/internal/nn"
	"github.com/born-ml/wordgen/internal/tensor"
)

// SGD implements plain stochastic gradient descent:
//
//	param = param - lr * grad
//
// There is no momentum, weight decay or clipping. Each step replaces the
// parameter tensor rather than writing into it.
type SGD[B tensor.Backend] struct {
	params  []*nn.Parameter[B]
	lr      float32
	backend B
}

// SGDConfig contains configuration for the SGD optimizer.
type SGDConfig struct {
	LR float32 // Learning rate (default: 0.1)
}

// NewSGD creates a new SGD optimizer over params, updated in the given order.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], config SGDConfig, backend B) *SGD[B] {
	if config.LR == 0 {
		config.LR = 0.1
	}

	return &SGD[B]{
		params:  params,
		lr:      config.LR,
		backend: backend,
	}
}

// Step performs one update of every parameter.
//
// All gradients are resolved before any parameter changes, so a missing
// gradient leaves the parameters untouched.
func (s *SGD[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) error {
	resolved := make([]*tensor.RawTensor, len(s.params))
	for i, param := range s.params {
		grad, err := gradientFor(param, grads)
		if err != nil {
			return err
		}
		resolved[i] = grad
	}

	for i, param := range s.params {
		grad := tensor.New[float32](resolved[i], s.backend)
		param.SetGrad(grad)
		param.SetTensor(param.Tensor().Sub(grad.MulScalar(s.lr)))
	}
	return nil
}

// ZeroGrad clears all parameter gradients.
func (s *SGD[B]) ZeroGrad() {
	for _, param := range s.params {
		param.ZeroGrad()
	}
}

// GetLR returns the current learning rate.
func (s *SGD[B]) GetLR() float32 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD[B]) SetLR(lr float32) {
	s.lr = lr
}
