// Package optim updates model parameters from a gradient store.
//
// Example usage:
//
//	optimizer := optim.NewSGD(params, optim.SGDConfig{LR: 0.1}, backend)
//
//	backend.Tape().StartRecording()
//	loss := model.Forward(inputs, targets)
//	grads := autodiff.Backward(loss, backend)
//	backend.Tape().StopRecording()
//	backend.Tape().Clear()
//
//	if err := optimizer.Step(grads); err != nil {
//	    return err
//	}
package optim

import (
	"errors"
	"fmt"

	"github.com/born-ml/wordgen/internal/nn"
	"github.com/born-ml/wordgen/internal/tensor"
)

// ErrMissingGradient is returned by Step when a parameter has no entry in the
// gradient store. It means the parameter was not on the recorded path.
var ErrMissingGradient = errors.New("missing gradient")

// Optimizer updates a fixed, ordered set of parameters.
type Optimizer interface {
	// Step applies one update to every parameter, in order.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor) error

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// gradientFor looks up param's gradient, keyed by its current RawTensor.
func gradientFor[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) (*tensor.RawTensor, error) {
	grad, ok := grads[param.Tensor().Raw()]
	if !ok || grad == nil {
		return nil, fmt.Errorf("parameter %s: %w", param.Name(), ErrMissingGradient)
	}
	if !grad.Shape().Equal(param.Tensor().Shape()) {
		return nil, fmt.Errorf("parameter %s: gradient shape %v does not match %v",
			param.Name(), grad.Shape(), param.Tensor().Shape())
	}
	return grad, nil
}
