// Package nn provides the trainable-parameter building blocks used by the
// word model: named parameters, random initializers and the few functional
// layers (Tanh, CrossEntropy) the forward pass needs.
package nn

import (
	"github.com/born-ml/wordgen/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// Example:
//
//	w1 := nn.NewParameter("W1", nn.ScaledNormal(tensor.Shape{30, 200}, gain, backend, src))
//	h := x.MatMul(w1.Tensor())
type Parameter[B tensor.Backend] struct {
	name   string                     // Parameter name (e.g., "W1", "b1")
	tensor *tensor.Tensor[float32, B] // Current value
	grad   *tensor.Tensor[float32, B] // Gradient from the latest backward pass
}

// NewParameter creates a new trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// SetTensor replaces the parameter value.
// The new tensor becomes the key under which the next gradient is found.
func (p *Parameter[B]) SetTensor(t *tensor.Tensor[float32, B]) {
	p.tensor = t
}

// Grad returns the gradient tensor, or nil before the first backward pass.
func (p *Parameter[B]) Grad() *tensor.Tensor[float32, B] {
	return p.grad
}

// SetGrad sets the gradient tensor.
func (p *Parameter[B]) SetGrad(grad *tensor.Tensor[float32, B]) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor.
func (p *Parameter[B]) ZeroGrad() {
	p.grad = nil
}
