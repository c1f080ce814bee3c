// Package ops defines the differentiable operations recorded on a gradient tape.
//
// Each operation keeps references to the tensors it consumed and produced
// during the forward pass and turns an output gradient into input gradients:
//   - AddOp, SubOp, MulOp: element-wise arithmetic with broadcasting
//   - MatMulOp: d(A@B)/dA = grad@Bᵀ, d(A@B)/dB = Aᵀ@grad
//   - ReshapeOp, TransposeOp: shape bookkeeping
//   - TanhOp: d(tanh x)/dx = 1 - tanh²x
//   - EmbeddingOp: scatter-add into the looked-up rows
//   - CrossEntropyOp: fused log-softmax + negative log-likelihood
package ops

import "github.com/born-ml/wordgen/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// The returned slice is aligned with Inputs(); nil entries mean "no gradient".
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the differentiable input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}

// node carries the tensor references shared by every operation.
type node struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

func newNode(output *tensor.RawTensor, inputs ...*tensor.RawTensor) node {
	return node{inputs: inputs, output: output}
}

// Inputs returns the input tensors.
func (n node) Inputs() []*tensor.RawTensor {
	return n.inputs
}

// Output returns the output tensor.
func (n node) Output() *tensor.RawTensor {
	return n.output
}
