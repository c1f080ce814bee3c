package ops

import "github.com/born-ml/wordgen/internal/tensor"

// ReshapeOp records a reshape. The gradient is the output gradient viewed
// in the input's shape.
type ReshapeOp struct {
	node
	origShape tensor.Shape
}

// NewReshapeOp creates a new ReshapeOp.
func NewReshapeOp(input, output *tensor.RawTensor) *ReshapeOp {
	return &ReshapeOp{
		node:      newNode(output, input),
		origShape: input.Shape().Clone(),
	}
}

// Backward reshapes outputGrad back to the input shape.
func (op *ReshapeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Reshape(outputGrad, op.origShape)}
}

// TransposeOp records an axis permutation. The gradient is transposed back
// with the inverse permutation.
type TransposeOp struct {
	node
	axes []int
}

// NewTransposeOp creates a new TransposeOp. axes must be explicit.
func NewTransposeOp(input, output *tensor.RawTensor, axes []int) *TransposeOp {
	return &TransposeOp{
		node: newNode(output, input),
		axes: append([]int(nil), axes...),
	}
}

// Backward computes the input gradient for transpose.
func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inverse := make([]int, len(op.axes))
	for i, ax := range op.axes {
		inverse[ax] = i
	}
	return []*tensor.RawTensor{backend.Transpose(outputGrad, inverse...)}
}
