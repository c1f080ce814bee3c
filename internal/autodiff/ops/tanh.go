package ops

import "github.com/born-ml/wordgen/internal/tensor"

// TanhOp represents the hyperbolic tangent activation.
type TanhOp struct{ node }

// NewTanhOp creates a new TanhOp.
func NewTanhOp(input, output *tensor.RawTensor) *TanhOp {
	return &TanhOp{newNode(output, input)}
}

// Backward computes grad_input = grad_output * (1 - output²), reusing the
// forward result instead of recomputing tanh.
func (op *TanhOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	y := op.output.AsFloat32()
	g := outputGrad.AsFloat32()

	inputGrad := tensor.MustRaw(op.output.Shape(), tensor.Float32, op.output.Device())
	dst := inputGrad.AsFloat32()
	for i, v := range y {
		dst[i] = g[i] * (1 - v*v)
	}

	return []*tensor.RawTensor{inputGrad}
}
