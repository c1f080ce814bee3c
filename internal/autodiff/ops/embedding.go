package ops

import (
	"fmt"

	"github.com/born-ml/wordgen/internal/tensor"
)

// EmbeddingOp represents an embedding lookup: output[i] = weight[indices[i]].
//
// Backward is a scatter-add: rows looked up more than once accumulate.
//
//	indices = [0, 1, 0]
//	grad_output = [[1,2], [3,4], [5,6]]
//	grad_weight[0] = [1,2] + [5,6] = [6,8]
//	grad_weight[1] = [3,4]
type EmbeddingOp struct {
	node
	indices *tensor.RawTensor
}

// NewEmbeddingOp creates a new embedding operation.
// Only weight is an input; integer indices carry no gradient.
func NewEmbeddingOp(weight, indices, output *tensor.RawTensor) *EmbeddingOp {
	return &EmbeddingOp{
		node:    newNode(output, weight),
		indices: indices,
	}
}

// Backward computes gradients for the embedding weights.
func (op *EmbeddingOp) Backward(gradOutput *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	weightShape := op.inputs[0].Shape()
	numEmbeddings, embeddingDim := weightShape[0], weightShape[1]

	gradWeight := tensor.MustRaw(weightShape, tensor.Float32, backend.Device())
	dst := gradWeight.AsFloat32()
	src := gradOutput.AsFloat32()

	for i, idx := range op.indices.AsInt32() {
		row := int(idx)
		if row < 0 || row >= numEmbeddings {
			panic(fmt.Sprintf("embedding backward: index %d out of range [0, %d)", idx, numEmbeddings))
		}
		out := src[i*embeddingDim : (i+1)*embeddingDim]
		acc := dst[row*embeddingDim : (row+1)*embeddingDim]
		for j, v := range out {
			acc[j] += v
		}
	}

	return []*tensor.RawTensor{gradWeight}
}
