package cpu

import (
	"fmt"

	"github.com/born-ml/wordgen/internal/parallel"
	"github.com/born-ml/wordgen/internal/tensor"
)

// Embedding performs embedding lookup.
// weight: [numEmbeddings, embeddingDim]
// indices: any shape, int32
// output: [...indices.shape, embeddingDim]
//
// Example:
//
//	weight: [27, 10] (alphabet of 27 characters, 10-dim vectors)
//	indices: [32, 3] (32 contexts of 3 characters)
//	output: [32, 3, 10]
func (cpu *CPUBackend) Embedding(weight, indices *tensor.RawTensor) *tensor.RawTensor {
	weightShape := weight.Shape()
	if len(weightShape) != 2 {
		panic(fmt.Sprintf("embedding: weight must be 2D [num_embeddings, embedding_dim], got %v", weightShape))
	}
	if indices.DType() != tensor.Int32 {
		panic(fmt.Sprintf("embedding: indices must be int32, got %s", indices.DType()))
	}
	requireFloat32("embedding", weight)

	numEmbeddings, embeddingDim := weightShape[0], weightShape[1]

	outShape := make(tensor.Shape, 0, len(indices.Shape())+1)
	outShape = append(outShape, indices.Shape()...)
	outShape = append(outShape, embeddingDim)

	result := tensor.MustRaw(outShape, tensor.Float32, cpu.device)
	dst, src := result.AsFloat32(), weight.AsFloat32()

	idx := indices.AsInt32()
	// Validate before fanning out: a panic on a worker goroutine is not recoverable.
	for _, v := range idx {
		if v < 0 || int(v) >= numEmbeddings {
			panic(fmt.Sprintf("embedding: index %d out of range [0, %d)", v, numEmbeddings))
		}
	}

	parallel.For(len(idx), func(i int) {
		row := int(idx[i])
		copy(dst[i*embeddingDim:(i+1)*embeddingDim], src[row*embeddingDim:(row+1)*embeddingDim])
	}, cpu.par)

	return result
}

// IndexSelect gathers rows (dimension 0) of x.
// x: [N, ...rest], indices: [K] int32, output: [K, ...rest].
// Works for float32 and int32 data.
func (cpu *CPUBackend) IndexSelect(x, indices *tensor.RawTensor) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) == 0 {
		panic("indexSelect: scalar input")
	}
	if indices.DType() != tensor.Int32 || len(indices.Shape()) != 1 {
		panic(fmt.Sprintf("indexSelect: indices must be 1D int32, got %s%v", indices.DType(), indices.Shape()))
	}
	if x.DType() != tensor.Float32 && x.DType() != tensor.Int32 {
		panic(fmt.Sprintf("indexSelect: unsupported dtype %s", x.DType()))
	}

	rows := shape[0]
	rowBytes := x.ByteSize() / rows

	outShape := shape.Clone()
	outShape[0] = indices.Shape()[0]

	result := tensor.MustRaw(outShape, x.DType(), cpu.device)
	dst, src := result.Data(), x.Data()

	for i, idx := range indices.AsInt32() {
		row := int(idx)
		if row < 0 || row >= rows {
			panic(fmt.Sprintf("indexSelect: index %d out of range [0, %d)", idx, rows))
		}
		copy(dst[i*rowBytes:(i+1)*rowBytes], src[row*rowBytes:(row+1)*rowBytes])
	}

	return result
}
