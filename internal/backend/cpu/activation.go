package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/wordgen/internal/parallel"
	"github.com/born-ml/wordgen/internal/tensor"
)

// Tanh applies the hyperbolic tangent element-wise.
func (cpu *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	requireFloat32("tanh", x)

	result := tensor.MustRaw(x.Shape(), tensor.Float32, cpu.device)
	dst, src := result.AsFloat32(), x.AsFloat32()
	parallel.Range(len(src), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = float32(math.Tanh(float64(src[i])))
		}
	}, cpu.par)
	return result
}

// Softmax computes softmax along the specified dimension.
// Softmax(x_i) = exp(x_i - max) / sum(exp(x_j - max)) for all j in dimension.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	requireFloat32("softmax", x)
	outer, size, inner := lanes("softmax", x.Shape(), dim)

	result := tensor.MustRaw(x.Shape(), tensor.Float32, cpu.device)
	src, dst := x.AsFloat32(), result.AsFloat32()

	// One lane per (outer, inner) pair; lanes are independent.
	parallel.For(outer*inner, func(lane int) {
		base := (lane/inner)*size*inner + lane%inner

		// Find max for numerical stability
		maxVal := float32(math.Inf(-1))
		for i := 0; i < size; i++ {
			maxVal = max(maxVal, src[base+i*inner])
		}

		var sum float64
		for i := 0; i < size; i++ {
			e := math.Exp(float64(src[base+i*inner] - maxVal))
			dst[base+i*inner] = float32(e)
			sum += e
		}

		for i := 0; i < size; i++ {
			dst[base+i*inner] = float32(float64(dst[base+i*inner]) / sum)
		}
	}, cpu.par)

	return result
}

// lanes splits shape around dim into (outer, size, inner) so element
// (o, i, j) lives at o*size*inner + i*inner + j. Negative dims count from the end.
func lanes(op string, shape tensor.Shape, dim int) (outer, size, inner int) {
	ndim := len(shape)
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("%s: dimension %d out of range for tensor of rank %d", op, dim, ndim))
	}

	outer, inner = 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < ndim; i++ {
		inner *= shape[i]
	}
	return outer, shape[dim], inner
}
