package cpu

import (
	"github.com/born-ml/wordgen/internal/tensor"
)

// CumSum computes the running sum along dim.
//
// Example:
//
//	x: [0.2, 0.3, 0.5]
//	CumSum(x, 0): [0.2, 0.5, 1.0]
func (cpu *CPUBackend) CumSum(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	requireFloat32("cumsum", x)
	outer, size, inner := lanes("cumsum", x.Shape(), dim)

	result := tensor.MustRaw(x.Shape(), tensor.Float32, cpu.device)
	src, dst := x.AsFloat32(), result.AsFloat32()

	for o := 0; o < outer; o++ {
		for j := 0; j < inner; j++ {
			base := o*size*inner + j
			var acc float32
			for i := 0; i < size; i++ {
				acc += src[base+i*inner]
				dst[base+i*inner] = acc
			}
		}
	}

	return result
}
