package ops

import (
	"fmt"

	"github.com/born-ml/wordgen/internal/tensor"
)

// reduceBroadcast sums grad down to targetShape, undoing NumPy-style
// broadcasting from the forward pass.
//
// Example:
//
//	Forward: a[3,1] + b[3,4] -> c[3,4]  (a was broadcast along dim 1)
//	Backward: grad_c[3,4] -> grad_a[3,1] (sum along dim 1)
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, _ tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()

	// Same shape: clone so accumulated gradients never alias each other.
	if gradShape.Equal(targetShape) {
		return grad.Clone()
	}
	if grad.DType() != tensor.Float32 {
		panic(fmt.Sprintf("reduceBroadcast: unsupported dtype %s", grad.DType()))
	}

	result := tensor.MustRaw(targetShape, tensor.Float32, grad.Device())
	dst, src := result.AsFloat32(), grad.AsFloat32()

	// Shapes align from the right; padded and size-1 target dims read stride 0.
	offset := len(gradShape) - len(targetShape)
	if offset < 0 {
		panic(fmt.Sprintf("reduceBroadcast: cannot reduce %v to %v", gradShape, targetShape))
	}
	targetStrides := targetShape.ComputeStrides()
	strides := make([]int, len(gradShape))
	for i := offset; i < len(gradShape); i++ {
		if targetShape[i-offset] != 1 {
			strides[i] = targetStrides[i-offset]
		}
	}

	gradStrides := gradShape.ComputeStrides()
	for i, v := range src {
		rem, idx := i, 0
		for d, s := range gradStrides {
			idx += (rem / s) * strides[d]
			rem %= s
		}
		dst[idx] += v
	}

	return result
}
