package nn

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/wordgen/internal/tensor"
)

// Uniform creates a tensor with values drawn from U[lo, hi).
// A nil src uses the global math/rand/v2 source.
//
// Example:
//
//	c := nn.Uniform(tensor.Shape{27, 10}, 0, 1, backend, nil)
func Uniform[B tensor.Backend](shape tensor.Shape, lo, hi float64, backend B, src rand.Source) *tensor.Tensor[float32, B] {
	dist := distuv.Uniform{Min: lo, Max: hi, Src: src}
	return tensor.Generate[float32](shape, backend, func() float32 {
		return float32(dist.Rand())
	})
}

// ScaledNormal creates a tensor with values drawn from N(0, 1) multiplied by gain.
//
// Example:
//
//	// Kaiming-style tanh init: (5/3) / sqrt(fan_in)
//	w1 := nn.ScaledNormal(tensor.Shape{30, 200}, (5.0/3.0)/math.Sqrt(30), backend, src)
func ScaledNormal[B tensor.Backend](shape tensor.Shape, gain float64, backend B, src rand.Source) *tensor.Tensor[float32, B] {
	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	return tensor.Generate[float32](shape, backend, func() float32 {
		return float32(dist.Rand() * gain)
	})
}

// Zeros creates a tensor filled with zeros.
// This is commonly used for bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}
