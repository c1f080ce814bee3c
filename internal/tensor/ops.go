package tensor

// Add performs element-wise addition with broadcasting.
//
// Example:
//
//	h := x.MatMul(w1).Add(b1) // [N, H] + [H] → [N, H]
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	result := t.backend.Add(t.raw, other.raw)
	return New[T, B](result, t.backend)
}

// Sub performs element-wise subtraction with broadcasting.
func (t *Tensor[T, B]) Sub(other *Tensor[T, B]) *Tensor[T, B] {
	result := t.backend.Sub(t.raw, other.raw)
	return New[T, B](result, t.backend)
}

// Mul performs element-wise multiplication with broadcasting.
func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	result := t.backend.Mul(t.raw, other.raw)
	return New[T, B](result, t.backend)
}

// MulScalar multiplies every element by scalar.
func (t *Tensor[T, B]) MulScalar(scalar T) *Tensor[T, B] {
	result := t.backend.MulScalar(t.raw, scalar)
	return New[T, B](result, t.backend)
}

// MatMul performs matrix multiplication: (M, K) @ (K, N) → (M, N).
func (t *Tensor[T, B]) MatMul(other *Tensor[T, B]) *Tensor[T, B] {
	result := t.backend.MatMul(t.raw, other.raw)
	return New[T, B](result, t.backend)
}

// Reshape returns a tensor with the same data but different shape.
// The new shape must have the same number of elements.
//
// Example:
//
//	emb := c.Embedding(x)              // [N, block, E]
//	flat := emb.Reshape(n, block*e)    // [N, block*E]
func (t *Tensor[T, B]) Reshape(newShape ...int) *Tensor[T, B] {
	result := t.backend.Reshape(t.raw, Shape(newShape))
	return New[T, B](result, t.backend)
}

// Transpose transposes the tensor by permuting its dimensions.
// If axes is empty, reverses all dimensions.
func (t *Tensor[T, B]) Transpose(axes ...int) *Tensor[T, B] {
	result := t.backend.Transpose(t.raw, axes...)
	return New[T, B](result, t.backend)
}

// Tanh applies the hyperbolic tangent element-wise.
func (t *Tensor[T, B]) Tanh() *Tensor[T, B] {
	result := t.backend.Tanh(t.raw)
	return New[T, B](result, t.backend)
}

// Softmax applies softmax along dim (negative values count from the end).
func (t *Tensor[T, B]) Softmax(dim int) *Tensor[T, B] {
	result := t.backend.Softmax(t.raw, dim)
	return New[T, B](result, t.backend)
}

// CumSum returns the running sum along dim (negative values count from the end).
//
// Example:
//
//	probs := []float32{0.2, 0.3, 0.5}
//	cdf := p.CumSum(-1) // [0.2, 0.5, 1.0]
func (t *Tensor[T, B]) CumSum(dim int) *Tensor[T, B] {
	result := t.backend.CumSum(t.raw, dim)
	return New[T, B](result, t.backend)
}

// Embedding looks up rows of t (shape [V, E]) for every index.
// The result has shape indices.Shape() + [E].
func (t *Tensor[T, B]) Embedding(indices *Tensor[int32, B]) *Tensor[T, B] {
	result := t.backend.Embedding(t.raw, indices.raw)
	return New[T, B](result, t.backend)
}

// IndexSelect gathers rows (dimension 0) of t.
//
// Example:
//
//	batch := inputs.IndexSelect(rows) // [len(rows), block]
func (t *Tensor[T, B]) IndexSelect(indices *Tensor[int32, B]) *Tensor[T, B] {
	result := t.backend.IndexSelect(t.raw, indices.raw)
	return New[T, B](result, t.backend)
}
