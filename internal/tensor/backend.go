package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations panic on shape or dtype violations; callers that need to
// survive a failing operation recover at their own boundary.
type Backend interface {
	// Element-wise binary operations (NumPy-style broadcasting)
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor

	// Matrix operations
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Scalar operations (element-wise with scalar)
	MulScalar(x *RawTensor, scalar any) *RawTensor

	// Activation functions
	Tanh(x *RawTensor) *RawTensor
	Softmax(x *RawTensor, dim int) *RawTensor // softmax along dimension

	// Reduction operations
	CumSum(x *RawTensor, dim int) *RawTensor // running sum along dimension

	// Indexing operations
	Embedding(weight, indices *RawTensor) *RawTensor // lookup rows of weight by indices
	IndexSelect(x, indices *RawTensor) *RawTensor    // select rows (dim 0) of x

	// Metadata
	Name() string
	Device() Device
}
