package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend satisfies Backend for creation tests; only Device is ever called.
type stubBackend struct {
	Backend
}

func (stubBackend) Device() Device { return CPU }

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
		{Int32, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.size, tt.dtype.Size(), tt.dtype.String())
	}
}

func TestShape_NumElementsAndStrides(t *testing.T) {
	s := Shape{2, 3, 4}
	assert.Equal(t, 24, s.NumElements())
	assert.Equal(t, []int{12, 4, 1}, s.ComputeStrides())
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Error(t, Shape{2, 0}.Validate())
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Shape
		want      Shape
		broadcast bool
		wantErr   bool
	}{
		{"same", Shape{3, 5}, Shape{3, 5}, Shape{3, 5}, false, false},
		{"bias", Shape{32, 27}, Shape{27}, Shape{32, 27}, true, false},
		{"column", Shape{3, 1}, Shape{3, 5}, Shape{3, 5}, true, false},
		{"scalar", Shape{4, 2}, Shape{1}, Shape{4, 2}, true, false},
		{"mismatch", Shape{3, 4}, Shape{3, 5}, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, broadcast, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
			assert.Equal(t, tt.broadcast, broadcast)
		})
	}
}

func TestFromSlice(t *testing.T) {
	x, err := FromSlice([]int32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, stubBackend{})
	require.NoError(t, err)
	assert.Equal(t, Int32, x.DType())
	assert.Equal(t, int32(6), x.At(1, 2))
	assert.Equal(t, int32(2), x.At(0, 1))

	_, err = FromSlice([]float32{1, 2}, Shape{3}, stubBackend{})
	assert.Error(t, err)
}

func TestRawTensor_CloneIsDeep(t *testing.T) {
	raw, err := NewRaw(Shape{2, 2}, Float32, CPU)
	require.NoError(t, err)
	raw.AsFloat32()[0] = 1

	clone := raw.Clone()
	clone.AsFloat32()[0] = 5

	assert.Equal(t, float32(1), raw.AsFloat32()[0])
	assert.Equal(t, float32(5), clone.AsFloat32()[0])
}

func TestRawTensor_WithShape(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Int32, CPU)
	require.NoError(t, err)

	view, err := raw.WithShape(Shape{6})
	require.NoError(t, err)
	view.AsInt32()[4] = 9
	assert.Equal(t, int32(9), raw.AsInt32()[4])

	_, err = raw.WithShape(Shape{4})
	assert.Error(t, err)
}

func TestRawTensor_WrongDTypePanics(t *testing.T) {
	raw := MustRaw(Shape{2}, Int32, CPU)
	assert.Panics(t, func() { raw.AsFloat32() })
}

func TestParseDevice(t *testing.T) {
	d, err := ParseDevice(" CPU ")
	require.NoError(t, err)
	assert.Equal(t, CPU, d)

	d, err = ParseDevice("")
	require.NoError(t, err)
	assert.Equal(t, CPU, d)

	_, err = ParseDevice("cuda")
	assert.ErrorIs(t, err, ErrUnsupportedDevice)

	_, err = ParseDevice("tpu")
	assert.ErrorIs(t, err, ErrUnsupportedDevice)
}

func TestGenerateAndFull(t *testing.T) {
	n := float32(0)
	g := Generate[float32](Shape{2, 2}, stubBackend{}, func() float32 {
		n++
		return n
	})
	assert.Equal(t, []float32{1, 2, 3, 4}, g.Data())

	f := Full[float32](Shape{3}, 0.5, stubBackend{})
	assert.Equal(t, []float32{0.5, 0.5, 0.5}, f.Data())
	assert.Equal(t, "Tensor[float32][3] on CPU", f.String())
}
