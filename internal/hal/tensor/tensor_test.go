package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewZeros(t *testing.T) {
	tn, err := NewZeros([]int{2, 3}, F32)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, tn.Shape)
	assert.Equal(t, F32, tn.DType)
	assert.Len(t, tn.Data, 2*3*4)
	for _, b := range tn.Data {
		assert.Zero(t, b)
	}
}

func TestNewZeros_Invalid(t *testing.T) {
	_, err := NewZeros([]int{2, -1}, F32)
	assert.Error(t, err)

	_, err = NewZeros([]int{2}, DType("f64"))
	assert.Error(t, err)
}

func TestRoundTripAccessors(t *testing.T) {
	f, err := FromFloat32s([]int{2, 2}, []float32{1, 2, 3, 4})
	require.NoError(t, err)
	fs, err := f.Float32s()
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4}, fs)

	i, err := FromInt32s([]int{3}, []int32{-1, 0, 7})
	require.NoError(t, err)
	is, err := i.Int32s()
	require.NoError(t, err)
	assert.Equal(t, []int32{-1, 0, 7}, is)

	u, err := FromUint8s([]int{2}, []uint8{250, 6})
	require.NoError(t, err)
	us, err := u.Uint8s()
	require.NoError(t, err)
	assert.Equal(t, []uint8{250, 6}, us)

	// Wrong-typed accessor is rejected.
	_, err = f.Int32s()
	assert.Error(t, err)
}

func TestFrom_WrongElementCount(t *testing.T) {
	_, err := FromFloat32s([]int{2, 2}, []float32{1, 2, 3})
	assert.Error(t, err)
}

func TestCPUOps_AddF32(t *testing.T) {
	ops := NewCPUOps()
	a, _ := FromFloat32s([]int{2, 2}, []float32{1, 2, 3, 4})
	b, _ := FromFloat32s([]int{2, 2}, []float32{5, 6, 7, 8})

	sum, err := ops.Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, sum.Shape)
	assert.Equal(t, F32, sum.DType)

	vals, err := sum.Float32s()
	require.NoError(t, err)
	assert.Equal(t, []float32{6, 8, 10, 12}, vals)
}

func TestCPUOps_AddI32(t *testing.T) {
	ops := NewCPUOps()
	a, _ := FromInt32s([]int{3}, []int32{1, -2, 3})
	b, _ := FromInt32s([]int{3}, []int32{10, 20, -30})

	sum, err := ops.Add(a, b)
	require.NoError(t, err)
	vals, err := sum.Int32s()
	require.NoError(t, err)
	assert.Equal(t, []int32{11, 18, -27}, vals)
}

func TestCPUOps_AddU8_Wraps(t *testing.T) {
	ops := NewCPUOps()
	a, _ := FromUint8s([]int{2}, []uint8{250, 1})
	b, _ := FromUint8s([]int{2}, []uint8{10, 2})

	sum, err := ops.Add(a, b)
	require.NoError(t, err)
	vals, err := sum.Uint8s()
	require.NoError(t, err)
	assert.Equal(t, []uint8{4, 3}, vals)
}

func TestCPUOps_AddMismatches(t *testing.T) {
	ops := NewCPUOps()

	a, _ := NewZeros([]int{2, 2}, F32)
	b, _ := NewZeros([]int{2, 3}, F32)
	_, err := ops.Add(a, b)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	c, _ := NewZeros([]int{2, 2}, I32)
	_, err = ops.Add(a, c)
	assert.ErrorIs(t, err, ErrDTypeMismatch)
}

func TestCPUOps_Zeros(t *testing.T) {
	ops := NewCPUOps()
	tn, err := ops.Zeros([]int{4}, U8)
	require.NoError(t, err)
	assert.Len(t, tn.Data, 4)
}
