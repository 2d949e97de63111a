// Package tensor provides the HAL tensor type and CPU-bound element-wise
// operations. Tensors carry their shape, element type and a raw
// little-endian byte buffer; typed accessors decode and encode through
// encoding/binary so no unsafe reinterpretation is involved.
package tensor

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// DType enumerates tensor element types.
type DType string

const (
	F32 DType = "f32"
	I32 DType = "i32"
	U8  DType = "u8"
)

// Size returns the size in bytes of one element.
func (d DType) Size() int {
	switch d {
	case F32, I32:
		return 4
	case U8:
		return 1
	default:
		return 0
	}
}

// Valid reports whether d is a known element type.
func (d DType) Valid() bool { return d.Size() > 0 }

var (
	// ErrShapeMismatch is returned when two operands disagree on shape.
	ErrShapeMismatch = errors.New("tensor shapes must match")
	// ErrDTypeMismatch is returned when two operands disagree on element type.
	ErrDTypeMismatch = errors.New("tensor element types must match")
)

// Tensor is a dense multi-dimensional array. Data is stored contiguously in
// little-endian order; len(Data) is always NumElements() * DType.Size().
type Tensor struct {
	Shape []int
	DType DType
	Data  []byte
}

// NewZeros creates a zero-filled tensor of the given shape and element type.
func NewZeros(shape []int, dtype DType) (*Tensor, error) {
	if !dtype.Valid() {
		return nil, fmt.Errorf("unknown element type %q", dtype)
	}
	n := 1
	for _, dim := range shape {
		if dim < 0 {
			return nil, fmt.Errorf("negative dimension %d", dim)
		}
		n *= dim
	}
	return &Tensor{
		Shape: append([]int(nil), shape...),
		DType: dtype,
		Data:  make([]byte, n*dtype.Size()),
	}, nil
}

// NumElements returns the total element count.
func (t *Tensor) NumElements() int {
	n := 1
	for _, dim := range t.Shape {
		n *= dim
	}
	return n
}

// SameShape reports whether t and other have identical shapes.
func (t *Tensor) SameShape(other *Tensor) bool {
	if len(t.Shape) != len(other.Shape) {
		return false
	}
	for i, dim := range t.Shape {
		if other.Shape[i] != dim {
			return false
		}
	}
	return true
}

// FromFloat32s builds an F32 tensor of the given shape from vals.
func FromFloat32s(shape []int, vals []float32) (*Tensor, error) {
	t, err := NewZeros(shape, F32)
	if err != nil {
		return nil, err
	}
	if len(vals) != t.NumElements() {
		return nil, fmt.Errorf("shape %v wants %d elements, got %d", shape, t.NumElements(), len(vals))
	}
	for i, v := range vals {
		binary.LittleEndian.PutUint32(t.Data[i*4:], math.Float32bits(v))
	}
	return t, nil
}

// FromInt32s builds an I32 tensor of the given shape from vals.
func FromInt32s(shape []int, vals []int32) (*Tensor, error) {
	t, err := NewZeros(shape, I32)
	if err != nil {
		return nil, err
	}
	if len(vals) != t.NumElements() {
		return nil, fmt.Errorf("shape %v wants %d elements, got %d", shape, t.NumElements(), len(vals))
	}
	for i, v := range vals {
		binary.LittleEndian.PutUint32(t.Data[i*4:], uint32(v))
	}
	return t, nil
}

// FromUint8s builds a U8 tensor of the given shape from vals.
func FromUint8s(shape []int, vals []uint8) (*Tensor, error) {
	t, err := NewZeros(shape, U8)
	if err != nil {
		return nil, err
	}
	if len(vals) != t.NumElements() {
		return nil, fmt.Errorf("shape %v wants %d elements, got %d", shape, t.NumElements(), len(vals))
	}
	copy(t.Data, vals)
	return t, nil
}

// Float32s decodes the buffer as []float32.
func (t *Tensor) Float32s() ([]float32, error) {
	if t.DType != F32 {
		return nil, fmt.Errorf("tensor is %s, not %s", t.DType, F32)
	}
	out := make([]float32, t.NumElements())
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(t.Data[i*4:]))
	}
	return out, nil
}

// Int32s decodes the buffer as []int32.
func (t *Tensor) Int32s() ([]int32, error) {
	if t.DType != I32 {
		return nil, fmt.Errorf("tensor is %s, not %s", t.DType, I32)
	}
	out := make([]int32, t.NumElements())
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(t.Data[i*4:]))
	}
	return out, nil
}

// Uint8s decodes the buffer as []uint8.
func (t *Tensor) Uint8s() ([]uint8, error) {
	if t.DType != U8 {
		return nil, fmt.Errorf("tensor is %s, not %s", t.DType, U8)
	}
	out := make([]uint8, t.NumElements())
	copy(out, t.Data)
	return out, nil
}

// Ops is the tensor-operation service the HAL exposes. Implementations
// provide specific backends (here, plain CPU loops).
type Ops interface {
	Zeros(shape []int, dtype DType) (*Tensor, error)
	Add(a, b *Tensor) (*Tensor, error)
}

// CPUOps is the CPU-bound implementation of Ops.
type CPUOps struct{}

// NewCPUOps returns the CPU backend.
func NewCPUOps() *CPUOps { return &CPUOps{} }

var _ Ops = (*CPUOps)(nil)

func (o *CPUOps) Zeros(shape []int, dtype DType) (*Tensor, error) {
	return NewZeros(shape, dtype)
}

// Add performs element-wise addition. Operands must agree on shape and
// element type; integer types wrap on overflow.
func (o *CPUOps) Add(a, b *Tensor) (*Tensor, error) {
	if !a.SameShape(b) {
		return nil, ErrShapeMismatch
	}
	if a.DType != b.DType {
		return nil, ErrDTypeMismatch
	}

	switch a.DType {
	case F32:
		as, err := a.Float32s()
		if err != nil {
			return nil, err
		}
		bs, err := b.Float32s()
		if err != nil {
			return nil, err
		}
		sum := make([]float32, len(as))
		for i := range as {
			sum[i] = as[i] + bs[i]
		}
		return FromFloat32s(a.Shape, sum)
	case I32:
		as, err := a.Int32s()
		if err != nil {
			return nil, err
		}
		bs, err := b.Int32s()
		if err != nil {
			return nil, err
		}
		sum := make([]int32, len(as))
		for i := range as {
			sum[i] = as[i] + bs[i]
		}
		return FromInt32s(a.Shape, sum)
	case U8:
		as, err := a.Uint8s()
		if err != nil {
			return nil, err
		}
		bs, err := b.Uint8s()
		if err != nil {
			return nil, err
		}
		sum := make([]uint8, len(as))
		for i := range as {
			sum[i] = as[i] + bs[i]
		}
		return FromUint8s(a.Shape, sum)
	default:
		return nil, fmt.Errorf("unknown element type %q", a.DType)
	}
}
