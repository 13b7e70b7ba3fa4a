// Package geometry provides the rigid-body transformations and the
// residue-residue distance computations used by the alignment domain.
// Transformations are 4x4 homogeneous matrices in row-major layout,
//
//	[ R | t ]
//	[ 0 | 1 ]
//
// with R a 3x3 rotation and t a translation in ångströms.
package geometry

import (
	"gonum.org/v1/gonum/mat"

	"github.com/turtacn/StructAlign/internal/domain/structure"
	"github.com/turtacn/StructAlign/pkg/errors"
)

// transformDim is the order of a homogeneous transformation matrix.
const transformDim = 4

// identityEpsilon bounds the element-wise deviation tolerated by IsIdentity.
const identityEpsilon = 1e-12

// IdentityTransform returns a fresh 4x4 identity matrix.  The identity is the
// reference frame of structure 0 and the safe substitute whenever a segment
// transformation is missing or malformed.
func IdentityTransform() *mat.Dense {
	t := mat.NewDense(transformDim, transformDim, nil)
	for i := 0; i < transformDim; i++ {
		t.Set(i, i, 1)
	}
	return t
}

// NewTransform assembles a 4x4 homogeneous transformation from a 3x3 rotation
// and a length-3 shift vector.  It returns a GEO_* error when either part has
// the wrong shape; it never silently substitutes the identity, that decision
// belongs to the caller.
func NewTransform(rot mat.Matrix, shift []float64) (*mat.Dense, error) {
	if rot == nil {
		return nil, errors.New(errors.ErrCodeMalformedRotation, "rotation matrix is nil")
	}
	r, c := rot.Dims()
	if r != 3 || c != 3 {
		return nil, errors.New(errors.ErrCodeMalformedRotation, "rotation matrix is not 3x3").
			WithDetailf("got %dx%d", r, c)
	}
	if len(shift) != 3 {
		return nil, errors.New(errors.ErrCodeMalformedShift, "shift vector does not have 3 components").
			WithDetailf("got %d", len(shift))
	}

	t := IdentityTransform()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t.Set(i, j, rot.At(i, j))
		}
		t.Set(i, 3, shift[i])
	}
	return t, nil
}

// CloneTransform returns an independent copy of t.
func CloneTransform(t mat.Matrix) *mat.Dense {
	if t == nil {
		return nil
	}
	return mat.DenseCopyOf(t)
}

// IsIdentity reports whether t is a 4x4 matrix equal to the identity within
// a tight tolerance.
func IsIdentity(t mat.Matrix) bool {
	if t == nil {
		return false
	}
	r, c := t.Dims()
	if r != transformDim || c != transformDim {
		return false
	}
	return mat.EqualApprox(t, IdentityTransform(), identityEpsilon)
}

// Compose returns the transformation equivalent to applying b first, then a.
// Both inputs must be 4x4.
func Compose(a, b mat.Matrix) (*mat.Dense, error) {
	if err := checkTransformDims(a); err != nil {
		return nil, err
	}
	if err := checkTransformDims(b); err != nil {
		return nil, err
	}
	out := mat.NewDense(transformDim, transformDim, nil)
	out.Mul(a, b)
	return out, nil
}

// ApplyTransform applies a 4x4 homogeneous transformation to every atom of
// arr and returns the transformed copy.  The input array is not modified.
func ApplyTransform(t mat.Matrix, arr structure.AtomArray) (structure.AtomArray, error) {
	if err := checkTransformDims(t); err != nil {
		return nil, err
	}
	out := arr.Clone()
	for i := range out {
		x, y, z := out[i].Coords[0], out[i].Coords[1], out[i].Coords[2]
		out[i].Coords[0] = t.At(0, 0)*x + t.At(0, 1)*y + t.At(0, 2)*z + t.At(0, 3)
		out[i].Coords[1] = t.At(1, 0)*x + t.At(1, 1)*y + t.At(1, 2)*z + t.At(1, 3)
		out[i].Coords[2] = t.At(2, 0)*x + t.At(2, 1)*y + t.At(2, 2)*z + t.At(2, 3)
	}
	return out, nil
}

func checkTransformDims(t mat.Matrix) error {
	if t == nil {
		return errors.New(errors.ErrCodeMalformedTransform, "transformation is nil")
	}
	r, c := t.Dims()
	if r != transformDim || c != transformDim {
		return errors.New(errors.ErrCodeMalformedTransform, "malformed transformation").
			WithDetailf("want %dx%d, got %dx%d", transformDim, transformDim, r, c)
	}
	return nil
}
