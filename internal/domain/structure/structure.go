// Package structure provides the representative-atom model shared by the
// alignment domain.  A structure is identified by an opaque StructureID and
// materialises as an AtomArray, the ordered list of representative atoms
// (typically the alpha carbons) that all geometric computations run on.
package structure

// StructureID is the opaque key under which a structure is known to the
// structure store.  The alignment domain never interprets its contents; two
// identifiers are the same structure exactly when the strings are equal.
type StructureID string

func (id StructureID) String() string { return string(id) }

// IsZero reports whether the identifier is empty.
func (id StructureID) IsZero() bool { return id == "" }

// Atom is one representative atom of a structure.  ResSeq is the residue
// sequence position the atom represents; Coords are orthogonal coordinates
// in ångströms.
type Atom struct {
	Name   string     `json:"name"`
	ResSeq int        `json:"res_seq"`
	Coords [3]float64 `json:"coords"`
}

// AtomArray is the ordered list of representative atoms of one structure.
// Arrays are treated as immutable once attached to an ensemble: holders share
// them by reference and never mutate elements in place.
type AtomArray []Atom

// Len returns the number of atoms.
func (a AtomArray) Len() int { return len(a) }

// Clone returns an independent copy of the array.  Use it before mutating
// coordinates, e.g. when applying a superposition transform.
func (a AtomArray) Clone() AtomArray {
	if a == nil {
		return nil
	}
	out := make(AtomArray, len(a))
	copy(out, a)
	return out
}

// Centroid returns the arithmetic mean of all atom coordinates.
// The zero vector is returned for an empty array.
func (a AtomArray) Centroid() [3]float64 {
	var c [3]float64
	if len(a) == 0 {
		return c
	}
	for _, at := range a {
		c[0] += at.Coords[0]
		c[1] += at.Coords[1]
		c[2] += at.Coords[2]
	}
	n := float64(len(a))
	c[0] /= n
	c[1] /= n
	c[2] /= n
	return c
}
