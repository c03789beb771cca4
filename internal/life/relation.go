package life

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// RelationMatrix holds the signed interaction coefficient felt by a
// particle of species self (row) from a particle of species other
// (column). It is not required to be symmetric.
//
// Indexing outside [0, Size()) panics.
type RelationMatrix struct {
	m *mat.Dense
}

// NewRelationMatrix returns an n×n matrix filled by seed. It panics if
// n < 1; species counts are validated before they reach the matrix.
func NewRelationMatrix(n int, seed Seeder) *RelationMatrix {
	if n < 1 {
		panic(fmt.Sprintf("life: relation matrix needs at least one species, got %d", n))
	}
	r := &RelationMatrix{m: mat.NewDense(n, n, nil)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r.m.Set(i, j, seed.Coefficient(i, j))
		}
	}
	return r
}

// Size returns the number of species the matrix covers.
func (r *RelationMatrix) Size() int {
	n, _ := r.m.Dims()
	return n
}

// At returns the coefficient for (self, other).
func (r *RelationMatrix) At(self, other int) float64 {
	return r.m.At(self, other)
}

// Set overwrites one coefficient. No clamping is applied.
func (r *RelationMatrix) Set(self, other int, v float64) {
	r.m.Set(self, other, v)
}

// ResizePreserving returns a new n×n matrix. Cells shared with r keep
// their values exactly; every other cell is taken from seed.
func (r *RelationMatrix) ResizePreserving(n int, seed Seeder) *RelationMatrix {
	if n < 1 {
		panic(fmt.Sprintf("life: relation matrix needs at least one species, got %d", n))
	}
	keep := min(n, r.Size())
	out := &RelationMatrix{m: mat.NewDense(n, n, nil)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i < keep && j < keep {
				continue
			}
			out.m.Set(i, j, seed.Coefficient(i, j))
		}
	}
	out.m.Slice(0, keep, 0, keep).(*mat.Dense).Copy(r.m.Slice(0, keep, 0, keep))
	return out
}

// Clone returns a deep copy.
func (r *RelationMatrix) Clone() *RelationMatrix {
	return &RelationMatrix{m: mat.DenseCopyOf(r.m)}
}

// Equal reports whether both matrices have the same size and values.
func (r *RelationMatrix) Equal(o *RelationMatrix) bool {
	return mat.Equal(r.m, o.m)
}

// Rows copies the matrix out row by row.
func (r *RelationMatrix) Rows() [][]float64 {
	n := r.Size()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = mat.Row(nil, i, r.m)
	}
	return rows
}

// RelationMatrixFromRows builds a matrix from a square, non-empty table.
func RelationMatrixFromRows(rows [][]float64) (*RelationMatrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrDimension)
	}
	r := &RelationMatrix{m: mat.NewDense(n, n, nil)}
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrDimension, i, len(row), n)
		}
		r.m.SetRow(i, row)
	}
	return r, nil
}

// MarshalJSON encodes the matrix as a [][]float64 table.
func (r *RelationMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Rows())
}

// UnmarshalJSON decodes a square [][]float64 table.
func (r *RelationMatrix) UnmarshalJSON(data []byte) error {
	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	decoded, err := RelationMatrixFromRows(rows)
	if err != nil {
		return err
	}
	r.m = decoded.m
	return nil
}
