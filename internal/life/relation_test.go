package life

import (
	"errors"
	"math/rand/v2"
	"path/filepath"
	"testing"
)

// countingSeeder hands out 1, 2, 3, ... so tests can tell fresh cells apart.
type countingSeeder struct{ next float64 }

func (s *countingSeeder) Coefficient(self, other int) float64 {
	s.next++
	return s.next
}

func TestNewRelationMatrix_Zero(t *testing.T) {
	m := NewRelationMatrix(4, ZeroSeeder{})
	if m.Size() != 4 {
		t.Fatalf("Expected size 4, got %d", m.Size())
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if v := m.At(i, j); v != 0 {
				t.Errorf("Expected 0 at (%d, %d), got %v", i, j, v)
			}
		}
	}
}

func TestNewRelationMatrix_PanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for zero species")
		}
	}()
	NewRelationMatrix(0, ZeroSeeder{})
}

func TestRelationMatrix_SetIsAsymmetric(t *testing.T) {
	m := NewRelationMatrix(3, ZeroSeeder{})
	m.Set(0, 2, 0.15)
	m.Set(2, 0, -0.4)

	if got := m.At(0, 2); got != 0.15 {
		t.Errorf("Expected 0.15 at (0, 2), got %v", got)
	}
	if got := m.At(2, 0); got != -0.4 {
		t.Errorf("Expected -0.4 at (2, 0), got %v", got)
	}
	// No clamping: out-of-range values are stored verbatim.
	m.Set(1, 1, 7)
	if got := m.At(1, 1); got != 7 {
		t.Errorf("Expected 7 at (1, 1), got %v", got)
	}
}

func TestRelationMatrix_OutOfRangePanics(t *testing.T) {
	m := NewRelationMatrix(2, ZeroSeeder{})
	cases := []struct {
		name        string
		self, other int
	}{
		{"row past end", 2, 0},
		{"column past end", 0, 2},
		{"negative row", -1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Expected panic for (%d, %d)", tc.self, tc.other)
				}
			}()
			m.At(tc.self, tc.other)
		})
	}
}

func TestResizePreserving_SameSize(t *testing.T) {
	m := NewRelationMatrix(3, UniformSeeder{Range: 0.5, Rand: rand.New(rand.NewPCG(1, 2))})
	out := m.ResizePreserving(3, &countingSeeder{})

	if !out.Equal(m) {
		t.Errorf("Expected identical matrix, got %v want %v", out.Rows(), m.Rows())
	}
	out.Set(0, 0, 99)
	if m.At(0, 0) == 99 {
		t.Error("Expected resize to return an independent matrix")
	}
}

func TestResizePreserving_Grow(t *testing.T) {
	m := NewRelationMatrix(2, ZeroSeeder{})
	m.Set(0, 0, 0.1)
	m.Set(0, 1, -0.2)
	m.Set(1, 0, 0.3)
	m.Set(1, 1, -0.4)

	out := m.ResizePreserving(4, ZeroSeeder{})
	if out.Size() != 4 {
		t.Fatalf("Expected size 4, got %d", out.Size())
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := 0.0
			if i < 2 && j < 2 {
				want = m.At(i, j)
			}
			if got := out.At(i, j); got != want {
				t.Errorf("(%d, %d): expected %v, got %v", i, j, want, got)
			}
		}
	}
}

func TestResizePreserving_GrowUsesSeederForNewCellsOnly(t *testing.T) {
	m := NewRelationMatrix(2, ZeroSeeder{})
	out := m.ResizePreserving(3, &countingSeeder{})

	// 9 cells, 4 preserved: the seeder must be asked exactly 5 times.
	fresh := 0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i < 2 && j < 2 {
				if out.At(i, j) != 0 {
					t.Errorf("Preserved cell (%d, %d) was overwritten: %v", i, j, out.At(i, j))
				}
				continue
			}
			if out.At(i, j) == 0 {
				t.Errorf("Fresh cell (%d, %d) was not seeded", i, j)
			}
			fresh++
		}
	}
	if fresh != 5 {
		t.Errorf("Expected 5 fresh cells, got %d", fresh)
	}
}

func TestResizePreserving_Shrink(t *testing.T) {
	m := NewRelationMatrix(4, &countingSeeder{})
	out := m.ResizePreserving(2, ZeroSeeder{})

	if out.Size() != 2 {
		t.Fatalf("Expected size 2, got %d", out.Size())
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if out.At(i, j) != m.At(i, j) {
				t.Errorf("(%d, %d): expected %v, got %v", i, j, m.At(i, j), out.At(i, j))
			}
		}
	}
}

func TestRelationMatrixFromRows_RejectsNonSquare(t *testing.T) {
	if _, err := RelationMatrixFromRows([][]float64{{1, 2}, {3}}); !errors.Is(err, ErrDimension) {
		t.Errorf("Expected ErrDimension for ragged table, got %v", err)
	}
	if _, err := RelationMatrixFromRows(nil); !errors.Is(err, ErrDimension) {
		t.Errorf("Expected ErrDimension for empty table, got %v", err)
	}
}

func TestSaveLoadRelations(t *testing.T) {
	m := NewRelationMatrix(3, UniformSeeder{Range: 0.2, Quantize: true, Rand: rand.New(rand.NewPCG(7, 7))})
	path := filepath.Join(t.TempDir(), "relations.json")

	if err := SaveRelations(path, m); err != nil {
		t.Fatalf("SaveRelations failed: %v", err)
	}
	loaded, err := LoadRelations(path)
	if err != nil {
		t.Fatalf("LoadRelations failed: %v", err)
	}
	if !loaded.Equal(m) {
		t.Errorf("Expected %v, got %v", m.Rows(), loaded.Rows())
	}
}

func TestLoadRelations_MissingFile(t *testing.T) {
	if _, err := LoadRelations(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}
