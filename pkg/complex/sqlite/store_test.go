package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/matzehuels/simplexsight/pkg/complex"
	"github.com/matzehuels/simplexsight/pkg/errors"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "complexes.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestImportAndRead(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	src := complex.New(complex.S(2), complex.S(1), complex.Simplex{complex.Str("a"), complex.Int(1)}, complex.S(0, 1, 2))
	id, err := store.Import(ctx, "mixed", src)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if id == "" {
		t.Fatal("Import returned empty id")
	}

	r := store.Complex(id)
	dim, err := r.Dimension(ctx)
	if err != nil {
		t.Fatalf("Dimension: %v", err)
	}
	if dim != 2 {
		t.Errorf("Dimension = %d, want 2", dim)
	}

	vertices, err := r.Simplices(ctx, 0)
	if err != nil {
		t.Fatalf("Simplices(0): %v", err)
	}
	if len(vertices) != 2 || vertices[0].String() != "(2)" || vertices[1].String() != "(1)" {
		t.Errorf("vertices = %v, want [(2) (1)] in insertion order", vertices)
	}

	edges, _ := r.Simplices(ctx, 1)
	if len(edges) != 1 || !edges[0][0].IsString() {
		t.Errorf("edges = %v, want one edge starting with a string token", edges)
	}

	none, err := r.Simplices(ctx, 3)
	if err != nil || len(none) != 0 {
		t.Errorf("Simplices(3) = %v, %v; want empty", none, err)
	}
}

func TestImportFanCounts(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	id, err := store.Import(ctx, "fan", complex.Fan(6))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	counts, err := complex.Counts(ctx, store.Complex(id))
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	want := []int{7, 12, 6}
	for i := range want {
		if counts[i] != want[i] {
			t.Fatalf("counts = %v, want %v", counts, want)
		}
	}
}

func TestUnknownComplex(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Complex("missing").Dimension(context.Background())
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	id, err := store.Import(ctx, "tet", complex.SolidTetrahedron())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	infos, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 || infos[0].ID != id || infos[0].Name != "tet" {
		t.Errorf("List = %+v", infos)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, id); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("second Delete err = %v, want NOT_FOUND", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Open(blank) err = %v, want INVALID_PATH", err)
	}
}
