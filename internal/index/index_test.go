package index

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"rdmlcore/pkg/rdml"
)

func sampleRows() []rdml.Row {
	return []rdml.Row{
		{FDataName: "exp1_run1_1_gene1", ExperimentID: "exp1", RunID: "run1", ReactID: "1", Position: "A1", SampleID: "s1", SampleType: rdml.SampleUnknown, TargetID: "gene1", TargetType: rdml.TargetOfInterest, DyeID: "SYBR", Cq: rdml.Float(21.4)},
		{FDataName: "exp1_run1_2_gene1", ExperimentID: "exp1", RunID: "run1", ReactID: "2", Position: "A2", SampleID: "s2", SampleType: rdml.SampleNoTemplateControl, TargetID: "gene1", TargetType: rdml.TargetOfInterest, DyeID: "SYBR"},
	}
}

// exerciseIndex runs the shared contract against any backend.
func exerciseIndex(t *testing.T, idx Index) {
	t.Helper()
	ctx := context.Background()

	if err := idx.ReplaceDocument(ctx, "docA", sampleRows()); err != nil {
		t.Fatalf("replace: %v", err)
	}
	rows, err := idx.Rows(ctx, "docA")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if !reflect.DeepEqual(rows, sampleRows()) {
		t.Fatalf("rows round trip changed data:\n%+v\n%+v", rows, sampleRows())
	}

	// replace swaps the whole set
	if err := idx.ReplaceDocument(ctx, "docA", sampleRows()[:1]); err != nil {
		t.Fatalf("replace again: %v", err)
	}
	rows, err = idx.Rows(ctx, "docA")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("replace did not swap the row set: %d rows", len(rows))
	}

	if err := idx.ReplaceDocument(ctx, "docB", sampleRows()); err != nil {
		t.Fatalf("replace docB: %v", err)
	}
	keys, err := idx.Documents(ctx)
	if err != nil {
		t.Fatalf("documents: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"docA", "docB"}) {
		t.Fatalf("document keys %v", keys)
	}

	absent, err := idx.Rows(ctx, "nope")
	if err != nil {
		t.Fatalf("rows absent: %v", err)
	}
	if len(absent) != 0 {
		t.Fatalf("absent document returned rows: %v", absent)
	}

	ok, err := idx.DeleteDocument(ctx, "docA")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	ok, err = idx.DeleteDocument(ctx, "docA")
	if err != nil || ok {
		t.Fatalf("second delete should be false")
	}
}

func TestMemoryIndex(t *testing.T) {
	idx := NewMemory()
	defer func() { _ = idx.Close() }()
	exerciseIndex(t, idx)
}

func TestSQLiteIndex(t *testing.T) {
	idx, err := NewSQLite(filepath.Join(t.TempDir(), "idx", "rows.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer func() { _ = idx.Close() }()
	exerciseIndex(t, idx)
}

func TestMemoryIndexCopiesRows(t *testing.T) {
	ctx := context.Background()
	idx := NewMemory()
	rows := sampleRows()
	if err := idx.ReplaceDocument(ctx, "doc", rows); err != nil {
		t.Fatalf("replace: %v", err)
	}
	rows[0].FDataName = "mutated"
	got, err := idx.Rows(ctx, "doc")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if got[0].FDataName != "exp1_run1_1_gene1" {
		t.Fatalf("stored rows alias the caller slice")
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	t.Setenv("RDMLCORE_INDEX_DRIVER", "memory")
	idx, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := idx.(*Memory); !ok {
		t.Fatalf("expected memory index, got %T", idx)
	}

	t.Setenv("RDMLCORE_INDEX_DRIVER", "bogus")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}
