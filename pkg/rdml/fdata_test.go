package rdml

import (
	"reflect"
	"testing"
)

// newCurveDocument builds a document whose three reactions carry ragged
// amplification curves: 3 cycles, 5 cycles, and 4 readings with a hole at
// cycle 4.
func newCurveDocument(t *testing.T) *Document {
	t.Helper()
	doc := New()
	dye, _ := NewDye("SYBR")
	doc.Dyes.Set(dye)
	sample, _ := NewSample("s1", SampleUnknown)
	doc.Samples.Set(sample)
	target, _ := NewTarget("gene1", TargetOfInterest, "SYBR")
	doc.Targets.Set(target)

	curves := map[string][]AmplificationDataPoint{
		"1": {{Cycle: 1, Fluor: 1.0}, {Cycle: 2, Fluor: 1.1}, {Cycle: 3, Fluor: 1.2}},
		"2": {{Cycle: 1, Fluor: 2.0}, {Cycle: 2, Fluor: 2.1}, {Cycle: 3, Fluor: 2.2}, {Cycle: 4, Fluor: 2.3}, {Cycle: 5, Fluor: 2.4}},
		"3": {{Cycle: 1, Fluor: 3.0}, {Cycle: 2, Fluor: 3.1}, {Cycle: 3, Fluor: 3.2}, {Cycle: 5, Fluor: 3.4}},
	}
	run := Run{ID: "run1"}
	for _, id := range []string{"1", "2", "3"} {
		react := React{ID: id, SampleRef: "s1"}
		react.Data.Set(ReactData{TargetRef: "gene1", Adps: curves[id]})
		run.Reacts.Set(react)
	}
	exp := Experiment{ID: "exp1"}
	exp.Runs.Set(run)
	doc.Experiments.Set(exp)

	if err := doc.Validate(); err != nil {
		t.Fatalf("fixture must validate: %v", err)
	}
	return doc
}

func TestFDataWideUnionAxisAndPadding(t *testing.T) {
	doc := newCurveDocument(t)
	table := doc.Table()
	m := table.FData(doc, FDataAmplification)

	if !floatsEqual(m.Cycles, []float64{1, 2, 3, 4, 5}) {
		t.Fatalf("axis = %v, want sorted union 1..5", m.Cycles)
	}
	want := []string{"exp1_run1_1_gene1", "exp1_run1_2_gene1", "exp1_run1_3_gene1"}
	if !reflect.DeepEqual(m.Names, want) {
		t.Fatalf("columns %v, want %v", m.Names, want)
	}

	short, _ := m.Column("exp1_run1_1_gene1")
	if short[3] != nil || short[4] != nil {
		t.Fatalf("short curve must be nil-padded past cycle 3: %v", short)
	}
	if short[0] == nil || *short[0] != 1.0 {
		t.Fatalf("short curve values wrong: %v", short)
	}

	full, _ := m.Column("exp1_run1_2_gene1")
	for i, v := range full {
		if v == nil {
			t.Fatalf("full curve has unexpected nil at axis index %d", i)
		}
	}

	gapped, _ := m.Column("exp1_run1_3_gene1")
	if gapped[3] != nil {
		t.Fatalf("missing reading at cycle 4 must stay nil, got %v", *gapped[3])
	}
	if gapped[4] == nil || *gapped[4] != 3.4 {
		t.Fatalf("reading after the gap lost: %v", gapped)
	}

	if _, ok := m.Column("nope"); ok {
		t.Fatalf("unknown column lookup must fail")
	}
}

func TestFDataLong(t *testing.T) {
	doc := newCurveDocument(t)
	points := doc.Table().FDataLong(doc, FDataAmplification)
	if len(points) != 12 {
		t.Fatalf("expected 12 points (3+5+4), got %d", len(points))
	}
	// Long form carries no padding: every point is a real reading.
	for _, p := range points {
		if p.Name == "exp1_run1_3_gene1" && p.Cycle == 4 {
			t.Fatalf("hole at cycle 4 must not appear in long form")
		}
	}
	if points[0].Name != "exp1_run1_1_gene1" || points[0].Cycle != 1 || points[0].Fluor != 1.0 {
		t.Fatalf("long form order wrong: %+v", points[0])
	}
}

func TestSetFDataReconstructsTree(t *testing.T) {
	src := newCurveDocument(t)
	table := src.Table()
	m := table.FData(src, FDataAmplification)

	// Inject into an empty tree: every experiment, run, reaction, and data
	// entry on the path must be created.
	dst := New()
	if err := table.SetFData(dst, m, FDataAmplification); err != nil {
		t.Fatalf("set fdata: %v", err)
	}

	round := table.FData(dst, FDataAmplification)
	if !floatsEqual(round.Cycles, m.Cycles) {
		t.Fatalf("axis changed in round trip: %v != %v", round.Cycles, m.Cycles)
	}
	for _, name := range m.Names {
		want, _ := m.Column(name)
		got, ok := round.Column(name)
		if !ok {
			t.Fatalf("column %s lost", name)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("column %s changed: %v != %v", name, got, want)
		}
	}

	// Padding must not become a measurement: the gapped curve keeps 4 points.
	data, ok := dst.reactData("exp1", "run1", "3", "gene1")
	if !ok {
		t.Fatalf("auto-vivified path missing")
	}
	if len(data.Adps) != 4 {
		t.Fatalf("nil padding materialized: %v", data.Adps)
	}
	react, _ := func() (React, bool) {
		exp, _ := dst.Experiments.Get("exp1")
		run, _ := exp.Runs.Get("run1")
		return run.Reacts.Get("3")
	}()
	if react.SampleRef != "s1" {
		t.Fatalf("sample ref not carried from descriptor row: %q", react.SampleRef)
	}
}

func TestSetFDataOverwritesExistingCurve(t *testing.T) {
	doc := newCurveDocument(t)
	table := doc.Table()
	m := table.FData(doc, FDataAmplification)

	// Scale one column and write the matrix back over the same tree.
	for i := range m.Cycles {
		if v := m.Values[i][0]; v != nil {
			*v *= 10
		}
	}
	if err := table.SetFData(doc, m, FDataAmplification); err != nil {
		t.Fatalf("set fdata: %v", err)
	}
	data, _ := doc.reactData("exp1", "run1", "1", "gene1")
	if len(data.Adps) != 3 || data.Adps[0].Fluor != 10.0 {
		t.Fatalf("curve not overwritten: %v", data.Adps)
	}
}

func TestSetFDataUnknownColumnLeavesTreeUntouched(t *testing.T) {
	doc := newCurveDocument(t)
	table := doc.Table()
	m := table.FData(doc, FDataAmplification)
	m.Names[1] = "no_such_row"

	before, _ := doc.reactData("exp1", "run1", "1", "gene1")
	err := table.SetFData(doc, m, FDataAmplification)
	if err == nil {
		t.Fatalf("expected unknown column error")
	}
	uce, ok := err.(*UnknownColumnError)
	if !ok || uce.Column != "no_such_row" {
		t.Fatalf("got %v, want *UnknownColumnError for no_such_row", err)
	}
	after, _ := doc.reactData("exp1", "run1", "1", "gene1")
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("tree mutated despite rejected matrix")
	}
}

func TestFDataMeltCurves(t *testing.T) {
	doc := newCurveDocument(t)
	exp, _ := doc.Experiments.Get("exp1")
	run, _ := exp.Runs.Get("run1")
	react, _ := run.Reacts.Get("1")
	data, _ := react.Data.Get("gene1")
	data.Mdps = []MeltingDataPoint{{Temperature: 65.0, Fluor: 9.1}, {Temperature: 65.5, Fluor: 8.7}}
	react.Data.Set(data)
	run.Reacts.Set(react)
	exp.Runs.Set(run)
	doc.Experiments.Set(exp)

	table := doc.Table()
	m := table.FData(doc, FDataMelt)
	if !floatsEqual(m.Cycles, []float64{65.0, 65.5}) {
		t.Fatalf("melt axis = %v", m.Cycles)
	}
	col, _ := m.Column("exp1_run1_1_gene1")
	if col[0] == nil || *col[0] != 9.1 {
		t.Fatalf("melt readings wrong: %v", col)
	}
	// Reactions without melt data are all-nil columns, not absent ones.
	col2, ok := m.Column("exp1_run1_2_gene1")
	if !ok {
		t.Fatalf("curve-less reaction lost its column")
	}
	for _, v := range col2 {
		if v != nil {
			t.Fatalf("expected all-nil column, got %v", col2)
		}
	}
}
