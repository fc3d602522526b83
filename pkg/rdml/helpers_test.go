package rdml

import "testing"

// newTestDocument builds a small but fully cross-linked document: one dye,
// two samples, two targets, a thermal program, and a single run on a
// 96-well plate with two reactions.
func newTestDocument(t *testing.T) *Document {
	t.Helper()
	doc := New()

	dye, err := NewDye("SYBR")
	if err != nil {
		t.Fatalf("NewDye: %v", err)
	}
	doc.Dyes.Set(dye)

	for _, s := range []struct {
		id  string
		typ SampleType
	}{{"s1", SampleUnknown}, {"s2", SampleNoTemplateControl}} {
		sample, err := NewSample(s.id, s.typ)
		if err != nil {
			t.Fatalf("NewSample(%s): %v", s.id, err)
		}
		doc.Samples.Set(sample)
	}

	for _, tg := range []struct {
		id  string
		typ TargetType
	}{{"gene1", TargetOfInterest}, {"ref1", TargetReference}} {
		target, err := NewTarget(tg.id, tg.typ, "SYBR")
		if err != nil {
			t.Fatalf("NewTarget(%s): %v", tg.id, err)
		}
		doc.Targets.Set(target)
	}

	tcc, err := NewThermalCyclingConditions("tcc1",
		Step{Number: 1, Action: TemperatureStep{Temperature: 95, Duration: 300}},
		Step{Number: 2, Action: TemperatureStep{Temperature: 60, Duration: 30, Measure: String("real time")}},
		Step{Number: 3, Action: LoopStep{Goto: 2, Repeat: 39}},
	)
	if err != nil {
		t.Fatalf("NewThermalCyclingConditions: %v", err)
	}
	doc.ThermalCyclingConditions.Set(tcc)

	react1 := React{ID: "1", SampleRef: "s1"}
	react1.Data.Set(ReactData{
		TargetRef: "gene1",
		Cq:        Float(21.4),
		Adps: []AmplificationDataPoint{
			{Cycle: 1, Fluor: 1.01},
			{Cycle: 2, Fluor: 1.05},
			{Cycle: 3, Fluor: 1.31},
		},
	})
	react1.Data.Set(ReactData{TargetRef: "ref1", Cq: Float(18.2)})

	react13 := React{ID: "13", SampleRef: "s2"}
	react13.Data.Set(ReactData{
		TargetRef: "gene1",
		Adps: []AmplificationDataPoint{
			{Cycle: 1, Fluor: 0.99},
			{Cycle: 2, Fluor: 1.0},
		},
	})

	run := Run{
		ID:                "run1",
		Instrument:        String("LightCycler 480"),
		ThermalCyclingRef: "tcc1",
		PCRFormat:         &PCRFormat{Rows: 8, Columns: 12, RowLabel: "ABC", ColumnLabel: "123"},
	}
	run.Reacts.Set(react1)
	run.Reacts.Set(react13)

	exp := Experiment{ID: "exp1"}
	exp.Runs.Set(run)
	doc.Experiments.Set(exp)

	if err := doc.Validate(); err != nil {
		t.Fatalf("fixture must validate: %v", err)
	}
	return doc
}

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
