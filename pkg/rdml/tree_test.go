package rdml

import (
	"errors"
	"reflect"
	"testing"
)

func TestValidateCleanTree(t *testing.T) {
	doc := newTestDocument(t)
	if err := doc.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateReportsAllDanglingReferences(t *testing.T) {
	doc := newTestDocument(t)

	// Break three independent links: the target's dye, a reaction's sample,
	// and the run's thermal program.
	target, _ := doc.Targets.Get("gene1")
	target.DyeRef = "nosuchdye"
	doc.Targets.Set(target)

	exp, _ := doc.Experiments.Get("exp1")
	run, _ := exp.Runs.Get("run1")
	run.ThermalCyclingRef = "nosuchtcc"
	react, _ := run.Reacts.Get("1")
	react.SampleRef = "nosuchsample"
	run.Reacts.Set(react)
	exp.Runs.Set(run)
	doc.Experiments.Set(exp)

	err := doc.Validate()
	if err == nil {
		t.Fatalf("expected dangling reference error")
	}
	var dre *DanglingReferenceError
	if !errors.As(err, &dre) {
		t.Fatalf("expected *DanglingReferenceError, got %T", err)
	}
	if len(dre.Refs) != 3 {
		t.Fatalf("expected 3 dangling refs in one batch, got %d: %v", len(dre.Refs), dre.Refs)
	}
	seen := map[string]bool{}
	for _, r := range dre.Refs {
		seen[r.Collection+"/"+r.ID] = true
	}
	for _, want := range []string{"dye/nosuchdye", "sample/nosuchsample", "thermalCyclingConditions/nosuchtcc"} {
		if !seen[want] {
			t.Errorf("missing dangling ref %s in %v", want, dre.Refs)
		}
	}
}

func TestValidateDilutionAndConditionRefs(t *testing.T) {
	doc := newTestDocument(t)
	doc.Dilutions.Set(Dilution{ID: "dil1", TargetRef: "missing"})
	doc.Conditions.Set(Condition{ID: "c1", SampleRef: "missing", Value: "37C"})

	err := doc.Validate()
	var dre *DanglingReferenceError
	if !errors.As(err, &dre) {
		t.Fatalf("expected *DanglingReferenceError, got %v", err)
	}
	if len(dre.Refs) != 2 {
		t.Fatalf("expected 2 dangling refs, got %v", dre.Refs)
	}
}

func TestMergeOtherWins(t *testing.T) {
	doc := newTestDocument(t)
	other := New()
	other.DateUpdated = String("2026-02-01")

	updated, err := NewSample("s1", SampleStandard)
	if err != nil {
		t.Fatalf("NewSample: %v", err)
	}
	other.Samples.Set(updated)
	fresh, err := NewSample("s3", SampleUnknown)
	if err != nil {
		t.Fatalf("NewSample: %v", err)
	}
	other.Samples.Set(fresh)

	doc.Merge(other)

	if got := doc.Samples.Keys(); !reflect.DeepEqual(got, []string{"s1", "s2", "s3"}) {
		t.Fatalf("merge order wrong: %v", got)
	}
	s, _ := doc.Samples.Get("s1")
	if s.Type != SampleStandard {
		t.Fatalf("incoming sample must win, got type %s", s.Type)
	}
	if doc.DateUpdated == nil || *doc.DateUpdated != "2026-02-01" {
		t.Fatalf("dateUpdated not taken from incoming document")
	}
}

func TestMergeCarriesExtensionsAndDates(t *testing.T) {
	doc := New()
	doc.Extensions = []ExtensionNode{{Name: "vendorBlock", Raw: []byte("<a>1</a>")}}
	other := New()
	other.DateMade = String("2026-01-01")
	other.Extensions = []ExtensionNode{
		{Name: "vendorBlock", Raw: []byte("<a>2</a>")},
		{Name: "extraBlock", Raw: []byte("<b></b>")},
	}

	doc.Merge(other)

	if doc.DateMade == nil || *doc.DateMade != "2026-01-01" {
		t.Fatalf("dateMade not taken from incoming document")
	}
	if len(doc.Extensions) != 2 {
		t.Fatalf("expected 2 extension nodes, got %+v", doc.Extensions)
	}
	if doc.Extensions[0].Name != "vendorBlock" || string(doc.Extensions[0].Raw) != "<a>2</a>" {
		t.Fatalf("same-name extension must be replaced in place: %+v", doc.Extensions[0])
	}
	if doc.Extensions[1].Name != "extraBlock" {
		t.Fatalf("new extension must append: %+v", doc.Extensions[1])
	}
}

func TestMergeNilIsNoop(t *testing.T) {
	doc := newTestDocument(t)
	before := doc.Samples.Len()
	doc.Merge(nil)
	if doc.Samples.Len() != before {
		t.Fatalf("merge(nil) changed the tree")
	}
}
