package rdml

import "fmt"

// CurrentVersion is the schema version written by the serializer.
const CurrentVersion = "1.2"

// SupportedVersions lists the schema versions the parser accepts.
var SupportedVersions = []string{"1.0", "1.1", "1.2", "1.3"}

func versionSupported(v string) bool {
	for _, s := range SupportedVersions {
		if s == v {
			return true
		}
	}
	return false
}

// ExtensionNode preserves an unknown top-level element verbatim so that
// documents written by newer or vendor-extended tools survive a round trip.
type ExtensionNode struct {
	Name string
	Raw  []byte // inner XML, re-emitted untouched
}

// Document is the root aggregate of an RDML tree. It owns the top-level
// collections in schema order; all cross-collection links are ReferenceID
// handles resolved by Validate, never pointers.
type Document struct {
	Version     string
	DateMade    *string
	DateUpdated *string

	IDs                      Collection[DocumentID]
	Experimenters            Collection[Experimenter]
	Documentations           Collection[Documentation]
	Dyes                     Collection[Dye]
	Samples                  Collection[Sample]
	Targets                  Collection[Target]
	ThermalCyclingConditions Collection[ThermalCyclingConditions]
	Experiments              Collection[Experiment]
	Dilutions                Collection[Dilution]
	Conditions               Collection[Condition]

	// Extensions holds unknown top-level elements carried through from parse.
	Extensions []ExtensionNode
}

// New returns an empty document at the current schema version.
func New() *Document {
	return &Document{Version: CurrentVersion}
}

// Merge combines other into d: every collection is unioned with other-wins
// precedence, untouched keys keep their first-seen order, and new keys append
// at the end. Per-key overwrite cannot fail, so the merge is atomic.
func (d *Document) Merge(other *Document) {
	if other == nil {
		return
	}
	d.IDs.Merge(other.IDs)
	d.Experimenters.Merge(other.Experimenters)
	d.Documentations.Merge(other.Documentations)
	d.Dyes.Merge(other.Dyes)
	d.Samples.Merge(other.Samples)
	d.Targets.Merge(other.Targets)
	d.ThermalCyclingConditions.Merge(other.ThermalCyclingConditions)
	d.Experiments.Merge(other.Experiments)
	d.Dilutions.Merge(other.Dilutions)
	d.Conditions.Merge(other.Conditions)
	// Extension nodes follow the same contract as the collections: same-name
	// nodes are replaced in place, new names append.
	for _, ext := range other.Extensions {
		replaced := false
		for i := range d.Extensions {
			if d.Extensions[i].Name == ext.Name {
				d.Extensions[i] = ext
				replaced = true
				break
			}
		}
		if !replaced {
			d.Extensions = append(d.Extensions, ext)
		}
	}
	if other.DateMade != nil {
		d.DateMade = other.DateMade
	}
	if other.DateUpdated != nil {
		d.DateUpdated = other.DateUpdated
	}
}

// Validate resolves every cross-reference in the tree and returns a single
// batched *DanglingReferenceError listing all that fail, or nil when the
// tree is internally consistent.
func (d *Document) Validate() error {
	var refs []DanglingReference

	checkDoc := func(path string, ids []ReferenceID) {
		for _, id := range ids {
			if _, ok := d.Documentations.Get(string(id)); !ok {
				refs = append(refs, DanglingReference{Collection: "documentation", ID: string(id), Path: path})
			}
		}
	}
	checkExperimenters := func(path string, ids []ReferenceID) {
		for _, id := range ids {
			if _, ok := d.Experimenters.Get(string(id)); !ok {
				refs = append(refs, DanglingReference{Collection: "experimenter", ID: string(id), Path: path})
			}
		}
	}

	for _, s := range d.Samples.Values() {
		checkDoc(fmt.Sprintf("sample[%s]", s.ID), s.DocumentationRefs)
	}
	for _, t := range d.Targets.Values() {
		path := fmt.Sprintf("target[%s]", t.ID)
		checkDoc(path, t.DocumentationRefs)
		if !t.DyeRef.Empty() {
			if _, ok := d.Dyes.Get(string(t.DyeRef)); !ok {
				refs = append(refs, DanglingReference{Collection: "dye", ID: string(t.DyeRef), Path: path + ".dyeId"})
			}
		}
	}
	for _, tcc := range d.ThermalCyclingConditions.Values() {
		path := fmt.Sprintf("thermalCyclingConditions[%s]", tcc.ID)
		checkDoc(path, tcc.DocumentationRefs)
		checkExperimenters(path, tcc.ExperimenterRefs)
	}
	for _, dil := range d.Dilutions.Values() {
		if _, ok := d.Targets.Get(string(dil.TargetRef)); !ok {
			refs = append(refs, DanglingReference{Collection: "target", ID: string(dil.TargetRef), Path: fmt.Sprintf("dilutions[%s].target", dil.ID)})
		}
	}
	for _, cond := range d.Conditions.Values() {
		if _, ok := d.Samples.Get(string(cond.SampleRef)); !ok {
			refs = append(refs, DanglingReference{Collection: "sample", ID: string(cond.SampleRef), Path: fmt.Sprintf("conditions[%s].sample", cond.ID)})
		}
	}
	for _, exp := range d.Experiments.Values() {
		expPath := fmt.Sprintf("experiment[%s]", exp.ID)
		checkDoc(expPath, exp.DocumentationRefs)
		for _, run := range exp.Runs.Values() {
			runPath := fmt.Sprintf("%s.run[%s]", expPath, run.ID)
			checkDoc(runPath, run.DocumentationRefs)
			checkExperimenters(runPath, run.ExperimenterRefs)
			if !run.ThermalCyclingRef.Empty() {
				if _, ok := d.ThermalCyclingConditions.Get(string(run.ThermalCyclingRef)); !ok {
					refs = append(refs, DanglingReference{Collection: "thermalCyclingConditions", ID: string(run.ThermalCyclingRef), Path: runPath + ".thermalCyclingConditions"})
				}
			}
			for _, react := range run.Reacts.Values() {
				reactPath := fmt.Sprintf("%s.react[%s]", runPath, react.ID)
				if !react.SampleRef.Empty() {
					if _, ok := d.Samples.Get(string(react.SampleRef)); !ok {
						refs = append(refs, DanglingReference{Collection: "sample", ID: string(react.SampleRef), Path: reactPath + ".sample"})
					}
				}
				for _, data := range react.Data.Values() {
					if _, ok := d.Targets.Get(string(data.TargetRef)); !ok {
						refs = append(refs, DanglingReference{Collection: "target", ID: string(data.TargetRef), Path: reactPath + ".data.tar"})
					}
				}
			}
		}
	}

	if len(refs) > 0 {
		return &DanglingReferenceError{Refs: refs}
	}
	return nil
}
