package rdml

import "fmt"

// Experiment is the top level of the measurement hierarchy. It owns runs;
// runs own reactions; reactions own per-target data entries.
type Experiment struct {
	ID                string
	Description       *string
	DocumentationRefs []ReferenceID
	Runs              Collection[Run]
}

// Key implements Keyer.
func (e Experiment) Key() string { return e.ID }

// Validate checks required fields.
func (e Experiment) Validate() error {
	if e.ID == "" {
		return missingField("experiment.id")
	}
	return nil
}

// NewExperiment constructs a validated experiment.
func NewExperiment(id string) (Experiment, error) {
	e := Experiment{ID: id}
	if err := e.Validate(); err != nil {
		return Experiment{}, err
	}
	return e, nil
}

// DataCollectionSoftware names the instrument software that produced a run.
type DataCollectionSoftware struct {
	Name    string
	Version string
}

// PCRFormat describes the plate geometry of a run. Row and column labels
// control how reaction ids map to well positions ("A1" style).
type PCRFormat struct {
	Rows        int
	Columns     int
	RowLabel    string // "ABC", "123", or "A1"
	ColumnLabel string
}

// Run is one instrument run within an experiment.
type Run struct {
	ID                            string
	Description                   *string
	DocumentationRefs             []ReferenceID
	ExperimenterRefs              []ReferenceID
	Instrument                    *string
	DataCollectionSoftware        *DataCollectionSoftware
	BackgroundDeterminationMethod *string
	CqDetectionMethod             *CqDetectionMethod
	ThermalCyclingRef             ReferenceID // optional, into thermalCyclingConditions
	PCRFormat                     *PCRFormat
	RunDate                       *string
	Reacts                        Collection[React]
}

// Key implements Keyer.
func (r Run) Key() string { return r.ID }

// Validate checks required fields and enum membership.
func (r Run) Validate() error {
	if r.ID == "" {
		return missingField("run.id")
	}
	if r.CqDetectionMethod != nil && !r.CqDetectionMethod.known() {
		return typeMismatch(fmt.Sprintf("run[%s].cqDetectionMethod", r.ID), string(*r.CqDetectionMethod))
	}
	return nil
}

// NewRun constructs a validated run.
func NewRun(id string) (Run, error) {
	r := Run{ID: id}
	if err := r.Validate(); err != nil {
		return Run{}, err
	}
	return r, nil
}

// React is a single reaction well. SampleRef cross-references the sample
// loaded into the well; Data is keyed by target id, unique per target.
type React struct {
	ID        string // numeric well id, stringified
	SampleRef ReferenceID
	Data      Collection[ReactData]
}

// Key implements Keyer.
func (r React) Key() string { return r.ID }

// Validate checks required fields.
func (r React) Validate() error {
	if r.ID == "" {
		return missingField("react.id")
	}
	return nil
}

// NewReact constructs a validated reaction bound to a sample.
func NewReact(id string, sample ReferenceID) (React, error) {
	r := React{ID: id, SampleRef: sample}
	if err := r.Validate(); err != nil {
		return React{}, err
	}
	return r, nil
}

// AmplificationDataPoint is one (cycle, fluorescence) reading, optionally
// with the block temperature at acquisition.
type AmplificationDataPoint struct {
	Cycle       float64
	Temperature *float64
	Fluor       float64
}

// MeltingDataPoint is one (temperature, fluorescence) reading of a melt curve.
type MeltingDataPoint struct {
	Temperature float64
	Fluor       float64
}

// ReactData holds the measurements and computed values for one target within
// one reaction. At most one amplification curve and one melt curve.
type ReactData struct {
	TargetRef  ReferenceID
	Cq         *float64
	AmpEffMet  *string
	AmpEff     *float64
	AmpEffSE   *float64
	MeltTemp   *float64
	Excluded   *string
	Adps       []AmplificationDataPoint
	Mdps       []MeltingDataPoint
	EndPoint   *float64
	BgFluor    *float64
	QuantFluor *float64
}

// Key implements Keyer. Data entries are keyed by their target id.
func (d ReactData) Key() string { return string(d.TargetRef) }

// Validate checks required fields.
func (d ReactData) Validate() error {
	if d.TargetRef.Empty() {
		return missingField("data.tar")
	}
	return nil
}

// NewReactData constructs a validated data entry for the given target.
func NewReactData(target ReferenceID) (ReactData, error) {
	d := ReactData{TargetRef: target}
	if err := d.Validate(); err != nil {
		return ReactData{}, err
	}
	return d, nil
}

// HasMeasurement reports whether the entry carries a curve or a computed
// value worth surfacing in the flattened table.
func (d ReactData) HasMeasurement() bool {
	return len(d.Adps) > 0 || len(d.Mdps) > 0 || d.Cq != nil || d.EndPoint != nil || d.MeltTemp != nil
}
