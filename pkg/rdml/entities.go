// Package rdml implements the in-memory object model for RDML documents
// (the XML interchange format for real-time quantitative PCR data) together
// with its bidirectional mapping to and from the wire format: parsing,
// serialization, tabular flattening, and fluorescence matrix round-trips.
package rdml

import "fmt"

// ReferenceID is an identifier-based handle pointing at an entity in another
// collection. It never owns its target; resolution happens by lookup against
// the Document during Validate.
type ReferenceID string

// Empty reports whether the handle carries no identifier.
func (r ReferenceID) Empty() bool { return r == "" }

// SampleType enumerates the canonical sample roles of the schema.
type SampleType string

// Sample roles recognised by the schema.
const (
	SampleUnknown           SampleType = "unkn" // unknown sample
	SampleNoTemplateControl SampleType = "ntc"  // no template control
	SampleNoAmpControl      SampleType = "nac"  // no amplification control
	SampleStandard          SampleType = "std"  // standard sample
	SampleNoTargetPresent   SampleType = "ntp"  // no target present
	SampleMinusRT           SampleType = "nrt"  // minus reverse transcriptase
	SamplePositiveControl   SampleType = "pos"  // positive control
	SampleOpticalCalibrator SampleType = "opt"  // optical calibrator sample
)

func (t SampleType) known() bool {
	switch t {
	case SampleUnknown, SampleNoTemplateControl, SampleNoAmpControl, SampleStandard,
		SampleNoTargetPresent, SampleMinusRT, SamplePositiveControl, SampleOpticalCalibrator:
		return true
	}
	return false
}

// TargetType distinguishes reference genes from targets of interest.
type TargetType string

// Target roles recognised by the schema.
const (
	TargetReference  TargetType = "ref" // reference target
	TargetOfInterest TargetType = "toi" // target of interest
)

func (t TargetType) known() bool { return t == TargetReference || t == TargetOfInterest }

// CqDetectionMethod enumerates the Cq determination methods a run may declare.
type CqDetectionMethod string

// Cq detection methods recognised by the schema.
const (
	CqAutomatedThreshold  CqDetectionMethod = "automated threshold and baseline settings"
	CqManualThreshold     CqDetectionMethod = "manual threshold and baseline settings"
	CqSecondDerivativeMax CqDetectionMethod = "second derivative maximum"
	CqOther               CqDetectionMethod = "other"
)

func (m CqDetectionMethod) known() bool {
	switch m {
	case CqAutomatedThreshold, CqManualThreshold, CqSecondDerivativeMax, CqOther:
		return true
	}
	return false
}

// QuantityUnit enumerates the units a sample quantity may be expressed in.
type QuantityUnit string

// Quantity units recognised by the schema.
const (
	UnitCopies      QuantityUnit = "cop"
	UnitFold        QuantityUnit = "fold"
	UnitDilution    QuantityUnit = "dil"
	UnitNanogram    QuantityUnit = "ng"
	UnitNanomolPerL QuantityUnit = "nMol"
	UnitOther       QuantityUnit = "other"
)

func (u QuantityUnit) known() bool {
	switch u {
	case UnitCopies, UnitFold, UnitDilution, UnitNanogram, UnitNanomolPerL, UnitOther:
		return true
	}
	return false
}

// DocumentID is a publisher-scoped serial identifier for the document itself.
type DocumentID struct {
	Publisher    string
	SerialNumber string
	MD5Hash      *string
}

// Key implements Keyer.
func (d DocumentID) Key() string { return d.Publisher }

// Validate checks required fields.
func (d DocumentID) Validate() error {
	if d.Publisher == "" {
		return missingField("id.publisher")
	}
	if d.SerialNumber == "" {
		return missingField(fmt.Sprintf("id[%s].serialNumber", d.Publisher))
	}
	return nil
}

// Experimenter identifies a person connected to an experiment or run.
type Experimenter struct {
	ID         string
	FirstName  string
	LastName   string
	Email      *string
	LabName    *string
	LabAddress *string
}

// Key implements Keyer.
func (e Experimenter) Key() string { return e.ID }

// Validate checks required fields.
func (e Experimenter) Validate() error {
	if e.ID == "" {
		return missingField("experimenter.id")
	}
	if e.FirstName == "" {
		return missingField(fmt.Sprintf("experimenter[%s].firstName", e.ID))
	}
	if e.LastName == "" {
		return missingField(fmt.Sprintf("experimenter[%s].lastName", e.ID))
	}
	return nil
}

// Documentation is a free-text note referenced from other entities by id.
type Documentation struct {
	ID   string
	Text *string
}

// Key implements Keyer.
func (d Documentation) Key() string { return d.ID }

// Validate checks required fields.
func (d Documentation) Validate() error {
	if d.ID == "" {
		return missingField("documentation.id")
	}
	return nil
}

// Dye describes a fluorescent reporter dye.
type Dye struct {
	ID          string
	Description *string
}

// Key implements Keyer.
func (d Dye) Key() string { return d.ID }

// Validate checks required fields.
func (d Dye) Validate() error {
	if d.ID == "" {
		return missingField("dye.id")
	}
	return nil
}

// NewDye constructs a validated dye.
func NewDye(id string) (Dye, error) {
	d := Dye{ID: id}
	if err := d.Validate(); err != nil {
		return Dye{}, err
	}
	return d, nil
}

// XRef links an entity to an external database record.
type XRef struct {
	Name *string
	ID   *string
}

// Annotation attaches a property/value pair to a sample.
type Annotation struct {
	Property string
	Value    string
}

// Quantity expresses an absolute sample quantity with its unit.
type Quantity struct {
	Value float64
	Unit  QuantityUnit
}

// Sample describes the biological material loaded into reactions. Reactions
// point at samples by id, never by containment.
type Sample struct {
	ID                  string
	Description         *string
	DocumentationRefs   []ReferenceID
	XRefs               []XRef
	Annotations         []Annotation
	Type                SampleType
	InterRunCalibrator  *bool
	Quantity            *Quantity
	CalibratorSample    *bool
	CdnaSynthesisMethod *string
	TemplateQuantity    *Quantity
}

// Key implements Keyer.
func (s Sample) Key() string { return s.ID }

// Validate checks required fields and enum membership.
func (s Sample) Validate() error {
	if s.ID == "" {
		return missingField("sample.id")
	}
	if s.Type == "" {
		return missingField(fmt.Sprintf("sample[%s].type", s.ID))
	}
	if !s.Type.known() {
		return typeMismatch(fmt.Sprintf("sample[%s].type", s.ID), string(s.Type))
	}
	if s.Quantity != nil && !s.Quantity.Unit.known() {
		return typeMismatch(fmt.Sprintf("sample[%s].quantity.unit", s.ID), string(s.Quantity.Unit))
	}
	if s.TemplateQuantity != nil && !s.TemplateQuantity.Unit.known() {
		return typeMismatch(fmt.Sprintf("sample[%s].templateQuantity.unit", s.ID), string(s.TemplateQuantity.Unit))
	}
	return nil
}

// NewSample constructs a validated sample of the given role.
func NewSample(id string, typ SampleType) (Sample, error) {
	s := Sample{ID: id, Type: typ}
	if err := s.Validate(); err != nil {
		return Sample{}, err
	}
	return s, nil
}

// OligoSequence holds one oligonucleotide with optional 5'/3' tags.
type OligoSequence struct {
	ThreePrimeTag *string
	FivePrimeTag  *string
	Sequence      string
}

// Sequences groups the oligos associated with a target.
type Sequences struct {
	ForwardPrimer *OligoSequence
	ReversePrimer *OligoSequence
	Probe1        *OligoSequence
	Probe2        *OligoSequence
	Amplicon      *OligoSequence
}

// CommercialAssay identifies an off-the-shelf assay kit.
type CommercialAssay struct {
	Company     string
	OrderNumber string
}

// Target describes an amplification target and the dye used to detect it.
// DyeRef is a cross-reference into the document's dye collection.
type Target struct {
	ID                            string
	Description                   *string
	DocumentationRefs             []ReferenceID
	XRefs                         []XRef
	Type                          TargetType
	AmplificationEfficiencyMethod *string
	AmplificationEfficiency       *float64
	DetectionLimit                *float64
	DyeRef                        ReferenceID
	Sequences                     *Sequences
	CommercialAssay               *CommercialAssay
}

// Key implements Keyer.
func (t Target) Key() string { return t.ID }

// Validate checks required fields and enum membership.
func (t Target) Validate() error {
	if t.ID == "" {
		return missingField("target.id")
	}
	if t.Type == "" {
		return missingField(fmt.Sprintf("target[%s].type", t.ID))
	}
	if !t.Type.known() {
		return typeMismatch(fmt.Sprintf("target[%s].type", t.ID), string(t.Type))
	}
	if t.DyeRef.Empty() {
		return missingField(fmt.Sprintf("target[%s].dyeId", t.ID))
	}
	return nil
}

// NewTarget constructs a validated target bound to a dye.
func NewTarget(id string, typ TargetType, dye ReferenceID) (Target, error) {
	t := Target{ID: id, Type: typ, DyeRef: dye}
	if err := t.Validate(); err != nil {
		return Target{}, err
	}
	return t, nil
}

// Dilution records a per-target dilution series keyed by reaction id,
// used by relative quantification workflows downstream of the core.
type Dilution struct {
	ID        string
	TargetRef ReferenceID
	Points    []DilutionPoint
}

// DilutionPoint maps one reaction to its nominal quantity.
type DilutionPoint struct {
	ReactID  string
	Quantity float64
}

// Key implements Keyer.
func (d Dilution) Key() string { return d.ID }

// Validate checks required fields.
func (d Dilution) Validate() error {
	if d.ID == "" {
		return missingField("dilutions.id")
	}
	if d.TargetRef.Empty() {
		return missingField(fmt.Sprintf("dilutions[%s].target", d.ID))
	}
	return nil
}

// Condition records an experimental condition applied to a sample.
type Condition struct {
	ID        string
	SampleRef ReferenceID
	Value     string
}

// Key implements Keyer.
func (c Condition) Key() string { return c.ID }

// Validate checks required fields.
func (c Condition) Validate() error {
	if c.ID == "" {
		return missingField("conditions.id")
	}
	if c.SampleRef.Empty() {
		return missingField(fmt.Sprintf("conditions[%s].sample", c.ID))
	}
	return nil
}
