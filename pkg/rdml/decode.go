package rdml

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Parse reads an RDML document from raw bytes. Both plain markup and the
// compressed container form are accepted; the container is detected by its
// magic bytes and unwrapped transparently. A fatal schema violation aborts
// the parse with *ParseError; no partial tree is returned.
func Parse(data []byte) (*Document, error) {
	if isContainer(data) {
		inner, err := unwrapContainer(data)
		if err != nil {
			return nil, &ParseError{Path: "rdml", Err: err}
		}
		data = inner
	}
	var wire xmlRDML
	if err := xml.Unmarshal(data, &wire); err != nil {
		return nil, &ParseError{Path: "rdml", Err: err}
	}
	return fromWire(&wire)
}

// Read consumes the whole stream and parses it. The caller owns the stream's
// lifetime; Read never closes it.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Path: "rdml", Err: err}
	}
	return Parse(data)
}

func fromWire(wire *xmlRDML) (*Document, error) {
	if wire.Version == "" {
		return nil, &ParseError{Path: "rdml.version", Err: ErrMissingRequiredField}
	}
	if !versionSupported(wire.Version) {
		return nil, &ParseError{Path: "rdml.version", Err: fmt.Errorf("%w: %q", ErrUnsupportedVersion, wire.Version)}
	}

	doc := &Document{
		Version:     wire.Version,
		DateMade:    wire.DateMade,
		DateUpdated: wire.DateUpdated,
	}

	for _, w := range wire.IDs {
		id := DocumentID(w)
		if err := id.Validate(); err != nil {
			return nil, &ParseError{Path: "rdml.id", Err: err}
		}
		doc.IDs.Set(id)
	}
	for _, w := range wire.Experimenters {
		e := Experimenter(w)
		if err := e.Validate(); err != nil {
			return nil, &ParseError{Path: "rdml.experimenter", Err: err}
		}
		doc.Experimenters.Set(e)
	}
	for _, w := range wire.Documentations {
		d := Documentation(w)
		if err := d.Validate(); err != nil {
			return nil, &ParseError{Path: "rdml.documentation", Err: err}
		}
		doc.Documentations.Set(d)
	}
	for _, w := range wire.Dyes {
		d := Dye(w)
		if err := d.Validate(); err != nil {
			return nil, &ParseError{Path: "rdml.dye", Err: err}
		}
		doc.Dyes.Set(d)
	}
	for _, w := range wire.Samples {
		s, err := sampleFromWire(w)
		if err != nil {
			return nil, &ParseError{Path: "rdml.sample", Err: err}
		}
		doc.Samples.Set(s)
	}
	for _, w := range wire.Targets {
		t, err := targetFromWire(w)
		if err != nil {
			return nil, &ParseError{Path: "rdml.target", Err: err}
		}
		doc.Targets.Set(t)
	}
	for _, w := range wire.TCCs {
		tcc, err := tccFromWire(w)
		if err != nil {
			return nil, &ParseError{Path: "rdml.thermalCyclingConditions", Err: err}
		}
		doc.ThermalCyclingConditions.Set(tcc)
	}
	for _, w := range wire.Experiments {
		exp, err := experimentFromWire(w)
		if err != nil {
			return nil, &ParseError{Path: "rdml.experiment", Err: err}
		}
		doc.Experiments.Set(exp)
	}
	for _, w := range wire.Dilutions {
		dil := Dilution{ID: w.ID, TargetRef: ReferenceID(w.Target.ID)}
		for _, p := range w.Points {
			dil.Points = append(dil.Points, DilutionPoint{ReactID: p.React, Quantity: p.Quantity})
		}
		if err := dil.Validate(); err != nil {
			return nil, &ParseError{Path: "rdml.dilutions", Err: err}
		}
		doc.Dilutions.Set(dil)
	}
	for _, w := range wire.Conditions {
		cond := Condition{ID: w.ID, SampleRef: ReferenceID(w.Sample.ID), Value: w.Value}
		if err := cond.Validate(); err != nil {
			return nil, &ParseError{Path: "rdml.conditions", Err: err}
		}
		doc.Conditions.Set(cond)
	}
	for _, extra := range wire.Extra {
		doc.Extensions = append(doc.Extensions, ExtensionNode{Name: extra.XMLName.Local, Raw: extra.Raw})
	}
	return doc, nil
}

func refIDs(refs []xmlIDRef) []ReferenceID {
	if len(refs) == 0 {
		return nil
	}
	out := make([]ReferenceID, 0, len(refs))
	for _, r := range refs {
		out = append(out, ReferenceID(r.ID))
	}
	return out
}

func quantityFromWire(w *xmlQuantity) *Quantity {
	if w == nil {
		return nil
	}
	return &Quantity{Value: w.Value, Unit: QuantityUnit(w.Unit)}
}

func xrefsFromWire(ws []xmlXRef) []XRef {
	if len(ws) == 0 {
		return nil
	}
	out := make([]XRef, 0, len(ws))
	for _, w := range ws {
		out = append(out, XRef(w))
	}
	return out
}

func sampleFromWire(w xmlSample) (Sample, error) {
	s := Sample{
		ID:                  w.ID,
		Description:         w.Description,
		DocumentationRefs:   refIDs(w.Documentation),
		XRefs:               xrefsFromWire(w.XRefs),
		Type:                SampleType(w.Type),
		InterRunCalibrator:  w.InterRunCalibrator,
		Quantity:            quantityFromWire(w.Quantity),
		CalibratorSample:    w.CalibratorSample,
		CdnaSynthesisMethod: w.CdnaSynthesisMethod,
		TemplateQuantity:    quantityFromWire(w.TemplateQuantity),
	}
	for _, a := range w.Annotations {
		s.Annotations = append(s.Annotations, Annotation(a))
	}
	if err := s.Validate(); err != nil {
		return Sample{}, err
	}
	return s, nil
}

func oligoFromWire(w *xmlOligo) *OligoSequence {
	if w == nil {
		return nil
	}
	o := OligoSequence(*w)
	return &o
}

func targetFromWire(w xmlTarget) (Target, error) {
	t := Target{
		ID:                            w.ID,
		Description:                   w.Description,
		DocumentationRefs:             refIDs(w.Documentation),
		XRefs:                         xrefsFromWire(w.XRefs),
		Type:                          TargetType(w.Type),
		AmplificationEfficiencyMethod: w.AmplificationEfficiencyMethod,
		AmplificationEfficiency:       w.AmplificationEfficiency,
		DetectionLimit:                w.DetectionLimit,
	}
	if w.DyeID != nil {
		t.DyeRef = ReferenceID(w.DyeID.ID)
	}
	if w.Sequences != nil {
		t.Sequences = &Sequences{
			ForwardPrimer: oligoFromWire(w.Sequences.ForwardPrimer),
			ReversePrimer: oligoFromWire(w.Sequences.ReversePrimer),
			Probe1:        oligoFromWire(w.Sequences.Probe1),
			Probe2:        oligoFromWire(w.Sequences.Probe2),
			Amplicon:      oligoFromWire(w.Sequences.Amplicon),
		}
	}
	if w.CommercialAssay != nil {
		ca := CommercialAssay(*w.CommercialAssay)
		t.CommercialAssay = &ca
	}
	if err := t.Validate(); err != nil {
		return Target{}, err
	}
	return t, nil
}

func tccFromWire(w xmlTCC) (ThermalCyclingConditions, error) {
	tcc := ThermalCyclingConditions{
		ID:                w.ID,
		Description:       w.Description,
		DocumentationRefs: refIDs(w.Documentation),
		LidTemperature:    w.LidTemperature,
		ExperimenterRefs:  refIDs(w.Experimenter),
	}
	for _, ws := range w.Steps {
		step := Step{Number: ws.Nr, Description: ws.Description}
		switch {
		case ws.Temperature != nil:
			step.Action = TemperatureStep(*ws.Temperature)
		case ws.Loop != nil:
			step.Action = LoopStep(*ws.Loop)
		case ws.Pause != nil:
			step.Action = PauseStep(*ws.Pause)
		case ws.LidOpen != nil:
			step.Action = LidOpenStep{}
		}
		tcc.Steps = append(tcc.Steps, step)
	}
	if err := tcc.Validate(); err != nil {
		return ThermalCyclingConditions{}, err
	}
	return tcc, nil
}

func experimentFromWire(w xmlExperiment) (Experiment, error) {
	exp := Experiment{
		ID:                w.ID,
		Description:       w.Description,
		DocumentationRefs: refIDs(w.Documentation),
	}
	if err := exp.Validate(); err != nil {
		return Experiment{}, err
	}
	for _, wr := range w.Runs {
		run, err := runFromWire(wr)
		if err != nil {
			return Experiment{}, fmt.Errorf("experiment[%s]: %w", w.ID, err)
		}
		exp.Runs.Set(run)
	}
	return exp, nil
}

func runFromWire(w xmlRun) (Run, error) {
	run := Run{
		ID:                            w.ID,
		Description:                   w.Description,
		DocumentationRefs:             refIDs(w.Documentation),
		ExperimenterRefs:              refIDs(w.Experimenter),
		Instrument:                    w.Instrument,
		BackgroundDeterminationMethod: w.BackgroundDeterminationMethod,
		RunDate:                       w.RunDate,
	}
	if w.DataCollectionSoftware != nil {
		dcs := DataCollectionSoftware(*w.DataCollectionSoftware)
		run.DataCollectionSoftware = &dcs
	}
	if w.CqDetectionMethod != nil {
		m := CqDetectionMethod(*w.CqDetectionMethod)
		run.CqDetectionMethod = &m
	}
	if w.TCC != nil {
		run.ThermalCyclingRef = ReferenceID(w.TCC.ID)
	}
	if w.PCRFormat != nil {
		pf := PCRFormat(*w.PCRFormat)
		run.PCRFormat = &pf
	}
	if err := run.Validate(); err != nil {
		return Run{}, err
	}
	for _, wr := range w.Reacts {
		react, err := reactFromWire(wr)
		if err != nil {
			return Run{}, fmt.Errorf("run[%s]: %w", w.ID, err)
		}
		run.Reacts.Set(react)
	}
	return run, nil
}

func reactFromWire(w xmlReact) (React, error) {
	react := React{ID: w.ID}
	if w.Sample != nil {
		react.SampleRef = ReferenceID(w.Sample.ID)
	}
	if err := react.Validate(); err != nil {
		return React{}, err
	}
	for _, wd := range w.Data {
		data := ReactData{
			TargetRef:  ReferenceID(wd.Tar.ID),
			Cq:         wd.Cq,
			AmpEffMet:  wd.AmpEffMet,
			AmpEff:     wd.AmpEff,
			AmpEffSE:   wd.AmpEffSE,
			MeltTemp:   wd.MeltTemp,
			Excluded:   wd.Excl,
			EndPoint:   wd.EndPt,
			BgFluor:    wd.BgFluor,
			QuantFluor: wd.QuantFluor,
		}
		for _, p := range wd.Adps {
			data.Adps = append(data.Adps, AmplificationDataPoint{Cycle: p.Cyc, Temperature: p.Tmp, Fluor: p.Fluor})
		}
		for _, p := range wd.Mdps {
			data.Mdps = append(data.Mdps, MeltingDataPoint{Temperature: p.Tmp, Fluor: p.Fluor})
		}
		if err := data.Validate(); err != nil {
			return React{}, fmt.Errorf("react[%s]: %w", w.ID, err)
		}
		react.Data.Set(data)
	}
	return react, nil
}
