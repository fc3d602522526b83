package rdml

import (
	"encoding/xml"
	"fmt"
	"io"
)

// WriteOptions configures serialization.
type WriteOptions struct {
	// Compress wraps the markup in the single-entry compressed container.
	Compress bool
}

// Marshal serializes the tree to plain markup text. It refuses to emit when
// Validate reports dangling references, returning *ValidationError instead
// of malformed output.
func (d *Document) Marshal() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}
	wire, err := d.toWire()
	if err != nil {
		return nil, err
	}
	body, err := xml.MarshalIndent(wire, "", "  ")
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

// MarshalCompressed serializes the tree and wraps it in the compressed
// container form.
func (d *Document) MarshalCompressed() ([]byte, error) {
	body, err := d.Marshal()
	if err != nil {
		return nil, err
	}
	return wrapContainer(containerEntryName, body)
}

// Write serializes the tree to w. The caller owns w's lifetime.
func (d *Document) Write(w io.Writer, opts WriteOptions) error {
	var (
		data []byte
		err  error
	)
	if opts.Compress {
		data, err = d.MarshalCompressed()
	} else {
		data, err = d.Marshal()
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (d *Document) toWire() (*xmlRDML, error) {
	version := d.Version
	if version == "" {
		version = CurrentVersion
	}
	wire := &xmlRDML{
		Version:     version,
		DateMade:    d.DateMade,
		DateUpdated: d.DateUpdated,
	}
	for _, v := range d.IDs.Values() {
		wire.IDs = append(wire.IDs, xmlDocumentID(v))
	}
	for _, v := range d.Experimenters.Values() {
		wire.Experimenters = append(wire.Experimenters, xmlExperimenter(v))
	}
	for _, v := range d.Documentations.Values() {
		wire.Documentations = append(wire.Documentations, xmlDocumentation(v))
	}
	for _, v := range d.Dyes.Values() {
		wire.Dyes = append(wire.Dyes, xmlDye(v))
	}
	for _, v := range d.Samples.Values() {
		wire.Samples = append(wire.Samples, sampleToWire(v))
	}
	for _, v := range d.Targets.Values() {
		wire.Targets = append(wire.Targets, targetToWire(v))
	}
	for _, v := range d.ThermalCyclingConditions.Values() {
		w, err := tccToWire(v)
		if err != nil {
			return nil, err
		}
		wire.TCCs = append(wire.TCCs, w)
	}
	for _, v := range d.Experiments.Values() {
		wire.Experiments = append(wire.Experiments, experimentToWire(v))
	}
	for _, v := range d.Dilutions.Values() {
		w := xmlDilution{ID: v.ID, Target: xmlIDRef{ID: string(v.TargetRef)}}
		for _, p := range v.Points {
			w.Points = append(w.Points, xmlDilutionStep{React: p.ReactID, Quantity: p.Quantity})
		}
		wire.Dilutions = append(wire.Dilutions, w)
	}
	for _, v := range d.Conditions.Values() {
		wire.Conditions = append(wire.Conditions, xmlCondition{ID: v.ID, Sample: xmlIDRef{ID: string(v.SampleRef)}, Value: v.Value})
	}
	for _, ext := range d.Extensions {
		wire.Extra = append(wire.Extra, xmlExtension{XMLName: xml.Name{Local: ext.Name}, Raw: ext.Raw})
	}
	return wire, nil
}

func idRefs(refs []ReferenceID) []xmlIDRef {
	if len(refs) == 0 {
		return nil
	}
	out := make([]xmlIDRef, 0, len(refs))
	for _, r := range refs {
		out = append(out, xmlIDRef{ID: string(r)})
	}
	return out
}

func quantityToWire(q *Quantity) *xmlQuantity {
	if q == nil {
		return nil
	}
	return &xmlQuantity{Value: q.Value, Unit: string(q.Unit)}
}

func xrefsToWire(xs []XRef) []xmlXRef {
	if len(xs) == 0 {
		return nil
	}
	out := make([]xmlXRef, 0, len(xs))
	for _, x := range xs {
		out = append(out, xmlXRef(x))
	}
	return out
}

func sampleToWire(s Sample) xmlSample {
	w := xmlSample{
		ID:                  s.ID,
		Description:         s.Description,
		Documentation:       idRefs(s.DocumentationRefs),
		XRefs:               xrefsToWire(s.XRefs),
		Type:                string(s.Type),
		InterRunCalibrator:  s.InterRunCalibrator,
		Quantity:            quantityToWire(s.Quantity),
		CalibratorSample:    s.CalibratorSample,
		CdnaSynthesisMethod: s.CdnaSynthesisMethod,
		TemplateQuantity:    quantityToWire(s.TemplateQuantity),
	}
	for _, a := range s.Annotations {
		w.Annotations = append(w.Annotations, xmlAnnotation(a))
	}
	return w
}

func oligoToWire(o *OligoSequence) *xmlOligo {
	if o == nil {
		return nil
	}
	w := xmlOligo(*o)
	return &w
}

func targetToWire(t Target) xmlTarget {
	w := xmlTarget{
		ID:                            t.ID,
		Description:                   t.Description,
		Documentation:                 idRefs(t.DocumentationRefs),
		XRefs:                         xrefsToWire(t.XRefs),
		Type:                          string(t.Type),
		AmplificationEfficiencyMethod: t.AmplificationEfficiencyMethod,
		AmplificationEfficiency:       t.AmplificationEfficiency,
		DetectionLimit:                t.DetectionLimit,
	}
	if !t.DyeRef.Empty() {
		w.DyeID = &xmlIDRef{ID: string(t.DyeRef)}
	}
	if t.Sequences != nil {
		w.Sequences = &xmlSequences{
			ForwardPrimer: oligoToWire(t.Sequences.ForwardPrimer),
			ReversePrimer: oligoToWire(t.Sequences.ReversePrimer),
			Probe1:        oligoToWire(t.Sequences.Probe1),
			Probe2:        oligoToWire(t.Sequences.Probe2),
			Amplicon:      oligoToWire(t.Sequences.Amplicon),
		}
	}
	if t.CommercialAssay != nil {
		ca := xmlCommercialAssay(*t.CommercialAssay)
		w.CommercialAssay = &ca
	}
	return w
}

func tccToWire(t ThermalCyclingConditions) (xmlTCC, error) {
	w := xmlTCC{
		ID:             t.ID,
		Description:    t.Description,
		Documentation:  idRefs(t.DocumentationRefs),
		LidTemperature: t.LidTemperature,
		Experimenter:   idRefs(t.ExperimenterRefs),
	}
	for _, s := range t.Steps {
		ws := xmlStep{Nr: s.Number, Description: s.Description}
		switch action := s.Action.(type) {
		case TemperatureStep:
			tmp := xmlTemperatureStep(action)
			ws.Temperature = &tmp
		case LoopStep:
			loop := xmlLoop(action)
			ws.Loop = &loop
		case PauseStep:
			pause := xmlPause(action)
			ws.Pause = &pause
		case LidOpenStep:
			ws.LidOpen = &xmlLidOpen{}
		default:
			return xmlTCC{}, typeMismatch(
				fmt.Sprintf("thermalCyclingConditions[%s].step[%d]", t.ID, s.Number),
				fmt.Sprintf("unknown step action %T", s.Action))
		}
		w.Steps = append(w.Steps, ws)
	}
	return w, nil
}

func experimentToWire(e Experiment) xmlExperiment {
	w := xmlExperiment{
		ID:            e.ID,
		Description:   e.Description,
		Documentation: idRefs(e.DocumentationRefs),
	}
	for _, run := range e.Runs.Values() {
		w.Runs = append(w.Runs, runToWire(run))
	}
	return w
}

func runToWire(r Run) xmlRun {
	w := xmlRun{
		ID:                            r.ID,
		Description:                   r.Description,
		Documentation:                 idRefs(r.DocumentationRefs),
		Experimenter:                  idRefs(r.ExperimenterRefs),
		Instrument:                    r.Instrument,
		BackgroundDeterminationMethod: r.BackgroundDeterminationMethod,
		RunDate:                       r.RunDate,
	}
	if r.DataCollectionSoftware != nil {
		dcs := xmlDCS(*r.DataCollectionSoftware)
		w.DataCollectionSoftware = &dcs
	}
	if r.CqDetectionMethod != nil {
		m := string(*r.CqDetectionMethod)
		w.CqDetectionMethod = &m
	}
	if !r.ThermalCyclingRef.Empty() {
		w.TCC = &xmlIDRef{ID: string(r.ThermalCyclingRef)}
	}
	if r.PCRFormat != nil {
		pf := xmlPCRFormat(*r.PCRFormat)
		w.PCRFormat = &pf
	}
	for _, react := range r.Reacts.Values() {
		w.Reacts = append(w.Reacts, reactToWire(react))
	}
	return w
}

func reactToWire(r React) xmlReact {
	w := xmlReact{ID: r.ID}
	if !r.SampleRef.Empty() {
		w.Sample = &xmlIDRef{ID: string(r.SampleRef)}
	}
	for _, d := range r.Data.Values() {
		wd := xmlData{
			Tar:        xmlIDRef{ID: string(d.TargetRef)},
			Cq:         d.Cq,
			AmpEffMet:  d.AmpEffMet,
			AmpEff:     d.AmpEff,
			AmpEffSE:   d.AmpEffSE,
			MeltTemp:   d.MeltTemp,
			Excl:       d.Excluded,
			EndPt:      d.EndPoint,
			BgFluor:    d.BgFluor,
			QuantFluor: d.QuantFluor,
		}
		for _, p := range d.Adps {
			wd.Adps = append(wd.Adps, xmlAdp{Cyc: p.Cycle, Tmp: p.Temperature, Fluor: p.Fluor})
		}
		for _, p := range d.Mdps {
			wd.Mdps = append(wd.Mdps, xmlMdp{Tmp: p.Temperature, Fluor: p.Fluor})
		}
		w.Data = append(w.Data, wd)
	}
	return w
}
