package rdml

import (
	"bytes"
	"encoding/xml"
)

// Wire structs mirror the markup schema one to one. The decoder converts them
// bottom-up into validated domain entities; the encoder walks the tree and
// rebuilds them in fixed schema order. Field order below is the element order
// the schema mandates.

type xmlRDML struct {
	XMLName     xml.Name `xml:"rdml"`
	Version     string   `xml:"version,attr"`
	DateMade    *string  `xml:"dateMade,omitempty"`
	DateUpdated *string  `xml:"dateUpdated,omitempty"`

	IDs            []xmlDocumentID    `xml:"id"`
	Experimenters  []xmlExperimenter  `xml:"experimenter"`
	Documentations []xmlDocumentation `xml:"documentation"`
	Dyes           []xmlDye           `xml:"dye"`
	Samples        []xmlSample        `xml:"sample"`
	Targets        []xmlTarget        `xml:"target"`
	TCCs           []xmlTCC           `xml:"thermalCyclingConditions"`
	Experiments    []xmlExperiment    `xml:"experiment"`
	Dilutions      []xmlDilution      `xml:"dilutions"`
	Conditions     []xmlCondition     `xml:"conditions"`

	Extra []xmlExtension `xml:",any"`
}

// xmlExtension captures an unknown top-level element verbatim. Marshal
// replays the preserved inner XML token-for-token, since encoding/xml does
// not emit ",innerxml" fields on its own.
type xmlExtension struct {
	XMLName xml.Name
	Raw     []byte `xml:",innerxml"`
}

func (x xmlExtension) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: x.XMLName}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	dec := xml.NewDecoder(bytes.NewReader(x.Raw))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		if err := e.EncodeToken(tok); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// xmlIDRef is an identifier-only reference element, e.g. <dyeId id="SYBR"/>.
type xmlIDRef struct {
	ID string `xml:"id,attr"`
}

type xmlDocumentID struct {
	Publisher    string  `xml:"publisher"`
	SerialNumber string  `xml:"serialNumber"`
	MD5Hash      *string `xml:"MD5Hash,omitempty"`
}

type xmlExperimenter struct {
	ID         string  `xml:"id,attr"`
	FirstName  string  `xml:"firstName"`
	LastName   string  `xml:"lastName"`
	Email      *string `xml:"email,omitempty"`
	LabName    *string `xml:"labName,omitempty"`
	LabAddress *string `xml:"labAddress,omitempty"`
}

type xmlDocumentation struct {
	ID   string  `xml:"id,attr"`
	Text *string `xml:"text,omitempty"`
}

type xmlDye struct {
	ID          string  `xml:"id,attr"`
	Description *string `xml:"description,omitempty"`
}

type xmlQuantity struct {
	Value float64 `xml:"value"`
	Unit  string  `xml:"unit"`
}

type xmlXRef struct {
	Name *string `xml:"name,omitempty"`
	ID   *string `xml:"id,omitempty"`
}

type xmlAnnotation struct {
	Property string `xml:"property"`
	Value    string `xml:"value"`
}

type xmlSample struct {
	ID                  string          `xml:"id,attr"`
	Description         *string         `xml:"description,omitempty"`
	Documentation       []xmlIDRef      `xml:"documentation"`
	XRefs               []xmlXRef       `xml:"xRef"`
	Annotations         []xmlAnnotation `xml:"annotation"`
	Type                string          `xml:"type"`
	InterRunCalibrator  *bool           `xml:"interRunCalibrator,omitempty"`
	Quantity            *xmlQuantity    `xml:"quantity,omitempty"`
	CalibratorSample    *bool           `xml:"calibratorSample,omitempty"`
	CdnaSynthesisMethod *string         `xml:"cdnaSynthesisMethod,omitempty"`
	TemplateQuantity    *xmlQuantity    `xml:"templateQuantity,omitempty"`
}

type xmlOligo struct {
	ThreePrimeTag *string `xml:"threePrimeTag,omitempty"`
	FivePrimeTag  *string `xml:"fivePrimeTag,omitempty"`
	Sequence      string  `xml:"sequence"`
}

type xmlSequences struct {
	ForwardPrimer *xmlOligo `xml:"forwardPrimer,omitempty"`
	ReversePrimer *xmlOligo `xml:"reversePrimer,omitempty"`
	Probe1        *xmlOligo `xml:"probe1,omitempty"`
	Probe2        *xmlOligo `xml:"probe2,omitempty"`
	Amplicon      *xmlOligo `xml:"amplicon,omitempty"`
}

type xmlCommercialAssay struct {
	Company     string `xml:"company"`
	OrderNumber string `xml:"orderNumber"`
}

type xmlTarget struct {
	ID                            string              `xml:"id,attr"`
	Description                   *string             `xml:"description,omitempty"`
	Documentation                 []xmlIDRef          `xml:"documentation"`
	XRefs                         []xmlXRef           `xml:"xRef"`
	Type                          string              `xml:"type"`
	AmplificationEfficiencyMethod *string             `xml:"amplificationEfficiencyMethod,omitempty"`
	AmplificationEfficiency       *float64            `xml:"amplificationEfficiency,omitempty"`
	DetectionLimit                *float64            `xml:"detectionLimit,omitempty"`
	DyeID                         *xmlIDRef           `xml:"dyeId,omitempty"`
	Sequences                     *xmlSequences       `xml:"sequences,omitempty"`
	CommercialAssay               *xmlCommercialAssay `xml:"commercialAssay,omitempty"`
}

type xmlTCC struct {
	ID             string     `xml:"id,attr"`
	Description    *string    `xml:"description,omitempty"`
	Documentation  []xmlIDRef `xml:"documentation"`
	LidTemperature *float64   `xml:"lidTemperature,omitempty"`
	Experimenter   []xmlIDRef `xml:"experimenter"`
	Steps          []xmlStep  `xml:"step"`
}

type xmlStep struct {
	Nr          int                 `xml:"nr"`
	Description *string             `xml:"description,omitempty"`
	Temperature *xmlTemperatureStep `xml:"temperature,omitempty"`
	Loop        *xmlLoop            `xml:"loop,omitempty"`
	Pause       *xmlPause           `xml:"pause,omitempty"`
	LidOpen     *xmlLidOpen         `xml:"lidOpen,omitempty"`
}

type xmlTemperatureStep struct {
	Temperature       float64  `xml:"temperature"`
	Duration          int      `xml:"duration"`
	TemperatureChange *float64 `xml:"temperatureChange,omitempty"`
	DurationChange    *int     `xml:"durationChange,omitempty"`
	Measure           *string  `xml:"measure,omitempty"`
	Ramp              *float64 `xml:"ramp,omitempty"`
}

type xmlLoop struct {
	Goto   int `xml:"goto"`
	Repeat int `xml:"repeat"`
}

type xmlPause struct {
	Temperature float64 `xml:"temperature"`
}

type xmlLidOpen struct{}

type xmlExperiment struct {
	ID            string     `xml:"id,attr"`
	Description   *string    `xml:"description,omitempty"`
	Documentation []xmlIDRef `xml:"documentation"`
	Runs          []xmlRun   `xml:"run"`
}

type xmlDCS struct {
	Name    string `xml:"name"`
	Version string `xml:"version"`
}

type xmlPCRFormat struct {
	Rows        int    `xml:"rows"`
	Columns     int    `xml:"columns"`
	RowLabel    string `xml:"rowLabel"`
	ColumnLabel string `xml:"columnLabel"`
}

type xmlRun struct {
	ID                            string        `xml:"id,attr"`
	Description                   *string       `xml:"description,omitempty"`
	Documentation                 []xmlIDRef    `xml:"documentation"`
	Experimenter                  []xmlIDRef    `xml:"experimenter"`
	Instrument                    *string       `xml:"instrument,omitempty"`
	DataCollectionSoftware        *xmlDCS       `xml:"dataCollectionSoftware,omitempty"`
	BackgroundDeterminationMethod *string       `xml:"backgroundDeterminationMethod,omitempty"`
	CqDetectionMethod             *string       `xml:"cqDetectionMethod,omitempty"`
	TCC                           *xmlIDRef     `xml:"thermalCyclingConditions,omitempty"`
	PCRFormat                     *xmlPCRFormat `xml:"pcrFormat,omitempty"`
	RunDate                       *string       `xml:"runDate,omitempty"`
	Reacts                        []xmlReact    `xml:"react"`
}

type xmlReact struct {
	ID     string    `xml:"id,attr"`
	Sample *xmlIDRef `xml:"sample,omitempty"`
	Data   []xmlData `xml:"data"`
}

type xmlData struct {
	Tar        xmlIDRef `xml:"tar"`
	Cq         *float64 `xml:"cq,omitempty"`
	AmpEffMet  *string  `xml:"ampEffMet,omitempty"`
	AmpEff     *float64 `xml:"ampEff,omitempty"`
	AmpEffSE   *float64 `xml:"ampEffSE,omitempty"`
	MeltTemp   *float64 `xml:"meltTemp,omitempty"`
	Excl       *string  `xml:"excl,omitempty"`
	Adps       []xmlAdp `xml:"adp"`
	Mdps       []xmlMdp `xml:"mdp"`
	EndPt      *float64 `xml:"endPt,omitempty"`
	BgFluor    *float64 `xml:"bgFluor,omitempty"`
	QuantFluor *float64 `xml:"quantFluor,omitempty"`
}

type xmlAdp struct {
	Cyc   float64  `xml:"cyc"`
	Tmp   *float64 `xml:"tmp,omitempty"`
	Fluor float64  `xml:"fluor"`
}

type xmlMdp struct {
	Tmp   float64 `xml:"tmp"`
	Fluor float64 `xml:"fluor"`
}

type xmlDilution struct {
	ID     string            `xml:"id,attr"`
	Target xmlIDRef          `xml:"target"`
	Points []xmlDilutionStep `xml:"point"`
}

type xmlDilutionStep struct {
	React    string  `xml:"react"`
	Quantity float64 `xml:"quantity"`
}

type xmlCondition struct {
	ID     string   `xml:"id,attr"`
	Sample xmlIDRef `xml:"sample"`
	Value  string   `xml:"value"`
}
