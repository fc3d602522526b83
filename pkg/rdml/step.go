package rdml

import "fmt"

// ThermalCyclingConditions is an ordered thermal program referenced by runs.
type ThermalCyclingConditions struct {
	ID                string
	Description       *string
	DocumentationRefs []ReferenceID
	LidTemperature    *float64
	ExperimenterRefs  []ReferenceID
	Steps             []Step
}

// Key implements Keyer.
func (t ThermalCyclingConditions) Key() string { return t.ID }

// Validate checks required fields and per-step invariants. Loop steps must
// jump to an earlier step number and repeat a non-negative number of times.
func (t ThermalCyclingConditions) Validate() error {
	if t.ID == "" {
		return missingField("thermalCyclingConditions.id")
	}
	for _, s := range t.Steps {
		path := fmt.Sprintf("thermalCyclingConditions[%s].step[%d]", t.ID, s.Number)
		if s.Number <= 0 {
			return typeMismatch(path+".nr", fmt.Sprintf("%d", s.Number))
		}
		if s.Action == nil {
			return missingField(path)
		}
		if loop, ok := s.Action.(LoopStep); ok {
			if loop.Goto <= 0 || loop.Goto > s.Number {
				return typeMismatch(path+".loop.goto", fmt.Sprintf("%d", loop.Goto))
			}
			if loop.Repeat < 0 {
				return typeMismatch(path+".loop.repeat", fmt.Sprintf("%d", loop.Repeat))
			}
		}
	}
	return nil
}

// NewThermalCyclingConditions constructs a validated thermal program.
func NewThermalCyclingConditions(id string, steps ...Step) (ThermalCyclingConditions, error) {
	t := ThermalCyclingConditions{ID: id, Steps: steps}
	if err := t.Validate(); err != nil {
		return ThermalCyclingConditions{}, err
	}
	return t, nil
}

// Step is one entry of a thermal program. Exactly one Action variant is set;
// the serializer switches exhaustively over the variants.
type Step struct {
	Number      int
	Description *string
	Action      StepAction
}

// StepAction is the closed set of things a step can do. Implementations:
// TemperatureStep, LoopStep, PauseStep, LidOpenStep.
type StepAction interface {
	stepAction()
}

// TemperatureStep holds a temperature for a duration.
type TemperatureStep struct {
	Temperature       float64 // degrees Celsius
	Duration          int     // seconds
	TemperatureChange *float64
	DurationChange    *int
	Measure           *string // "real time" or "meltcurve"
	Ramp              *float64
}

func (TemperatureStep) stepAction() {}

// LoopStep jumps back to an earlier step and repeats the enclosed block.
type LoopStep struct {
	Goto   int // target step number, must not exceed the loop's own number
	Repeat int
}

func (LoopStep) stepAction() {}

// PauseStep halts the program at a holding temperature.
type PauseStep struct {
	Temperature float64
}

func (PauseStep) stepAction() {}

// LidOpenStep opens the instrument lid.
type LidOpenStep struct{}

func (LidOpenStep) stepAction() {}
