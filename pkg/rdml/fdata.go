package rdml

import "sort"

// FDataKind selects which per-target curve a matrix operation addresses.
type FDataKind string

// Curve kinds stored on a data entry.
const (
	// FDataAmplification addresses the (cycle, fluorescence) curve.
	FDataAmplification FDataKind = "adp"
	// FDataMelt addresses the (temperature, fluorescence) melt curve.
	FDataMelt FDataKind = "mdp"
)

// Matrix is the wide fluorescence form: Cycles is the sorted union of every
// curve's axis values (cycle numbers, or temperatures for melt data), one
// named column per curve, nil marking a missing reading. Ragged curves are
// padded with nil, never truncated.
type Matrix struct {
	Cycles []float64
	Names  []string
	Values [][]*float64 // Values[i][j] = column j at Cycles[i]
}

// Column returns the values of the named column.
func (m *Matrix) Column(name string) ([]*float64, bool) {
	for j, n := range m.Names {
		if n != name {
			continue
		}
		out := make([]*float64, len(m.Cycles))
		for i := range m.Cycles {
			out[i] = m.Values[i][j]
		}
		return out, true
	}
	return nil, false
}

// LongPoint is one (curve, axis, fluorescence) triple of the long form.
type LongPoint struct {
	Name  string
	Cycle float64
	Fluor float64
}

// curvePoints pulls the addressed curve out of a data entry as parallel
// axis/value pairs.
func curvePoints(data ReactData, kind FDataKind) ([]float64, []float64) {
	switch kind {
	case FDataMelt:
		xs := make([]float64, 0, len(data.Mdps))
		ys := make([]float64, 0, len(data.Mdps))
		for _, p := range data.Mdps {
			xs = append(xs, p.Temperature)
			ys = append(ys, p.Fluor)
		}
		return xs, ys
	default:
		xs := make([]float64, 0, len(data.Adps))
		ys := make([]float64, 0, len(data.Adps))
		for _, p := range data.Adps {
			xs = append(xs, p.Cycle)
			ys = append(ys, p.Fluor)
		}
		return xs, ys
	}
}

// FData extracts the wide matrix for every row of the descriptor table.
func (t *Table) FData(doc *Document, kind FDataKind) *Matrix {
	type curve struct {
		name   string
		points map[float64]float64
	}
	curves := make([]curve, 0, len(t.Rows))
	axisSet := make(map[float64]struct{})
	for _, row := range t.Rows {
		c := curve{name: row.FDataName, points: map[float64]float64{}}
		if data, ok := doc.reactData(row.ExperimentID, row.RunID, row.ReactID, row.TargetID); ok {
			xs, ys := curvePoints(data, kind)
			for i, x := range xs {
				c.points[x] = ys[i]
				axisSet[x] = struct{}{}
			}
		}
		curves = append(curves, c)
	}

	axis := make([]float64, 0, len(axisSet))
	for x := range axisSet {
		axis = append(axis, x)
	}
	sort.Float64s(axis)

	m := &Matrix{Cycles: axis}
	for _, c := range curves {
		m.Names = append(m.Names, c.name)
	}
	m.Values = make([][]*float64, len(axis))
	for i, x := range axis {
		rowVals := make([]*float64, len(curves))
		for j, c := range curves {
			if y, ok := c.points[x]; ok {
				v := y
				rowVals[j] = &v
			}
		}
		m.Values[i] = rowVals
	}
	return m
}

// FDataLong extracts the long form: one point per present reading, in table
// row order then axis order. Missing readings produce no point.
func (t *Table) FDataLong(doc *Document, kind FDataKind) []LongPoint {
	var out []LongPoint
	for _, row := range t.Rows {
		data, ok := doc.reactData(row.ExperimentID, row.RunID, row.ReactID, row.TargetID)
		if !ok {
			continue
		}
		xs, ys := curvePoints(data, kind)
		for i, x := range xs {
			out = append(out, LongPoint{Name: row.FDataName, Cycle: x, Fluor: ys[i]})
		}
	}
	return out
}

// SetFData writes the matrix back into the tree. Each column is routed to
// its (experiment, run, reaction, target) path via the descriptor table,
// creating any missing intermediate entity on the way; the addressed curve
// is overwritten from the column's (axis, value) pairs with nil entries
// dropped, so padding never becomes a measurement. A column with no
// descriptor row fails with *UnknownColumnError before anything is mutated.
func (t *Table) SetFData(doc *Document, m *Matrix, kind FDataKind) error {
	rows := make([]Row, 0, len(m.Names))
	for _, name := range m.Names {
		row, ok := t.Row(name)
		if !ok {
			return &UnknownColumnError{Column: name}
		}
		rows = append(rows, row)
	}

	for j, row := range rows {
		exp, ok := doc.Experiments.Get(row.ExperimentID)
		if !ok {
			exp = Experiment{ID: row.ExperimentID}
		}
		run, ok := exp.Runs.Get(row.RunID)
		if !ok {
			run = Run{ID: row.RunID}
		}
		react, ok := run.Reacts.Get(row.ReactID)
		if !ok {
			react = React{ID: row.ReactID, SampleRef: ReferenceID(row.SampleID)}
		}
		data, ok := react.Data.Get(row.TargetID)
		if !ok {
			data = ReactData{TargetRef: ReferenceID(row.TargetID)}
		}

		switch kind {
		case FDataMelt:
			data.Mdps = nil
			for i, x := range m.Cycles {
				if v := m.Values[i][j]; v != nil {
					data.Mdps = append(data.Mdps, MeltingDataPoint{Temperature: x, Fluor: *v})
				}
			}
		default:
			data.Adps = nil
			for i, x := range m.Cycles {
				if v := m.Values[i][j]; v != nil {
					data.Adps = append(data.Adps, AmplificationDataPoint{Cycle: x, Fluor: *v})
				}
			}
		}

		react.Data.Set(data)
		run.Reacts.Set(react)
		exp.Runs.Set(run)
		doc.Experiments.Set(exp)
	}
	return nil
}

// reactData walks the ownership hierarchy to the data entry addressed by the
// four-part key.
func (d *Document) reactData(expID, runID, reactID, target string) (ReactData, bool) {
	exp, ok := d.Experiments.Get(expID)
	if !ok {
		return ReactData{}, false
	}
	run, ok := exp.Runs.Get(runID)
	if !ok {
		return ReactData{}, false
	}
	react, ok := run.Reacts.Get(reactID)
	if !ok {
		return ReactData{}, false
	}
	return react.Data.Get(target)
}
