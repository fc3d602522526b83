package rdml

import (
	"fmt"
	"strconv"
	"strings"
)

// RowContext gives filter and computed-column callbacks the entities behind
// one table row. Sample and Target are zero-valued when the reaction's
// cross-references do not resolve (tolerated for non-conformant inputs).
type RowContext struct {
	Document   *Document
	Experiment Experiment
	Run        Run
	React      React
	Data       ReactData
	Sample     Sample
	Target     Target
}

// Row is one (experiment, run, reaction, target) tuple of the flattened
// table. FDataName is unique across the table; every fluorescence matrix
// operation keys off it.
type Row struct {
	FDataName    string         `json:"fdata_name"`
	ExperimentID string         `json:"exp_id"`
	RunID        string         `json:"run_id"`
	ReactID      string         `json:"react_id"`
	Position     string         `json:"position"`
	SampleID     string         `json:"sample"`
	SampleType   SampleType     `json:"sample_type"`
	TargetID     string         `json:"target"`
	TargetType   TargetType     `json:"target_type"`
	DyeID        string         `json:"target_dye_id"`
	Cq           *float64       `json:"cq,omitempty"`
	Extra        map[string]any `json:"extra,omitempty"`
}

// Table is the flat projection of a document's measurement hierarchy,
// ordered experiment → run → reaction → target in insertion order.
type Table struct {
	Rows []Row
}

// Row returns the row named by fdata name.
func (t *Table) Row(name string) (Row, bool) {
	for _, r := range t.Rows {
		if r.FDataName == name {
			return r, true
		}
	}
	return Row{}, false
}

// Names returns every fdata name in table order.
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, r.FDataName)
	}
	return out
}

type tableConfig struct {
	filter  func(RowContext) bool
	columns []computedColumn
}

type computedColumn struct {
	name string
	fn   func(RowContext) any
}

// TableOption customises Document.Table.
type TableOption func(*tableConfig)

// WithFilter keeps only rows for which fn returns true.
func WithFilter(fn func(RowContext) bool) TableOption {
	return func(c *tableConfig) { c.filter = fn }
}

// WithColumn injects a computed column evaluated per row with the row's
// entities in scope; the result lands in Row.Extra under name.
func WithColumn(name string, fn func(RowContext) any) TableOption {
	return func(c *tableConfig) { c.columns = append(c.columns, computedColumn{name: name, fn: fn}) }
}

// Table flattens the tree into one row per (experiment, run, reaction,
// target) tuple that carries a fluorescence curve or computed value. The
// composed fdata name is unique by construction.
func (d *Document) Table(opts ...TableOption) *Table {
	var cfg tableConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	table := &Table{}
	for _, exp := range d.Experiments.Values() {
		for _, run := range exp.Runs.Values() {
			for _, react := range run.Reacts.Values() {
				for _, data := range react.Data.Values() {
					if !data.HasMeasurement() {
						continue
					}
					ctx := RowContext{
						Document:   d,
						Experiment: exp,
						Run:        run,
						React:      react,
						Data:       data,
					}
					if sample, ok := d.Samples.Get(string(react.SampleRef)); ok {
						ctx.Sample = sample
					}
					if target, ok := d.Targets.Get(string(data.TargetRef)); ok {
						ctx.Target = target
					}
					if cfg.filter != nil && !cfg.filter(ctx) {
						continue
					}
					row := Row{
						FDataName:    fdataName(exp.ID, run.ID, react.ID, string(data.TargetRef)),
						ExperimentID: exp.ID,
						RunID:        run.ID,
						ReactID:      react.ID,
						Position:     wellPosition(react.ID, run.PCRFormat),
						SampleID:     string(react.SampleRef),
						SampleType:   ctx.Sample.Type,
						TargetID:     string(data.TargetRef),
						TargetType:   ctx.Target.Type,
						DyeID:        string(ctx.Target.DyeRef),
						Cq:           data.Cq,
					}
					for _, col := range cfg.columns {
						if row.Extra == nil {
							row.Extra = make(map[string]any, len(cfg.columns))
						}
						row.Extra[col.name] = col.fn(ctx)
					}
					table.Rows = append(table.Rows, row)
				}
			}
		}
	}
	return table
}

// fdataName composes the four-part descriptor name. Ids may themselves
// contain the separator, so such components are percent-escaped first;
// distinct tuples can then never compose the same name. Ids without "_"
// or "%" keep the plain joined form.
func fdataName(expID, runID, reactID, target string) string {
	parts := []string{expID, runID, reactID, target}
	for i, p := range parts {
		if strings.ContainsAny(p, "_%") {
			p = strings.ReplaceAll(p, "%", "%25")
			parts[i] = strings.ReplaceAll(p, "_", "%5F")
		}
	}
	return strings.Join(parts, "_")
}

// wellPosition maps a numeric reaction id to its plate position using the
// run's declared geometry, e.g. react 13 on a 96-well ABC-labelled plate is
// "B1". Reactions without a usable geometry keep their raw id.
func wellPosition(reactID string, format *PCRFormat) string {
	if format == nil || format.Columns <= 0 || format.RowLabel != "ABC" {
		return reactID
	}
	n, err := strconv.Atoi(reactID)
	if err != nil || n <= 0 {
		return reactID
	}
	row := (n - 1) / format.Columns
	col := (n-1)%format.Columns + 1
	label := ""
	for {
		label = string(rune('A'+row%26)) + label
		row = row/26 - 1
		if row < 0 {
			break
		}
	}
	return fmt.Sprintf("%s%d", label, col)
}
