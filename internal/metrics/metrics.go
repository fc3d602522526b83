// Package metrics exposes prometheus instrumentation for the document
// library. Collectors register against a caller-supplied registry so tests
// can run isolated registries side by side.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Library counts document-level operations of the library service.
type Library struct {
	DocumentsImported prometheus.Counter
	DocumentsExported prometheus.Counter
	ImportFailures    prometheus.Counter
	RowsIndexed       prometheus.Counter
	ProcessorFailures prometheus.Counter
}

// NewLibrary constructs and registers the library collectors.
func NewLibrary(reg prometheus.Registerer) *Library {
	m := &Library{
		DocumentsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rdmlcore",
			Name:      "documents_imported_total",
			Help:      "RDML documents parsed and archived.",
		}),
		DocumentsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rdmlcore",
			Name:      "documents_exported_total",
			Help:      "RDML documents serialized for export.",
		}),
		ImportFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rdmlcore",
			Name:      "import_failures_total",
			Help:      "Imports rejected by parse or validation.",
		}),
		RowsIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rdmlcore",
			Name:      "table_rows_indexed_total",
			Help:      "Flattened reaction rows written to the index.",
		}),
		ProcessorFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rdmlcore",
			Name:      "processor_failures_total",
			Help:      "Caller-supplied processors that returned an error.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.DocumentsImported, m.DocumentsExported, m.ImportFailures, m.RowsIndexed, m.ProcessorFailures)
	}
	return m
}
