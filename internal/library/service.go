// Package library orchestrates the document archive and the reaction index
// behind one service: import parses, validates, indexes, and archives a
// document; export loads and re-serializes it. Caller-supplied processors
// hook custom per-dataset handling into import without touching the schema.
package library

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"rdmlcore/internal/blob"
	"rdmlcore/internal/index"
	"rdmlcore/internal/metrics"
	"rdmlcore/pkg/rdml"
)

// Processor is a caller-supplied hook run against the parsed tree during
// import, after validation and before indexing. It may mutate the tree;
// the mutated form is what gets archived and indexed.
type Processor func(*rdml.Document) error

// Service ties the archive and index together.
type Service struct {
	archive    blob.Store
	idx        index.Index
	metrics    *metrics.Library
	logger     *log.Logger
	processors []namedProcessor
}

type namedProcessor struct {
	name string
	fn   Processor
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics registers library collectors against reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Service) { s.metrics = metrics.NewLibrary(reg) }
}

// WithLogger directs rollback failures during import to logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithProcessor appends a named import hook. Processors run in registration
// order; the first failure aborts the import.
func WithProcessor(name string, fn Processor) Option {
	return func(s *Service) { s.processors = append(s.processors, namedProcessor{name: name, fn: fn}) }
}

// New constructs a service over the given archive and index.
func New(archive blob.Store, idx index.Index, opts ...Option) *Service {
	s := &Service{archive: archive, idx: idx}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewLibrary(nil)
	}
	return s
}

// Open builds a service from the process environment: blob driver and index
// driver selection are documented in their packages.
func Open(ctx context.Context, opts ...Option) (*Service, error) {
	archive, err := blob.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	idx, err := index.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return New(archive, idx, opts...), nil
}

// Import parses data (plain markup or container), validates it, runs the
// registered processors, indexes the flattened table, and archives the
// document under key in the compressed container form. The returned tree is
// the processed form.
func (s *Service) Import(ctx context.Context, key string, data []byte) (*rdml.Document, error) {
	doc, err := rdml.Parse(data)
	if err != nil {
		s.metrics.ImportFailures.Inc()
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		s.metrics.ImportFailures.Inc()
		return nil, err
	}
	for _, p := range s.processors {
		if err := p.fn(doc); err != nil {
			s.metrics.ProcessorFailures.Inc()
			return nil, fmt.Errorf("processor %s: %w", p.name, err)
		}
	}
	archived, err := doc.MarshalCompressed()
	if err != nil {
		return nil, err
	}
	// Archive first: the create-only Put is the duplicate-key gate, and a
	// rejected re-import must leave the existing index entry untouched.
	_, err = s.archive.Put(ctx, key, bytes.NewReader(archived), blob.PutOptions{
		ContentType: blob.ContentTypeContainer,
		Metadata:    map[string]string{"rdml_version": doc.Version},
	})
	if err != nil {
		return nil, fmt.Errorf("archive %s: %w", key, err)
	}
	table := doc.Table()
	if err := s.idx.ReplaceDocument(ctx, key, table.Rows); err != nil {
		// Roll the archived blob back so archive and index stay in step.
		if _, derr := s.archive.Delete(ctx, key); derr != nil && s.logger != nil {
			s.logger.Printf("library: archive rollback for %s: %v", key, derr)
		}
		return nil, fmt.Errorf("index %s: %w", key, err)
	}
	s.metrics.DocumentsImported.Inc()
	s.metrics.RowsIndexed.Add(float64(len(table.Rows)))
	return doc, nil
}

// Load fetches and parses the archived document under key.
func (s *Service) Load(ctx context.Context, key string) (*rdml.Document, error) {
	_, rc, err := s.archive.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return rdml.Parse(data)
}

// Export loads the archived document under key and re-serializes it, plain
// or compressed.
func (s *Service) Export(ctx context.Context, key string, compress bool) ([]byte, error) {
	doc, err := s.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	var out []byte
	if compress {
		out, err = doc.MarshalCompressed()
	} else {
		out, err = doc.Marshal()
	}
	if err != nil {
		return nil, err
	}
	s.metrics.DocumentsExported.Inc()
	return out, nil
}

// Rows returns the indexed descriptor rows for an archived document.
func (s *Service) Rows(ctx context.Context, key string) ([]rdml.Row, error) {
	return s.idx.Rows(ctx, key)
}

// Documents lists archived document keys known to the index.
func (s *Service) Documents(ctx context.Context) ([]string, error) {
	return s.idx.Documents(ctx)
}

// Delete removes a document from both archive and index.
func (s *Service) Delete(ctx context.Context, key string) (bool, error) {
	existed, err := s.archive.Delete(ctx, key)
	if err != nil {
		return false, err
	}
	if _, err := s.idx.DeleteDocument(ctx, key); err != nil {
		return existed, err
	}
	return existed, nil
}
