package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"
)

func newTempFS(t *testing.T) *Filesystem {
	fs, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystem: %v", err)
	}
	return fs
}

func TestFilesystem_PutGetHeadListDelete(t *testing.T) {
	ctx := context.Background()
	fs := newTempFS(t)
	info, err := fs.Put(ctx, "runs/plate1.rdml", bytes.NewReader([]byte("hello")), PutOptions{ContentType: ContentTypeContainer, Metadata: map[string]string{"rdml_version": "1.2"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "runs/plate1.rdml" || info.Size != 5 {
		t.Fatalf("unexpected info %+v", info)
	}
	// create-only: second put under the same key must fail
	if _, err := fs.Put(ctx, "runs/plate1.rdml", bytes.NewReader([]byte("x")), PutOptions{}); err == nil {
		t.Fatalf("expected duplicate failure")
	}
	h, err := fs.Head(ctx, "runs/plate1.rdml")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if h.ETag == "" || h.ContentType != ContentTypeContainer {
		t.Fatalf("head metadata wrong: %+v", h)
	}
	g, rc, err := fs.Get(ctx, "runs/plate1.rdml")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	if err := rc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if string(b) != "hello" || g.ETag != h.ETag {
		t.Fatalf("unexpected get artifacts")
	}
	list, err := fs.List(ctx, "runs/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Key != "runs/plate1.rdml" {
		t.Fatalf("unexpected list %+v", list)
	}
	if _, err := fs.PresignURL(ctx, "runs/plate1.rdml", SignedURLOptions{}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("presign on fs must be unsupported, got %v", err)
	}
	ok, err := fs.Delete(ctx, "runs/plate1.rdml")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	ok, err = fs.Delete(ctx, "runs/plate1.rdml")
	if err != nil || ok {
		t.Fatalf("second delete should be false")
	}
}

func TestFilesystem_PathTraversal(t *testing.T) {
	ctx := context.Background()
	fs := newTempFS(t)
	if _, err := fs.Put(ctx, "../escape.rdml", bytes.NewReader([]byte("x")), PutOptions{}); err == nil {
		t.Fatalf("expected traversal error")
	}
	if _, err := fs.Put(ctx, "/abs.rdml", bytes.NewReader([]byte("x")), PutOptions{}); err == nil {
		t.Fatalf("expected absolute error")
	}
	if _, err := fs.Put(ctx, "  ", bytes.NewReader([]byte("x")), PutOptions{}); err == nil {
		t.Fatalf("expected empty key error")
	}
}

func TestFilesystem_SidecarPersistence(t *testing.T) {
	ctx := context.Background()
	fs := newTempFS(t)
	if _, err := fs.Put(ctx, "doc.rdml", bytes.NewReader([]byte("abc")), PutOptions{ContentType: ContentTypeMarkup, Metadata: map[string]string{"rdml_version": "1.3"}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	dataPath, metaPath, err := fs.paths("doc.rdml")
	if err != nil {
		t.Fatalf("paths: %v", err)
	}
	if _, err := os.Stat(dataPath); err != nil {
		t.Fatalf("expected data path: %v", err)
	}
	b, err := os.ReadFile(metaPath)
	if err != nil {
		t.Fatalf("read sidecar: %v", err)
	}
	if !bytes.Contains(b, []byte(ContentTypeMarkup)) || !bytes.Contains(b, []byte("1.3")) {
		t.Fatalf("sidecar missing metadata: %s", b)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if m.Driver() != DriverMemory {
		t.Fatalf("driver = %s", m.Driver())
	}
	if _, err := m.Put(ctx, "a", bytes.NewReader([]byte("one")), PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := m.Put(ctx, "a", bytes.NewReader([]byte("two")), PutOptions{}); err == nil {
		t.Fatalf("expected create-only failure")
	}
	_, rc, err := m.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "one" {
		t.Fatalf("content = %q", b)
	}
	if _, _, err := m.Get(ctx, "missing"); err == nil {
		t.Fatalf("expected not found")
	}
	list, err := m.List(ctx, "")
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %v", list, err)
	}
	ok, err := m.Delete(ctx, "a")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	t.Setenv("RDMLCORE_BLOB_DRIVER", "memory")
	store, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Driver() != DriverMemory {
		t.Fatalf("driver = %s", store.Driver())
	}

	t.Setenv("RDMLCORE_BLOB_DRIVER", "bogus")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}
