package canvas

import (
	"context"
	"errors"
	"testing"
	"time"

	"canvas-studio-be/pkg/storage"
	"canvas-studio-be/pkg/storage/memory"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("backend down")
}
func (failingBackend) Set(context.Context, string, []byte) error {
	return errors.New("backend down")
}
func (failingBackend) Remove(context.Context, string) error { return errors.New("backend down") }
func (failingBackend) Keys(context.Context) ([]string, error) {
	return nil, errors.New("backend down")
}

func TestPersisterFlushAndLoad(t *testing.T) {
	bound := storage.NewBounded(memory.NewBackend(), 1<<20)
	ctx := context.Background()

	s := NewStore()
	s.AddNodePreview("c1", NodePreview{ID: "u1", Kind: KindDocument})
	s.SetCanvasTitle("c1", "First")
	s.SetShowEdges(false)

	p := NewPersister(s, bound, "ws-1", nopLogger{})
	if err := p.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	fresh := NewStore()
	if err := NewPersister(fresh, bound, "ws-1", nopLogger{}).Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg, ok := fresh.Config("c1")
	if !ok {
		t.Fatal("canvas c1 missing after load")
	}
	if got := previewIDs(cfg); !equalIDs(got, []string{"u1"}) {
		t.Errorf("previews = %v, want [u1]", got)
	}
	f := fresh.Flags()
	if f.CanvasTitle["c1"] != "First" {
		t.Errorf("CanvasTitle = %v, want restored title", f.CanvasTitle)
	}
	if f.ShowEdges {
		t.Error("ShowEdges = true, want persisted false")
	}
}

func TestPersisterLoadMissingKeyIsNoop(t *testing.T) {
	bound := storage.NewBounded(memory.NewBackend(), 1<<20)

	s := NewStore()
	if err := NewPersister(s, bound, "never-written", nopLogger{}).Load(context.Background()); err != nil {
		t.Fatalf("Load of missing key: %v", err)
	}
	if f := s.Flags(); !f.ShowPreview || f.NodeSizeMode != NodeSizeMedium {
		t.Errorf("defaults disturbed by missing-key load: %+v", f)
	}
}

func TestPersisterLoadCorruptEntry(t *testing.T) {
	backend := memory.NewBackend()
	if err := backend.Set(context.Background(), "ws-1", []byte("not json")); err != nil {
		t.Fatalf("seed backend: %v", err)
	}
	bound := storage.NewBounded(backend, 1<<20)

	err := NewPersister(NewStore(), bound, "ws-1", nopLogger{}).Load(context.Background())
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *PersistenceError", err)
	}
	if perr.Key != "ws-1" {
		t.Errorf("Key = %q, want %q", perr.Key, "ws-1")
	}
}

func TestPersisterFlushFailureIsNonFatal(t *testing.T) {
	bound := storage.NewBounded(failingBackend{}, 1<<20)

	s := NewStore()
	s.AddNodePreview("c1", NodePreview{ID: "u1"})

	err := NewPersister(s, bound, "ws-1", nopLogger{}).Flush(context.Background())
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *PersistenceError", err)
	}

	// The in-memory state stays authoritative.
	s.AddNodePreview("c1", NodePreview{ID: "p1", IsPinned: true})
	cfg, _ := s.Config("c1")
	if got := previewIDs(cfg); !equalIDs(got, []string{"u1", "p1"}) {
		t.Errorf("store state after failed flush = %v, want [u1 p1]", got)
	}
}

func TestPersisterFlushesOnChangeEvents(t *testing.T) {
	bound := storage.NewBounded(memory.NewBackend(), 1<<20)
	ctx := context.Background()

	s := NewStore()
	p := NewPersister(s, bound, "ws-1", nopLogger{})
	p.Start()

	s.AddNodePreview("c1", NodePreview{ID: "u1"})

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, found, err := bound.Get(ctx, "ws-1"); err == nil && found {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("snapshot was never flushed after a mutation")
		}
		time.Sleep(10 * time.Millisecond)
	}

	p.Stop()

	fresh := NewStore()
	if err := NewPersister(fresh, bound, "ws-1", nopLogger{}).Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := fresh.Config("c1"); !ok {
		t.Error("flushed snapshot does not contain the mutation")
	}
}
