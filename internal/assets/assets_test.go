package assets

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dokseo0/dokseo/internal/knowledge"
	"github.com/dokseo0/dokseo/internal/log"
)

// fakeStore implements Store for testing.
type fakeStore struct {
	mu     sync.Mutex
	count  int
	loaded []knowledge.Chunk
}

func (f *fakeStore) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count, nil
}

func (f *fakeStore) Load(_ context.Context, chunks []knowledge.Chunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded = append(f.loaded, chunks...)
	f.count += len(chunks)
	return nil
}

// buildArchive produces an in-memory zip with one chunks.jsonl entry,
// padded past the minimum-size check.
func buildArchive(t *testing.T, lines []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	f, err := w.Create("chunks.jsonl")
	if err != nil {
		t.Fatalf("creating zip entry: %v", err)
	}
	for _, line := range lines {
		fmt.Fprintln(f, line)
	}

	// Stored uncompressed so the archive clears the minimum-size check.
	pad, err := w.CreateHeader(&zip.FileHeader{Name: "padding.bin", Method: zip.Store})
	if err != nil {
		t.Fatalf("creating padding entry: %v", err)
	}
	if _, err := pad.Write(bytes.Repeat([]byte("x"), minArchiveSize)); err != nil {
		t.Fatalf("writing padding: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

func chunkLine(id, content string) string {
	return fmt.Sprintf(`{"id":%q,"content":%q,"source":"이용규정","embedding":[0.1,0.2]}`, id, content)
}

func TestParseArchive(t *testing.T) {
	data := buildArchive(t, []string{
		chunkLine("c1", "대출 기간은 7일입니다."),
		"", // blank lines are skipped
		chunkLine("c2", "연장은 1회 가능합니다."),
	})

	chunks, err := ParseArchive(data)
	if err != nil {
		t.Fatalf("ParseArchive() error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("parsed %d chunks, want 2", len(chunks))
	}
	if chunks[0].ID != "c1" || chunks[1].ID != "c2" {
		t.Error("chunk order not preserved")
	}
	if len(chunks[0].Embedding) != 2 {
		t.Error("embedding not parsed")
	}
}

func TestParseArchive_RejectsGarbage(t *testing.T) {
	if _, err := ParseArchive([]byte("not a zip file")); !errors.Is(err, ErrBadArchive) {
		t.Errorf("expected ErrBadArchive for non-zip data, got %v", err)
	}
}

func TestParseArchive_RejectsEmptyArchive(t *testing.T) {
	data := buildArchive(t, nil)
	if _, err := ParseArchive(data); !errors.Is(err, ErrBadArchive) {
		t.Errorf("expected ErrBadArchive for archive without records, got %v", err)
	}
}

func TestParseArchive_RejectsMalformedRecord(t *testing.T) {
	data := buildArchive(t, []string{"{broken json"})
	if _, err := ParseArchive(data); !errors.Is(err, ErrBadArchive) {
		t.Errorf("expected ErrBadArchive for malformed record, got %v", err)
	}
}

func TestEnsure_DownloadsAndLoads(t *testing.T) {
	archive := buildArchive(t, []string{chunkLine("c1", "내용")})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	store := &fakeStore{}
	p, err := New(Config{ArchiveURL: srv.URL, Store: store, Logger: log.NewNop()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := p.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure() error: %v", err)
	}
	if len(store.loaded) != 1 {
		t.Fatalf("loaded %d chunks, want 1", len(store.loaded))
	}
}

func TestEnsure_NoOpWhenStoreAlreadyLoaded(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := &fakeStore{count: 42}
	p, err := New(Config{ArchiveURL: srv.URL, Store: store, Logger: log.NewNop()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := p.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure() error: %v", err)
	}
	if requests != 0 {
		t.Errorf("made %d download requests for an already-loaded store, want 0", requests)
	}
}

func TestEnsure_MemoizedAfterSuccess(t *testing.T) {
	requests := 0
	archive := buildArchive(t, []string{chunkLine("c1", "내용")})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	store := &fakeStore{}
	p, err := New(Config{ArchiveURL: srv.URL, Store: store, Logger: log.NewNop()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := p.Ensure(context.Background()); err != nil {
			t.Fatalf("Ensure() call %d error: %v", i, err)
		}
	}
	if requests != 1 {
		t.Errorf("made %d download requests, want 1 (memoized)", requests)
	}
}

func TestEnsure_ConcurrentFirstAccessLoadsOnce(t *testing.T) {
	requests := 0
	archive := buildArchive(t, []string{chunkLine("c1", "내용")})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	store := &fakeStore{}
	p, err := New(Config{ArchiveURL: srv.URL, Store: store, Logger: log.NewNop()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Ensure(context.Background()); err != nil {
				t.Errorf("Ensure() error: %v", err)
			}
		}()
	}
	wg.Wait()

	if requests != 1 {
		t.Errorf("made %d download requests under concurrent access, want 1", requests)
	}
	if len(store.loaded) != 1 {
		t.Errorf("loaded %d chunks, want 1", len(store.loaded))
	}
}

func TestEnsure_UndersizedArchiveFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("quota exceeded error page"))
	}))
	defer srv.Close()

	p, err := New(Config{ArchiveURL: srv.URL, Store: &fakeStore{}, Logger: log.NewNop()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := p.Ensure(context.Background()); !errors.Is(err, ErrBadArchive) {
		t.Errorf("expected ErrBadArchive for undersized download, got %v", err)
	}
}

func TestEnsure_FailureIsRetryable(t *testing.T) {
	archive := buildArchive(t, []string{chunkLine("c1", "내용")})
	fail := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if fail {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	store := &fakeStore{}
	p, err := New(Config{ArchiveURL: srv.URL, Store: store, Logger: log.NewNop()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := p.Ensure(context.Background()); !errors.Is(err, ErrDownloadFailed) {
		t.Fatalf("expected ErrDownloadFailed, got %v", err)
	}

	fail = false
	if err := p.Ensure(context.Background()); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if len(store.loaded) != 1 {
		t.Errorf("loaded %d chunks after retry, want 1", len(store.loaded))
	}
}
