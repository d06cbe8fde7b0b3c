// Package assets provisions the pre-built document collection.
//
// The collection ships as a zip archive of JSONL chunk records (text plus
// precomputed embeddings) hosted on a remote file host. Provisioning
// downloads the archive, parses it, and loads the chunks into the store.
// It runs before the first search and is idempotent: a store that already
// holds documents is left untouched.
package assets

import (
	"archive/zip"
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/dokseo0/dokseo/internal/knowledge"
)

// minArchiveSize rejects error pages served with a 200 status in place of
// the real archive (the file host does this for quota errors).
const minArchiveSize = 1000

// Sentinel errors for provisioning.
var (
	// ErrBadArchive indicates the downloaded archive is truncated,
	// unreadable, or contains no chunk records.
	ErrBadArchive = errors.New("bad document archive")

	// ErrDownloadFailed indicates the archive could not be fetched.
	ErrDownloadFailed = errors.New("archive download failed")
)

// Store is the destination for provisioned chunks.
// knowledge.Store is the production implementation.
type Store interface {
	Count(ctx context.Context) (int, error)
	Load(ctx context.Context, chunks []knowledge.Chunk) error
}

// Config contains all required parameters for the Provisioner.
type Config struct {
	// ArchiveURL locates the zip archive of chunk records.
	ArchiveURL string

	// Store receives the parsed chunks.
	Store Store

	// HTTP is the client used for the download. Nil selects a default
	// resty client.
	HTTP *resty.Client

	// Logger for progress reporting. Nil selects slog.Default().
	Logger *slog.Logger
}

// Provisioner loads the document collection exactly once per process.
//
// Ensure is safe for concurrent first access: the load runs at most once,
// concurrent callers block until it completes, and calls after a successful
// load are no-ops. A failed attempt is retryable on the next call.
type Provisioner struct {
	archiveURL string
	store      Store
	client     *resty.Client
	logger     *slog.Logger

	mu     sync.Mutex
	loaded bool
}

// New creates a Provisioner.
func New(cfg Config) (*Provisioner, error) {
	if cfg.ArchiveURL == "" {
		return nil, errors.New("archive URL is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	client := cfg.HTTP
	if client == nil {
		client = resty.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Provisioner{
		archiveURL: cfg.ArchiveURL,
		store:      cfg.Store,
		client:     client,
		logger:     logger,
	}, nil
}

// Ensure makes the document collection available, downloading and loading
// the archive if the store is empty. Idempotent and memoized.
func (p *Provisioner) Ensure(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		return nil
	}

	count, err := p.store.Count(ctx)
	if err == nil && count > 0 {
		p.logger.Debug("document collection already loaded", "chunks", count)
		p.loaded = true
		return nil
	}

	p.logger.Info("downloading document archive", "url", p.archiveURL)
	archive, err := p.download(ctx)
	if err != nil {
		return err
	}

	chunks, err := ParseArchive(archive)
	if err != nil {
		return err
	}

	if err := p.store.Load(ctx, chunks); err != nil {
		return fmt.Errorf("loading chunks into store: %w", err)
	}

	p.logger.Info("document collection provisioned", "chunks", len(chunks))
	p.loaded = true
	return nil
}

// download fetches the archive into memory.
func (p *Provisioner) download(ctx context.Context) ([]byte, error) {
	resp, err := p.client.R().SetContext(ctx).Get(p.archiveURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %s", ErrDownloadFailed, resp.Status())
	}
	body := resp.Body()
	if len(body) < minArchiveSize {
		return nil, fmt.Errorf("%w: archive is %d bytes", ErrBadArchive, len(body))
	}
	return body, nil
}

// ParseArchive extracts chunk records from a zip archive. Every .jsonl
// entry is read; each non-empty line is one JSON chunk record.
func ParseArchive(data []byte) ([]knowledge.Chunk, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadArchive, err)
	}

	var chunks []knowledge.Chunk
	for _, file := range reader.File {
		if !strings.HasSuffix(file.Name, ".jsonl") {
			continue
		}
		fileChunks, err := parseJSONL(file)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, fileChunks...)
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunk records found", ErrBadArchive)
	}
	return chunks, nil
}

func parseJSONL(file *zip.File) ([]knowledge.Chunk, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrBadArchive, file.Name, err)
	}
	defer rc.Close()

	var chunks []knowledge.Chunk
	scanner := bufio.NewScanner(rc)
	// Chunk records carry full embedding vectors; lines run long.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var chunk knowledge.Chunk
		if err := json.Unmarshal([]byte(text), &chunk); err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %w", ErrBadArchive, file.Name, line, err)
		}
		chunks = append(chunks, chunk)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("%w: %s line %d exceeds record size limit", ErrBadArchive, file.Name, line+1)
		}
		return nil, fmt.Errorf("%w: reading %s: %w", ErrBadArchive, file.Name, err)
	}
	return chunks, nil
}

// ReadArchiveFile is a convenience for loading a local archive in tests and
// offline provisioning.
func ReadArchiveFile(r io.Reader) ([]knowledge.Chunk, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadArchive, err)
	}
	return ParseArchive(data)
}
