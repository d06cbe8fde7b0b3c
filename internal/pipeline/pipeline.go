// Package pipeline orchestrates one retrieval-augmented answer turn.
//
// Per turn: derive the retrieval query, fetch top-k passages, compose the
// mode-aware prompt, invoke the language model, and return the plain answer
// text. Each turn is one blocking round trip — no caching, no retries, no
// token streaming.
//
// Degrade policy (fixed for the deployment, never per-call): when the
// document store reports it is unavailable, the turn proceeds with an empty
// context section instead of failing. The base persona instructs the model
// to admit it lacks grounding information. Availability over silence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"golang.org/x/time/rate"

	"github.com/dokseo0/dokseo/internal/knowledge"
	"github.com/dokseo0/dokseo/internal/mode"
	"github.com/dokseo0/dokseo/internal/profile"
	"github.com/dokseo0/dokseo/internal/prompt"
	"github.com/dokseo0/dokseo/internal/query"
	"github.com/dokseo0/dokseo/internal/session"
)

// Default deadlines for the two blocking I/O steps.
const (
	DefaultRetrievalTimeout  = 10 * time.Second
	DefaultGenerationTimeout = 60 * time.Second
)

// Retriever is the document-store lookup the pipeline depends on.
// knowledge.Store is the production implementation.
type Retriever interface {
	Search(ctx context.Context, query string, opts ...knowledge.SearchOption) ([]knowledge.Passage, error)
}

// Config contains all required parameters for the pipeline.
type Config struct {
	Genkit    *genkit.Genkit
	Retriever Retriever
	Logger    *slog.Logger

	// ModelName is the provider-qualified model (e.g. "googleai/gemini-2.5-flash").
	ModelName string

	// History receives the completed exchange after a successful turn.
	// Optional: nil means the caller owns history entirely.
	History *session.History

	// TopK caps retrieved passages per turn. Zero selects knowledge.DefaultTopK.
	TopK int

	// I/O deadlines. Zero values select the package defaults.
	RetrievalTimeout  time.Duration
	GenerationTimeout time.Duration

	// RateLimiter guards the generation call. Nil selects a default of
	// 10 req/s with burst 30.
	RateLimiter *rate.Limiter
}

func (cfg Config) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.Retriever == nil {
		return errors.New("retriever is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.ModelName == "" {
		return errors.New("model name is required")
	}
	return nil
}

// Pipeline answers one student question per call.
//
// Stateless between turns apart from the optional history; all
// configuration is captured immutably at construction, so a single
// Pipeline is safe for concurrent sessions.
type Pipeline struct {
	g         *genkit.Genkit
	retriever Retriever
	logger    *slog.Logger
	history   *session.History

	modelName         string
	topK              int
	retrievalTimeout  time.Duration
	generationTimeout time.Duration
	limiter           *rate.Limiter
}

// New creates a Pipeline with required configuration.
func New(cfg Config) (*Pipeline, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = knowledge.DefaultTopK
	}
	retrievalTimeout := cfg.RetrievalTimeout
	if retrievalTimeout <= 0 {
		retrievalTimeout = DefaultRetrievalTimeout
	}
	generationTimeout := cfg.GenerationTimeout
	if generationTimeout <= 0 {
		generationTimeout = DefaultGenerationTimeout
	}
	limiter := cfg.RateLimiter
	if limiter == nil {
		limiter = rate.NewLimiter(10, 30)
	}

	return &Pipeline{
		g:                 cfg.Genkit,
		retriever:         cfg.Retriever,
		logger:            cfg.Logger,
		history:           cfg.History,
		modelName:         cfg.ModelName,
		topK:              topK,
		retrievalTimeout:  retrievalTimeout,
		generationTimeout: generationTimeout,
		limiter:           limiter,
	}, nil
}

// Request is one student turn.
type Request struct {
	Mode      mode.Mode
	Utterance string
	Profile   profile.Profile
}

// Answer runs one turn: rewrite → retrieve → compose → generate → extract.
//
// The rewritten query is used for retrieval only; the prompt's question
// slot always carries the original utterance. On success the exchange is
// appended to the configured history; on any error the history is left
// untouched.
func (p *Pipeline) Answer(ctx context.Context, req Request) (string, error) {
	retrievalQuery := query.ForRetrieval(req.Mode, req.Utterance, req.Profile)

	passages, err := p.retrieve(ctx, retrievalQuery)
	if err != nil {
		return "", err
	}

	texts := make([]string, len(passages))
	for i, passage := range passages {
		texts[i] = passage.Content
	}
	doc := prompt.Compose(req.Mode, req.Profile.Summary(), texts, req.Utterance)

	answer, err := p.generate(ctx, doc)
	if err != nil {
		return "", err
	}

	if p.history != nil {
		p.history.AddExchange(req.Utterance, answer)
	}

	p.logger.Debug("turn completed",
		"mode", req.Mode.Label(),
		"passages", len(passages),
		"answer_length", len(answer))
	return answer, nil
}

// retrieve fetches passages for the rewritten query, applying the degrade
// policy: an unavailable index yields an empty passage list, a deadline
// yields ErrTimeout.
func (p *Pipeline) retrieve(ctx context.Context, retrievalQuery string) ([]knowledge.Passage, error) {
	retrCtx, cancel := context.WithTimeout(ctx, p.retrievalTimeout)
	defer cancel()

	passages, err := p.retriever.Search(retrCtx, retrievalQuery,
		knowledge.WithTopK(p.topK),
		knowledge.WithTimeout(p.retrievalTimeout))
	switch {
	case err == nil:
		return passages, nil
	case errors.Is(err, context.DeadlineExceeded):
		return nil, fmt.Errorf("%w: retrieval: %w", ErrTimeout, err)
	case errors.Is(err, knowledge.ErrUnavailable):
		p.logger.Warn("document index unavailable, answering without context", "error", err)
		return nil, nil
	default:
		// Unclassified retrieval failures are treated like an unreachable
		// store: degrade rather than fail the turn.
		p.logger.Warn("retrieval failed, answering without context", "error", err)
		return nil, nil
	}
}

// generate invokes the language model with the rendered prompt document and
// extracts plain text from the structured response.
func (p *Pipeline) generate(ctx context.Context, doc string) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, p.generationTimeout)
	defer cancel()

	if err := p.limiter.Wait(genCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: waiting for rate limiter: %w", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: rate limiter: %w", ErrGenerationFailed, err)
	}

	resp, err := genkit.Generate(genCtx, p.g,
		ai.WithModelName(p.modelName),
		ai.WithMessages(ai.NewUserMessage(ai.NewTextPart(doc))),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: generation: %w", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: model returned empty response", ErrGenerationFailed)
	}
	return text, nil
}
