// Package app provides application initialization and dependency wiring.
//
// App is the container that assembles the chat assistant: configuration,
// Genkit, the PostgreSQL-backed document store, the archive provisioner,
// the answer pipeline, and the report renderer.
package app

import (
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dokseo0/dokseo/internal/assets"
	"github.com/dokseo0/dokseo/internal/config"
	"github.com/dokseo0/dokseo/internal/knowledge"
	"github.com/dokseo0/dokseo/internal/pipeline"
	"github.com/dokseo0/dokseo/internal/report"
	"github.com/dokseo0/dokseo/internal/session"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Genkit   *genkit.Genkit
	Embedder ai.Embedder
	DBPool   *pgxpool.Pool

	Knowledge   *knowledge.Store
	Provisioner *assets.Provisioner
	Pipeline    *pipeline.Pipeline
	History     *session.History
	Reporter    *report.Renderer
}

// Close gracefully shuts down all resources.
func (a *App) Close() error {
	if a.Logger != nil {
		a.Logger.Info("shutting down application")
	}

	if a.DBPool != nil {
		a.DBPool.Close()
		if a.Logger != nil {
			a.Logger.Info("database pool closed")
		}
	}

	return nil
}
