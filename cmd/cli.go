package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dokseo0/dokseo/internal/app"
	"github.com/dokseo0/dokseo/internal/config"
	"github.com/dokseo0/dokseo/internal/log"
	"github.com/dokseo0/dokseo/internal/mode"
	"github.com/dokseo0/dokseo/internal/profile"
	"github.com/dokseo0/dokseo/internal/session"
)

// Turn flags shared by the root, chat, and ask commands.
var (
	flagMode     string
	flagGrade    string
	flagInterest string
	flagLevel    string
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagMode, "mode", "도서관 이용 안내", "대화 모드: '도서관 이용 안내', '책 추천', '독서활동'")
	pf.StringVar(&flagGrade, "grade", "", "학교급: 초등, 중등, 고등 (기본: 없음)")
	pf.StringVar(&flagInterest, "interest", "", "관심 분야 (자유 입력)")
	pf.StringVar(&flagLevel, "level", "", "읽기 수준: 쉬움, 보통, 어려움 (기본: 없음)")
}

// initLogger initializes the structured logger.
// DEBUG env var (any value) enables debug level.
func initLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	return log.New(log.Config{Level: level})
}

// setupApp loads configuration and assembles the application.
func setupApp(ctx context.Context) (*app.App, error) {
	logger := initLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing application: %w", err)
	}
	return a, nil
}

// parseTurnFlags converts the shared flag values into a mode and profile.
func parseTurnFlags() (mode.Mode, profile.Profile, error) {
	m, err := mode.Parse(flagMode)
	if err != nil {
		return mode.LibraryInfo, profile.Profile{}, err
	}

	grade, err := profile.ParseGrade(flagGrade)
	if err != nil {
		return m, profile.Profile{}, err
	}
	level, err := profile.ParseLevel(flagLevel)
	if err != nil {
		return m, profile.Profile{}, err
	}

	return m, profile.Profile{Grade: grade, Interest: flagInterest, Level: level}, nil
}

// Transcript is the saved form of one chat session.
type Transcript struct {
	ID             string         `json:"id"`
	ModeLabel      string         `json:"mode"`
	ProfileSummary string         `json:"profile"`
	CreatedAt      time.Time      `json:"created_at"`
	Turns          []session.Turn `json:"turns"`
}

// transcriptsDir returns ~/.dokseo/transcripts, creating it if needed.
func transcriptsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting user home directory: %w", err)
	}
	dir := filepath.Join(home, ".dokseo", "transcripts")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating transcripts directory: %w", err)
	}
	return dir, nil
}

// saveTranscript writes the session to a new JSON file and returns its path.
func saveTranscript(m mode.Mode, p profile.Profile, turns []session.Turn) (string, error) {
	dir, err := transcriptsDir()
	if err != nil {
		return "", err
	}

	tr := Transcript{
		ID:             uuid.NewString(),
		ModeLabel:      m.Label(),
		ProfileSummary: p.Summary(),
		CreatedAt:      time.Now(),
		Turns:          turns,
	}

	data, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding transcript: %w", err)
	}

	path := filepath.Join(dir, tr.ID+".json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing transcript: %w", err)
	}
	return path, nil
}

// loadTranscript reads a transcript JSON file.
func loadTranscript(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}
	var tr Transcript
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("decoding transcript %s: %w", path, err)
	}
	return &tr, nil
}
