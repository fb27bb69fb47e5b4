package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-fixer/internal/ai/gemini"
	"github.com/spigell/resume-fixer/internal/editor"
	"github.com/spigell/resume-fixer/internal/logger"
	"github.com/spigell/resume-fixer/internal/resume"
	"github.com/spigell/resume-fixer/internal/secrets"
	"github.com/spigell/resume-fixer/internal/store"
)

// application bundles what every command needs: config, logger and the store.
type application struct {
	ctx    context.Context
	cancel context.CancelFunc
	config *Config
	logger *zap.Logger
	store  *store.Store
}

func newApplication() *application {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting the resume-fixer", zap.String("version", version), zap.String("db", config.DB))

	db, err := store.Open(config.DB, logger)
	if err != nil {
		logger.Fatal("opening the resume store",
			zap.Error(err),
			zap.String("hint", "set --db, RESUME_FIXER_DB or the 'db' key in the configuration file"),
		)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &application{
		ctx:    ctx,
		cancel: cancel,
		config: config,
		logger: logger,
		store:  db,
	}
}

func (a *application) Close() {
	a.cancel()
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing the resume store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func (a *application) record(id string) *resume.Record {
	record, err := a.store.Get(a.ctx, strings.TrimSpace(id))
	if err != nil {
		a.logger.Fatal("loading resume", logger.RecordID(id), zap.Error(err),
			zap.String("hint", "run 'resume-fixer list' to see stored resumes"))
	}
	return record
}

func (a *application) generator() *gemini.Generator {
	cfg := a.config.AI
	if cfg == nil {
		cfg = &AIConfig{}
	}
	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		a.logger.Fatal("unsupported ai provider", zap.String("provider", cfg.Provider))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		a.logger.Fatal("loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY, GEMINI_API_KEY_FILE or ai.gemini.api-key-file in the configuration file"),
		)
	}

	generator, err := gemini.NewGenerator(a.ctx, gemini.GeneratorConfig{
		APIKey:     apiKey,
		Model:      cfg.Gemini.Model,
		MaxRetries: cfg.Gemini.MaxRetries,
	}, a.logger)
	if err != nil {
		a.logger.Fatal("creating gemini client", zap.Error(err))
	}

	return generator
}

func (a *application) geminiConfig() *GeminiConfig {
	if a.config.AI == nil || a.config.AI.Gemini == nil {
		return &GeminiConfig{}
	}
	return a.config.AI.Gemini
}

func (a *application) analyzer(generator *gemini.Generator) *gemini.Analyzer {
	return gemini.NewAnalyzer(generator, a.geminiConfig().MaxLogLength, a.logger.Named("analyzer"))
}

func (a *application) fixer(generator *gemini.Generator) *gemini.Fixer {
	fixer := gemini.NewFixer(generator, a.geminiConfig().MaxLogLength, a.logger.Named("fixer"))
	fixer.SetInstructions(a.geminiConfig().Instructions)
	return fixer
}

func (a *application) describer(generator *gemini.Generator) *gemini.Describer {
	return gemini.NewDescriber(generator, a.logger.Named("describer"))
}

// session opens an editing session for a stored record. AI collaborators are
// created only when withAI is set so offline commands need no API key.
func (a *application) session(record *resume.Record, withAI bool) *editor.Session {
	deps := &editor.Deps{
		Record:   record,
		Texts:    a.store,
		Feedback: a.store,
		Logger:   a.logger,
	}

	if withAI {
		generator := a.generator()
		deps.Fixer = a.fixer(generator)
		deps.Analyzer = a.analyzer(generator)
	}

	session, err := editor.NewSession(a.config.Fix, deps)
	if err != nil {
		a.logger.Fatal("opening editing session", zap.Error(err))
	}
	return session
}

func readTextFile(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
