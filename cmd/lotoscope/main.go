package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/lotoscope/lotoscope/internal/config"
	"github.com/lotoscope/lotoscope/internal/gemini"
	"github.com/lotoscope/lotoscope/internal/logger"
	"github.com/lotoscope/lotoscope/internal/models"
	"github.com/lotoscope/lotoscope/internal/parser"
	"github.com/lotoscope/lotoscope/internal/predict"
	"github.com/lotoscope/lotoscope/internal/prompt"
	"github.com/lotoscope/lotoscope/internal/render"
	"github.com/lotoscope/lotoscope/internal/stats"
	"github.com/lotoscope/lotoscope/internal/storage"
	"github.com/lotoscope/lotoscope/internal/telegram"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")
	drawFile   = flag.String("file", "", "Draw history file (.csv or .json); overrides source.file_path")
	doPredict  = flag.Bool("predict", false, "Request a prediction even when disabled in config")
	randomOnly = flag.Bool("random", false, "Generate a random duplicate-aware ticket instead of calling the API")
	topK       = flag.Int("top", 10, "Size of the frequency ranking shown on screen")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	// Cancel outstanding work on interrupt.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := storage.New(ctx, cfg.Storage.DBPath)
	if err != nil {
		logger.Fatal("Failed to initialize storage: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage: %v", err)
		}
	}()

	draws, err := loadHistory(ctx, cfg, store)
	if err != nil {
		logger.Fatal("Failed to load draw history: %v", err)
	}
	if len(draws) == 0 {
		logger.Fatal("Draw history is empty: nothing to analyze")
	}
	logger.Info("Loaded %d draws", len(draws))

	if cfg.Source.MergePredictions {
		predictions, err := store.ListPredictions(ctx)
		if err != nil {
			logger.Warn("Failed to load archived predictions: %v", err)
		} else if len(predictions) > 0 {
			draws = predict.MergePredictions(draws, predictions)
			logger.Info("Merged %d archived predictions as synthetic draws", len(predictions))
		}
	}

	report, err := stats.Compute(draws)
	if err != nil {
		logger.Fatal("Failed to compute statistics: %v", err)
	}

	render.Report(os.Stdout, report, len(draws), *topK)

	var prediction *models.Prediction
	if cfg.Prediction.Enabled || *doPredict || *randomOnly {
		prediction = requestPrediction(ctx, cfg, report, draws)
		if prediction != nil {
			if err := store.SavePrediction(ctx, prediction); err != nil {
				logger.Warn("Failed to archive prediction: %v", err)
			}
		}
	}

	if cfg.Telegram.Enabled {
		client, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID,
			cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			logger.Error("Failed to initialize Telegram client: %v", err)
		} else if err := client.SendDigest(report, len(draws), prediction); err != nil {
			logger.Error("Failed to send Telegram digest: %v", err)
		} else {
			logger.Info("Telegram digest sent")
		}
	}
}

// loadHistory reads the draw file when configured and persists it; otherwise it
// falls back to the draws already stored in the database.
func loadHistory(ctx context.Context, cfg *config.Config, store *storage.Storage) ([]models.Draw, error) {
	path := cfg.Source.FilePath
	if *drawFile != "" {
		path = *drawFile
	}

	if _, err := os.Stat(path); err == nil {
		draws, err := parser.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := store.SaveDraws(ctx, draws); err != nil {
			logger.Warn("Failed to persist draws: %v", err)
		}
		return draws, nil
	}

	logger.Info("Draw file %s not found, using stored history", path)
	return store.LoadDraws(ctx)
}

// requestPrediction produces the next ticket: either from the text-generation
// service fed with the report summary, or from the local duplicate-aware
// random generator. Returns nil when no ticket could be produced.
func requestPrediction(ctx context.Context, cfg *config.Config, report *stats.Report, draws []models.Draw) *models.Prediction {
	if !*randomOnly && cfg.Prediction.APIKey != "" {
		client := gemini.NewClient(
			cfg.Prediction.APIBaseURL,
			cfg.Prediction.Model,
			cfg.Prediction.APIKey,
			cfg.Prediction.Timeout,
			cfg.Prediction.MaxRetries,
			cfg.Prediction.RetryDelayBase,
		)

		body := prompt.Build(report, len(draws), cfg.Prediction.TopK)
		logger.Debug("Prediction prompt:\n%s", body)

		numbers, err := client.Predict(ctx, body)
		if err == nil {
			logger.Info("Prediction received: %v", numbers)
			return &models.Prediction{
				ID:        uuid.New().String(),
				Numbers:   numbers,
				Source:    "gemini",
				CreatedAt: time.Now(),
			}
		}
		logger.Error("Prediction request failed: %v", err)
		logger.Info("Falling back to random generation")
	}

	numbers, err := predict.NewGenerator(draws).Ticket()
	if err != nil {
		logger.Error("Random generation failed: %v", err)
		return nil
	}
	logger.Info("Generated random ticket: %v", numbers)
	return &models.Prediction{
		ID:        uuid.New().String(),
		Numbers:   numbers,
		Source:    "random",
		CreatedAt: time.Now(),
	}
}
