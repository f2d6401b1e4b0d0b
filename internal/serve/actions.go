package serve

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/dtnitsch/llms-builder/models"
	"github.com/dtnitsch/llms-builder/pkg/db"
	"github.com/dtnitsch/llms-builder/pkg/enhance"
	"github.com/dtnitsch/llms-builder/pkg/llm"
	"github.com/dtnitsch/llms-builder/pkg/pipeline"
	"github.com/urfave/cli/v2"
)

func ServeAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	if c.IsSet("output-dir") {
		cfg.OutputDir = c.String("output-dir")
	}

	database, err := db.Open()
	if err != nil {
		logger.Warn("failed to open database, runs will not be recorded", "error", err)
		database = nil
	} else {
		defer database.Close()
	}

	// Enhancement over HTTP works only when the key is present at startup.
	var enhancer *enhance.Enhancer
	if completer, err := llm.NewOpenAI(cfg.Enhance); err == nil {
		enhancer = enhance.New(completer, cfg.Enhance, nil, logger)
	} else {
		logger.Info("LLM backend unavailable, enhance option will be ignored", "error", err)
	}

	p := pipeline.New(cfg, enhancer, database, logger)
	server := NewServer(c.String("addr"), p, logger)

	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(2)
	}
	return nil
}
