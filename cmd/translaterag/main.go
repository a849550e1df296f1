package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"translaterag/internal/config"
	"translaterag/internal/embedding"
	"translaterag/internal/generate"
	"translaterag/internal/rag"
	"translaterag/internal/server"
	"translaterag/internal/vectorstore/sqlite"
)

var (
	version    = "0.1.0"
	configPath string
)

func main() {
	root := &cobra.Command{
		Use:   "translaterag",
		Short: "Retrieval-augmented translation and question answering",
		Long: "TranslateRAG indexes uploaded documents in a local vector store and uses\n" +
			"them as context for translation and question answering through Ollama.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: ~/.translaterag/config.json)")

	root.AddCommand(initCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveConfigPath()
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config already exists at %s", path)
			}
			if err := config.Save(path, config.Defaults()); err != nil {
				return err
			}
			fmt.Printf("wrote default config to %s\n", path)
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return err
	}

	logger := newLogger(cfg.General.LogLevel)

	// All shared services are built once here and injected; nothing is
	// initialized lazily behind a global.
	embedder := embedding.NewClient(embedding.Config{
		APIBase: cfg.Ollama.APIBase,
		Model:   cfg.Ollama.EmbeddingModel,
		Timeout: time.Duration(cfg.Ollama.EmbedTimeoutSeconds) * time.Second,
		Logger:  logger,
	})
	generator := generate.NewClient(generate.Config{
		APIBase: cfg.Ollama.APIBase,
		Model:   cfg.Ollama.Model,
		Timeout: time.Duration(cfg.Ollama.GenerateTimeoutSeconds) * time.Second,
		Logger:  logger,
	})

	store, err := sqlite.New(sqlite.Config{
		Path:     cfg.Store.DBPath,
		Embedder: embedder,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	engine, err := rag.NewEngine(rag.EngineConfig{
		Store:       store,
		IndexPolicy: cfg.Chunking.Index,
		TopK:        cfg.Retrieval.TranslateTopK,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		Engine:          engine,
		Generator:       generator,
		UploadDir:       cfg.General.UploadDir,
		TranslatePolicy: cfg.Chunking.Translate,
		TranslateTopK:   cfg.Retrieval.TranslateTopK,
		AskTopK:         cfg.Retrieval.AskTopK,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting translaterag", "version", version, "store", cfg.Store.DBPath, "model", cfg.Ollama.Model)
	return srv.Start(ctx)
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the model backend and vector store are reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return err
			}
			logger := newLogger("warn")

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			generator := generate.NewClient(generate.Config{
				APIBase: cfg.Ollama.APIBase,
				Model:   cfg.Ollama.Model,
				Logger:  logger,
			})
			if err := generator.Healthy(ctx); err != nil {
				fmt.Printf("FAIL model backend at %s: %v\n", cfg.Ollama.APIBase, err)
				return err
			}
			fmt.Printf("ok   model backend at %s\n", cfg.Ollama.APIBase)

			store, err := sqlite.New(sqlite.Config{
				Path:     cfg.Store.DBPath,
				Embedder: embedding.NewClient(embedding.Config{APIBase: cfg.Ollama.APIBase, Logger: logger}),
				Logger:   logger,
			})
			if err != nil {
				fmt.Printf("FAIL vector store at %s: %v\n", cfg.Store.DBPath, err)
				return err
			}
			defer store.Close()

			docs, err := store.ListGroups(ctx)
			if err != nil {
				fmt.Printf("FAIL vector store query: %v\n", err)
				return err
			}
			fmt.Printf("ok   vector store at %s (%d documents)\n", cfg.Store.DBPath, len(docs))
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("translaterag v%s\n", version)
		},
	}
}

func newLogger(level string) *slog.Logger {
	var lv slog.Level
	switch level {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv}))
}
