package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	// Application
	"github.com/dreschagin/prompt-server/internal/application/usecase"

	// Infrastructure
	natsInfra "github.com/dreschagin/prompt-server/internal/infrastructure/messaging/nats"
	wsInfra "github.com/dreschagin/prompt-server/internal/infrastructure/notification/websocket"
	"github.com/dreschagin/prompt-server/internal/infrastructure/observability/metrics"
	"github.com/dreschagin/prompt-server/internal/infrastructure/persistence/filesystem"
	s3storage "github.com/dreschagin/prompt-server/internal/infrastructure/storage/s3"
	"github.com/dreschagin/prompt-server/internal/infrastructure/watcher"

	// Interfaces
	httpInterface "github.com/dreschagin/prompt-server/internal/interfaces/http"
	"github.com/dreschagin/prompt-server/internal/interfaces/http/handler"

	// Shared
	"github.com/dreschagin/prompt-server/pkg/config"
	"github.com/dreschagin/prompt-server/pkg/logger"
)

func main() {
	// 1. Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Создаем каталоги логов и промптов
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.PromptsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create directory %s: %v\n", dir, err)
			os.Exit(1)
		}
	}

	// 3. Инициализируем logger (файл дня, только дозапись)
	log, logFile := logger.NewFile(cfg.Logging.Level, cfg.Paths.LogFile, cfg.Logging.Stdout)
	defer logFile.Close()
	log.Info("Starting prompt server", "serve_dir", cfg.Paths.ServeDir)

	// 4. TLS и listener
	tlsConfig, err := loadTLSConfig(cfg.TLS.CertFile, cfg.TLS.KeyFile)
	if err != nil {
		log.Error("Failed to load TLS configuration", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	listener, err := listenTLS(cfg.Server.Addr(), tlsConfig)
	if err != nil {
		log.Error("Failed to bind listener", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 5. Dependency Injection - Infrastructure Layer

	// Repository
	promptRepository := filesystem.NewFilesystemPromptRepository(cfg.Paths.PromptsDir)

	// WebSocket Hub
	hub := wsInfra.NewHub(log)
	effects := usecase.PromptSideEffects{Notifier: hub}

	// Prometheus metrics
	var promMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		promMetrics = metrics.New(registry)
		effects.Recorder = promMetrics
		log.Info("Prometheus metrics enabled", "path", "/metrics")
	}

	// NATS Event Publisher
	if cfg.NATS.Enabled {
		publisherImpl, initErr := natsInfra.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, log)
		if initErr != nil {
			log.Warn("Failed to connect to NATS, continuing without event publishing", "error", initErr.Error())
		} else {
			effects.Publisher = publisherImpl
			defer publisherImpl.Close()
			log.Info("NATS event publisher initialized", "url", cfg.NATS.URL)
		}
	} else {
		log.Debug("NATS event publishing is disabled")
	}

	// S3 mirror
	if cfg.S3.Enabled {
		mirrorImpl, initErr := s3storage.NewPromptMirror(ctx, s3storage.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
			KeyPrefix:       cfg.S3.KeyPrefix,
		})
		if initErr != nil {
			log.Error("Failed to initialize S3 prompt mirror", initErr)
			os.Exit(1)
		}
		effects.Mirror = mirrorImpl
		log.Info("S3 prompt mirror initialized", "bucket", cfg.S3.Bucket)
	}

	// 6. Dependency Injection - Application Layer (Use Cases)

	listPromptsUC := usecase.NewListPromptsUseCase(promptRepository, effects, log)
	checkPromptExistsUC := usecase.NewCheckPromptExistsUseCase(promptRepository, effects, log)
	savePromptUC := usecase.NewSavePromptUseCase(promptRepository, effects, log)
	deletePromptUC := usecase.NewDeletePromptUseCase(promptRepository, effects, log)

	// 7. Dependency Injection - Interfaces Layer (HTTP Handlers)

	promptAPIHandler := handler.NewPromptAPIHandler(
		listPromptsUC,
		checkPromptExistsUC,
		savePromptUC,
		deletePromptUC,
		cfg.Server.MaxBodyBytes,
		cfg.Security.ExposeErrorDetails,
		log,
	)
	websocketHandler := handler.NewWebSocketHandler(hub, log)
	staticHandler := handler.NewStaticHandler(cfg.Paths.ServeDir)

	router := httpInterface.NewRouter(
		promptAPIHandler,
		websocketHandler,
		staticHandler,
		promMetrics, // nil если метрики выключены
		log,
	)

	// 8. Запускаем фоновые процессы

	go hub.Run(ctx)

	if cfg.Watch.Enabled {
		promptsWatcher, initErr := watcher.NewPromptsWatcher(promptRepository.Dir(), hub, promptRepository, log)
		if initErr != nil {
			log.Warn("Prompts watcher is unavailable", "error", initErr.Error())
		} else {
			go promptsWatcher.Run(ctx)
		}
	}

	// 9. Настраиваем HTTP сервер

	server := &http.Server{
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	url := cfg.Server.URL()
	fmt.Printf("Serving %s at %s\n", cfg.Paths.ServeDir, url)
	fmt.Printf("Logging to %s\n", cfg.Paths.LogFile)
	fmt.Printf("Prompts directory is %s\n", promptRepository.Dir())

	if cfg.Browser.Open {
		openBrowser(url, log)
	}

	// Канал для получения сигналов ОС
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Запускаем сервер в отдельной goroutine
	go func() {
		log.Info("HTTPS server starting", "addr", cfg.Server.Addr())

		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTPS server failed", err)
			os.Exit(1)
		}
	}()

	// 10. Ожидаем сигнал для graceful shutdown

	<-sigChan
	fmt.Println("\nShutting down…")

	// Останавливаем hub и watcher
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	log.Info("Server shutdown.")
}
