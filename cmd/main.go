package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"engmarket/internal/config"
	"engmarket/utils"
)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zcfg.Build()
}

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML config file")
	addrFlag := flag.String("addr", "", "HTTP network address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *addrFlag != "" {
		cfg.Server.Address = *addrFlag
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	infoLog, err := zap.NewStdLogAt(logger.Named("http"), zap.InfoLevel)
	if err != nil {
		logger.Fatal("info log", zap.Error(err))
	}
	errorLog, err := zap.NewStdLogAt(logger.Named("http"), zap.ErrorLevel)
	if err != nil {
		logger.Fatal("error log", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("catalog", zap.Error(err))
	}

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("stores", zap.Error(err))
	}
	defer st.close()

	resolver, err := newResolver(cfg)
	if err != nil {
		logger.Fatal("media", zap.Error(err))
	}

	signingKey := cfg.Session.SigningKey
	if signingKey == "" {
		// Sessions issued with a random key do not survive a restart.
		signingKey = utils.RandomKey()
		logger.Warn("SESSION_SIGNING_KEY not set, using a random key")
	}
	tokens, err := utils.NewManager(signingKey, cfg.Session.TTL)
	if err != nil {
		logger.Fatal("session tokens", zap.Error(err))
	}

	app := initializeApp(cfg, cat, st, resolver, tokens, logger, errorLog, infoLog)

	go app.wsManager.Run()
	defer app.wsManager.Close()

	limiterDone := make(chan struct{})
	go app.signupLimiter.Run(limiterDone)
	defer close(limiterDone)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{sessionHeader},
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		ErrorLog:     errorLog,
		Handler:      addSecurityHeaders(c.Handler(app.routes())),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}
}
