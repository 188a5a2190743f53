package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/team16/easytracker/internal/tracker/auth"
	"github.com/team16/easytracker/internal/tracker/config"
	"github.com/team16/easytracker/internal/tracker/controller"
	"github.com/team16/easytracker/internal/tracker/db"
	"github.com/team16/easytracker/internal/tracker/events"
	"github.com/team16/easytracker/internal/tracker/handlers"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// eventProducer is what main needs from a producer: send and shut down.
type eventProducer interface {
	controller.EventProducer
	Close()
}

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := db.NewRepositoryWithRetry(cfg.Database(), logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer repo.Close()

	producer := initProducer(cfg, logger)
	defer producer.Close()

	hasher, err := auth.NewPasswordHasher(cfg.PasswordHasher)
	if err != nil {
		logger.Fatal("failed to initialize password hasher", zap.Error(err))
	}
	if hasher.Name() == auth.HasherPlain {
		logger.Warn("passwords are stored in plaintext; set PASSWORD_HASHER: bcrypt for new stores")
	}

	trackerSvc := controller.NewTrackerService(repo, producer, hasher, cfg.CacheTTL, logger)

	// Create handlers
	trackerHandler := handlers.NewTrackerHandler(trackerSvc, cfg.JWTSecret, cfg.TokenTTL, logger)

	// Initialize auth interceptor
	authInterceptor := auth.NewAuthInterceptor(cfg.JWTSecret, handlers.ProtectedMethods()...)
	// Create server
	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger, grpc.UnaryInterceptor(authInterceptor.Unary()))
	server.RegisterGRPCHandler(trackerHandler)

	// Register HTTP gateway
	if err := server.RegisterHTTPGateway(trackerHandler, cfg.JWTSecret); err != nil {
		logger.Fatal("Failed to register HTTP gateway", zap.Error(err))
	}

	// Start servers
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start servers", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// initProducer returns a Kafka producer, or a no-op one when no brokers are configured.
func initProducer(cfg *config.Config, logger *zap.Logger) eventProducer {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("no Kafka brokers configured, events are discarded")
		return events.NopProducer{}
	}
	events.EnsureTopic(cfg.KafkaBrokers, cfg.Topic, logger)
	return events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then shuts down servers.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Servers stopped properly")
}
