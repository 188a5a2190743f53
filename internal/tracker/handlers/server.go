// Package handlers provides gRPC and HTTP server implementations for
// serving the TrackerService, bridging the transport layer and business
// logic, translating between wire messages and domain models.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/team16/easytracker/internal/tracker/auth"
	"github.com/team16/easytracker/internal/tracker/models"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// TrackerController defines the business logic interface
// that the gRPC/HTTP handlers will invoke.
type TrackerController interface {
	SaveAddress(ctx context.Context, address *models.Address) (int64, error)
	LoadAddress(ctx context.Context, id int64) (*models.Address, error)
	SaveCompany(ctx context.Context, company *models.Company) (int64, error)
	LoadCompany(ctx context.Context, id int64) (*models.Company, error)
	CompanyWorkers(ctx context.Context, companyID int64) ([]*models.WorkerCompany, error)
	SaveWorker(ctx context.Context, worker *models.Worker) (int64, error)
	LoadWorker(ctx context.Context, id int64) (*models.Worker, error)
	LoginWorker(ctx context.Context, email, password string) (*models.Worker, error)
	WorkerCompanies(ctx context.Context, workerID int64) ([]*models.WorkerCompany, error)
	WorkerTrackings(ctx context.Context, workerID int64) ([]*models.Tracking, error)
	SaveTracking(ctx context.Context, tracking *models.Tracking) (int64, error)
	LoadTracking(ctx context.Context, id int64) (*models.Tracking, error)
	AddWorkerToCompany(ctx context.Context, workerID, companyID int64, position string) (bool, error)
	RegisterBluetoothDevice(ctx context.Context, device *models.BluetoothDevice) (int64, error)
	WorkerBluetoothDevices(ctx context.Context, workerID int64) ([]*models.BluetoothDevice, error)
}

// Server holds references to both a gRPC server and an HTTP server.
type Server struct {
	grpcServer   *grpc.Server
	httpServer   *http.Server
	logger       *zap.Logger
	grpcEndpoint string
	httpEndpoint string
}

// NewServer constructs a Server with separate endpoints for gRPC and HTTP.
func NewServer(
	grpcPort int,
	httpPort int,
	logger *zap.Logger,
	grpcOpts ...grpc.ServerOption,
) *Server {
	return &Server{
		grpcServer:   grpc.NewServer(grpcOpts...),
		httpServer:   &http.Server{ReadHeaderTimeout: 10 * time.Second},
		logger:       logger.Named("server"),
		grpcEndpoint: fmt.Sprintf(":%d", grpcPort),
		httpEndpoint: fmt.Sprintf(":%d", httpPort),
	}
}

// RegisterGRPCHandler registers the gRPC handler for the TrackerService.
func (s *Server) RegisterGRPCHandler(h TrackerServer) {
	s.grpcServer.RegisterService(&TrackerServiceDesc, h)
}

// RegisterHTTPGateway sets up the HTTP/JSON routes behind the auth middleware.
func (s *Server) RegisterHTTPGateway(h *TrackerHandler, jwtSecret string) error {
	mux := runtime.NewServeMux()
	if err := h.RegisterRoutes(mux); err != nil {
		return err
	}

	s.httpServer.Handler = auth.HTTPMiddleware(mux, jwtSecret, isProtectedRequest)
	s.httpServer.Addr = s.httpEndpoint
	return nil
}

// Start runs the gRPC and HTTP servers concurrently, returning on the first error.
func (s *Server) Start() error {
	var wg sync.WaitGroup
	wg.Add(2)
	errChan := make(chan error, 2)

	// Start gRPC Server
	go func() {
		defer wg.Done()
		s.logger.Info("Starting gRPC server", zap.String("endpoint", s.grpcEndpoint))
		lis, err := net.Listen("tcp", s.grpcEndpoint)
		if err != nil {
			errChan <- fmt.Errorf("gRPC listen error: %w", err)
			return
		}
		if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC serve error: %w", err)
		}
	}()

	// Start HTTP Server
	go func() {
		defer wg.Done()
		s.logger.Info("Starting HTTP server", zap.String("endpoint", s.httpEndpoint))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP serve error: %w", err)
		}
	}()

	go func() {
		wg.Wait()
		close(errChan)
	}()

	for err := range errChan {
		if err != nil {
			return err
		}
	}
	return nil
}

// Stop gracefully shuts down both gRPC and HTTP servers.
func (s *Server) Stop() {
	s.logger.Info("Shutting down servers...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.grpcServer.GracefulStop()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	s.logger.Info("Servers stopped")
}
