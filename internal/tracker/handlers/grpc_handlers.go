package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/team16/easytracker/internal/tracker/auth"
	e "github.com/team16/easytracker/internal/tracker/errors"
	"github.com/team16/easytracker/internal/tracker/models"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TrackerHandler provides the gRPC methods of the tracker service,
// mapping requests to a TrackerController.
type TrackerHandler struct {
	service   TrackerController
	jwtSecret string
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewTrackerHandler constructs a TrackerHandler. Login tokens are signed
// with jwtSecret and expire after tokenTTL.
func NewTrackerHandler(service TrackerController, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *TrackerHandler {
	return &TrackerHandler{
		service:   service,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger.Named("grpc_handler"),
	}
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%w: %s %d", e.ErrNotFound, kind, id)
}

// SaveAddress stores a new address.
func (h *TrackerHandler) SaveAddress(ctx context.Context, req *AddressMessage) (*IDResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "address data required")
	}

	id, err := h.service.SaveAddress(ctx, addressFromMessage(req))
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &IDResponse{ID: id}, nil
}

// LoadAddress fetches an address by id.
func (h *TrackerHandler) LoadAddress(ctx context.Context, req *IDRequest) (*AddressMessage, error) {
	address, err := h.service.LoadAddress(ctx, req.ID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	if address == nil {
		return nil, h.mapServiceError(notFound("address", req.ID))
	}
	return addressToMessage(address), nil
}

// SaveCompany stores a new company.
func (h *TrackerHandler) SaveCompany(ctx context.Context, req *CompanyMessage) (*IDResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "company data required")
	}

	id, err := h.service.SaveCompany(ctx, companyFromMessage(req))
	if err != nil {
		h.logger.Error("Save company failed", zap.Error(err))
		return nil, h.mapServiceError(err)
	}
	return &IDResponse{ID: id}, nil
}

// LoadCompany fetches a company by id.
func (h *TrackerHandler) LoadCompany(ctx context.Context, req *IDRequest) (*CompanyMessage, error) {
	company, err := h.service.LoadCompany(ctx, req.ID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	if company == nil {
		return nil, h.mapServiceError(notFound("company", req.ID))
	}
	return companyToMessage(company), nil
}

// CompanyWorkers lists the workers of a company.
func (h *TrackerHandler) CompanyWorkers(ctx context.Context, req *IDRequest) (*MembershipList, error) {
	list, err := h.service.CompanyWorkers(ctx, req.ID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return membershipsToList(list), nil
}

// SaveWorker registers a new worker.
func (h *TrackerHandler) SaveWorker(ctx context.Context, req *WorkerMessage) (*IDResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "worker data required")
	}

	worker, err := workerFromMessage(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	id, err := h.service.SaveWorker(ctx, worker)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &IDResponse{ID: id}, nil
}

// LoadWorker fetches a worker by id. The password is not returned.
func (h *TrackerHandler) LoadWorker(ctx context.Context, req *IDRequest) (*WorkerMessage, error) {
	worker, err := h.service.LoadWorker(ctx, req.ID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	if worker == nil {
		return nil, h.mapServiceError(notFound("worker", req.ID))
	}
	return workerToMessage(worker), nil
}

// LoginWorker checks the credentials and returns the worker with a token.
func (h *TrackerHandler) LoginWorker(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if req == nil || req.Email == "" {
		return nil, status.Error(codes.InvalidArgument, "email required")
	}

	worker, err := h.service.LoginWorker(ctx, req.Email, req.Password)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	if worker == nil {
		h.logger.Info("Rejected login", zap.String("email", req.Email))
		return nil, h.mapServiceError(e.ErrInvalidCredentials)
	}

	token, err := auth.GenerateToken(worker.ID, h.jwtSecret, h.tokenTTL)
	if err != nil {
		return nil, h.mapServiceError(fmt.Errorf("failed to issue token: %w", err))
	}
	return &LoginResponse{
		Worker: workerToMessage(worker),
		Token:  token,
	}, nil
}

// WorkerCompanies lists the companies a worker belongs to.
func (h *TrackerHandler) WorkerCompanies(ctx context.Context, req *IDRequest) (*MembershipList, error) {
	list, err := h.service.WorkerCompanies(ctx, req.ID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return membershipsToList(list), nil
}

// WorkerTrackings lists a worker's tracking records.
func (h *TrackerHandler) WorkerTrackings(ctx context.Context, req *IDRequest) (*TrackingList, error) {
	list, err := h.service.WorkerTrackings(ctx, req.ID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	out := &TrackingList{Trackings: make([]*TrackingMessage, 0, len(list))}
	for _, t := range list {
		out.Trackings = append(out.Trackings, trackingToMessage(t))
	}
	return out, nil
}

// SaveTracking stores a new tracking record.
func (h *TrackerHandler) SaveTracking(ctx context.Context, req *TrackingMessage) (*IDResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "tracking data required")
	}

	id, err := h.service.SaveTracking(ctx, trackingFromMessage(req))
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &IDResponse{ID: id}, nil
}

// LoadTracking fetches a tracking record by id.
func (h *TrackerHandler) LoadTracking(ctx context.Context, req *IDRequest) (*TrackingMessage, error) {
	tracking, err := h.service.LoadTracking(ctx, req.ID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	if tracking == nil {
		return nil, h.mapServiceError(notFound("tracking", req.ID))
	}
	return trackingToMessage(tracking), nil
}

// AddWorkerToCompany associates a worker with a company.
func (h *TrackerHandler) AddWorkerToCompany(ctx context.Context, req *MembershipMessage) (*AddWorkerResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "membership data required")
	}

	added, err := h.service.AddWorkerToCompany(ctx, req.WorkerID, req.CompanyID, req.Position)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &AddWorkerResponse{Added: added}, nil
}

// RegisterBluetoothDevice records a Bluetooth device for a worker.
func (h *TrackerHandler) RegisterBluetoothDevice(ctx context.Context, req *DeviceMessage) (*IDResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "device data required")
	}

	id, err := h.service.RegisterBluetoothDevice(ctx, &models.BluetoothDevice{
		WorkerID: req.WorkerID,
		Name:     req.Name,
		MAC:      req.MAC,
	})
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &IDResponse{ID: id}, nil
}

// WorkerBluetoothDevices lists a worker's registered devices.
func (h *TrackerHandler) WorkerBluetoothDevices(ctx context.Context, req *IDRequest) (*DeviceList, error) {
	list, err := h.service.WorkerBluetoothDevices(ctx, req.ID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	out := &DeviceList{Devices: make([]*DeviceMessage, 0, len(list))}
	for _, d := range list {
		out.Devices = append(out.Devices, deviceToMessage(d))
	}
	return out, nil
}
