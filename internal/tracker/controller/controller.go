// Package controller implements the core business logic (service layer)
// of the tracker: it validates input, normalises times, hashes and checks
// passwords, caches reads and sends events around repository operations.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/team16/easytracker/internal/tracker/auth"
	"github.com/team16/easytracker/internal/tracker/db"
	e "github.com/team16/easytracker/internal/tracker/errors"
	"github.com/team16/easytracker/internal/tracker/events"
	"github.com/team16/easytracker/internal/tracker/models"
	"go.uber.org/zap"
)

const maxCompanyNameLength = 100

// dummyPassword is hashed once and compared on logins with an unknown
// email, so both paths cost one hash comparison.
const dummyPassword = "easytracker-unknown-worker"

type EventProducer interface {
	Produce(event events.Event)
}

// Repository defines the storage interface the service works against.
type Repository interface {
	Exists(ctx context.Context, kind db.Kind, id int64) (bool, error)
	SaveAddress(ctx context.Context, address *models.Address) (int64, error)
	LoadAddress(ctx context.Context, id int64) (*models.Address, error)
	SaveCompany(ctx context.Context, company *models.Company) (int64, error)
	LoadCompany(ctx context.Context, id int64) (*models.Company, error)
	SaveWorker(ctx context.Context, worker *models.Worker) (int64, error)
	LoadWorker(ctx context.Context, id int64) (*models.Worker, error)
	FindWorkerByEmail(ctx context.Context, email string) (*models.Worker, error)
	WorkerExistsByEmail(ctx context.Context, email string) (bool, error)
	SaveTracking(ctx context.Context, tracking *models.Tracking) (int64, error)
	LoadTracking(ctx context.Context, id int64) (*models.Tracking, error)
	ListWorkerTrackings(ctx context.Context, workerID int64) ([]*models.Tracking, error)
	AddWorkerToCompany(ctx context.Context, workerID, companyID int64, position string) (bool, error)
	ListWorkerCompanies(ctx context.Context, workerID int64) ([]*models.WorkerCompany, error)
	ListCompanyWorkers(ctx context.Context, companyID int64) ([]*models.WorkerCompany, error)
	SaveBluetoothDevice(ctx context.Context, device *models.BluetoothDevice) (int64, error)
	ListWorkerBluetoothDevices(ctx context.Context, workerID int64) ([]*models.BluetoothDevice, error)
	ExecScript(ctx context.Context, script io.Reader) (int, error)
	Close() error
}

// TrackerService provides the tracker operations on top of a repository.
type TrackerService struct {
	repo     Repository
	producer EventProducer
	hasher   auth.PasswordHasher
	cache    *cache.Cache
	logger   *zap.Logger
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewTrackerService constructs a TrackerService. Loaded entities are
// cached for cacheTTL; a non-positive TTL disables caching.
func NewTrackerService(
	repo Repository,
	producer EventProducer,
	hasher auth.PasswordHasher,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *TrackerService {
	var c *cache.Cache
	if cacheTTL > 0 {
		c = cache.New(cacheTTL, 2*cacheTTL)
	}
	return &TrackerService{
		repo:     repo,
		producer: producer,
		hasher:   hasher,
		cache:    c,
		logger:   logger.Named("tracker_service"),
		now:      time.Now,
	}
}

func (s *TrackerService) publish(eventType events.EventType, entityID int64, payload interface{}) {
	event := events.NewEvent(eventType, entityID, payload)
	go func() {
		s.producer.Produce(event)
	}()
}

// mustExist returns ErrInvalidInput when the referenced row is missing.
func (s *TrackerService) mustExist(ctx context.Context, kind db.Kind, id int64) error {
	ok, err := s.repo.Exists(ctx, kind, id)
	if err != nil {
		return fmt.Errorf("failed to check %s existence: %w", kind, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s %d does not exist", e.ErrInvalidInput, kind, id)
	}
	return nil
}

// SaveAddress stores a new address and returns its id.
func (s *TrackerService) SaveAddress(ctx context.Context, address *models.Address) (int64, error) {
	if address.Street == "" || address.City == "" {
		return 0, fmt.Errorf("%w: street and city are required", e.ErrInvalidInput)
	}

	id, err := s.repo.SaveAddress(ctx, address)
	if err != nil {
		return 0, fmt.Errorf("failed to save address: %w", err)
	}
	s.publish(events.AddressSaved, id, address)
	return id, nil
}

// LoadAddress returns the address with id, or nil when there is none.
func (s *TrackerService) LoadAddress(ctx context.Context, id int64) (*models.Address, error) {
	return cached(s, cacheKey("address", id), func() (*models.Address, error) {
		return s.repo.LoadAddress(ctx, id)
	})
}

// SaveCompany stores a company located at an existing address.
func (s *TrackerService) SaveCompany(ctx context.Context, company *models.Company) (int64, error) {
	if company.Name == "" || len(company.Name) > maxCompanyNameLength {
		return 0, fmt.Errorf("%w: invalid name", e.ErrInvalidInput)
	}
	if err := s.mustExist(ctx, db.KindAddress, company.AddressID); err != nil {
		return 0, err
	}

	id, err := s.repo.SaveCompany(ctx, company)
	if err != nil {
		return 0, fmt.Errorf("failed to save company: %w", err)
	}
	s.publish(events.CompanySaved, id, company)
	return id, nil
}

// LoadCompany returns the company with id, or nil when there is none.
func (s *TrackerService) LoadCompany(ctx context.Context, id int64) (*models.Company, error) {
	return cached(s, cacheKey("company", id), func() (*models.Company, error) {
		return s.repo.LoadCompany(ctx, id)
	})
}

// SaveWorker registers a worker. The password is stored in the form the
// configured hasher produces, timestamps are kept at whole seconds in UTC
// and the date of birth is reduced to its calendar date.
func (s *TrackerService) SaveWorker(ctx context.Context, worker *models.Worker) (int64, error) {
	if err := validateWorker(worker); err != nil {
		return 0, err
	}
	if err := s.mustExist(ctx, db.KindAddress, worker.AddressID); err != nil {
		return 0, err
	}

	exists, err := s.repo.WorkerExistsByEmail(ctx, worker.Email)
	if err != nil {
		return 0, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return 0, fmt.Errorf("%w: email %s is already registered", e.ErrDuplicate, worker.Email)
	}

	stored, err := s.hasher.Hash(worker.Password)
	if err != nil {
		return 0, err
	}
	worker.Password = stored
	worker.DateOfBirth = truncateToDate(worker.DateOfBirth)
	if worker.CreatedAt.IsZero() {
		worker.CreatedAt = s.now()
	}
	worker.CreatedAt = truncateToSecond(worker.CreatedAt)

	id, err := s.repo.SaveWorker(ctx, worker)
	if err != nil {
		return 0, fmt.Errorf("failed to save worker: %w", err)
	}
	public := *worker
	public.Password = ""
	s.publish(events.WorkerSaved, id, &public)
	return id, nil
}

func validateWorker(w *models.Worker) error {
	switch {
	case w.FirstName == "" || w.LastName == "":
		return fmt.Errorf("%w: first and last name are required", e.ErrInvalidInput)
	case !validEmail(w.Email):
		return fmt.Errorf("%w: invalid email", e.ErrInvalidInput)
	case w.Password == "":
		return fmt.Errorf("%w: password is required", e.ErrInvalidInput)
	}
	return nil
}

// LoadWorker returns the worker with id, or nil when there is none.
func (s *TrackerService) LoadWorker(ctx context.Context, id int64) (*models.Worker, error) {
	return cached(s, cacheKey("worker", id), func() (*models.Worker, error) {
		return s.repo.LoadWorker(ctx, id)
	})
}

// LoginWorker returns the worker whose email matches exactly and whose
// stored password matches password, or nil when either does not.
func (s *TrackerService) LoginWorker(ctx context.Context, email, password string) (*models.Worker, error) {
	worker, err := s.repo.FindWorkerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			s.compareDummy(password)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up worker: %w", err)
	}

	ok, err := s.hasher.Matches(worker.Password, password)
	if err != nil {
		s.logger.Error("Failed to compare password",
			zap.Error(err),
			zap.Int64("worker_id", worker.ID),
		)
		return nil, fmt.Errorf("failed to compare password: %w", err)
	}
	if !ok {
		return nil, nil
	}

	s.publish(events.WorkerLoggedIn, worker.ID, nil)
	return worker, nil
}

func (s *TrackerService) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Error("Failed to hash dummy password", zap.Error(err))
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Matches(s.dummyHash, password)
	}
}

// SaveTracking stores a time-tracking record for an existing worker.
func (s *TrackerService) SaveTracking(ctx context.Context, tracking *models.Tracking) (int64, error) {
	switch {
	case tracking.Name == "":
		return 0, fmt.Errorf("%w: name is required", e.ErrInvalidInput)
	case tracking.ConnectionType == "":
		return 0, fmt.Errorf("%w: connection type is required", e.ErrInvalidInput)
	case tracking.StartTime.IsZero():
		return 0, fmt.Errorf("%w: start time is required", e.ErrInvalidInput)
	case !tracking.EndTime.IsZero() && tracking.EndTime.Before(tracking.StartTime):
		return 0, fmt.Errorf("%w: end time before start time", e.ErrInvalidInput)
	}
	if err := s.mustExist(ctx, db.KindWorker, tracking.OwnerID); err != nil {
		return 0, err
	}

	tracking.StartTime = truncateToSecond(tracking.StartTime)
	if !tracking.EndTime.IsZero() {
		tracking.EndTime = truncateToSecond(tracking.EndTime)
	}

	id, err := s.repo.SaveTracking(ctx, tracking)
	if err != nil {
		return 0, fmt.Errorf("failed to save tracking: %w", err)
	}
	s.publish(events.TrackingSaved, id, tracking)
	return id, nil
}

// LoadTracking returns the tracking record with id, or nil when there is none.
func (s *TrackerService) LoadTracking(ctx context.Context, id int64) (*models.Tracking, error) {
	return cached(s, cacheKey("tracking", id), func() (*models.Tracking, error) {
		return s.repo.LoadTracking(ctx, id)
	})
}

// WorkerTrackings lists a worker's tracking records by start time.
func (s *TrackerService) WorkerTrackings(ctx context.Context, workerID int64) ([]*models.Tracking, error) {
	list, err := s.repo.ListWorkerTrackings(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trackings: %w", err)
	}
	return list, nil
}

// AddWorkerToCompany links a worker to a company. Unknown ids are invalid
// input. Adding an existing pair again succeeds without changing it and
// without sending an event.
func (s *TrackerService) AddWorkerToCompany(ctx context.Context, workerID, companyID int64, position string) (bool, error) {
	if workerID <= 0 || companyID <= 0 {
		return false, fmt.Errorf("%w: worker and company ids must be positive", e.ErrInvalidInput)
	}

	inserted, err := s.repo.AddWorkerToCompany(ctx, workerID, companyID, position)
	if err != nil {
		if errors.Is(err, e.ErrInvalidInput) {
			return false, err
		}
		return false, fmt.Errorf("failed to add worker to company: %w", err)
	}
	if inserted {
		s.publish(events.WorkerJoinedCompany, workerID, &models.WorkerCompany{
			WorkerID:  workerID,
			CompanyID: companyID,
			Position:  position,
		})
	}
	return true, nil
}

// WorkerCompanies lists the companies a worker belongs to.
func (s *TrackerService) WorkerCompanies(ctx context.Context, workerID int64) ([]*models.WorkerCompany, error) {
	list, err := s.repo.ListWorkerCompanies(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list worker companies: %w", err)
	}
	return list, nil
}

// CompanyWorkers lists the workers of a company.
func (s *TrackerService) CompanyWorkers(ctx context.Context, companyID int64) ([]*models.WorkerCompany, error) {
	list, err := s.repo.ListCompanyWorkers(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list company workers: %w", err)
	}
	return list, nil
}

// RegisterBluetoothDevice records a device for an existing worker. The MAC
// address must be a 48-bit hardware address and is stored normalised.
func (s *TrackerService) RegisterBluetoothDevice(ctx context.Context, device *models.BluetoothDevice) (int64, error) {
	if device.Name == "" {
		return 0, fmt.Errorf("%w: device name is required", e.ErrInvalidInput)
	}
	mac, err := normalizeMAC(device.MAC)
	if err != nil {
		return 0, err
	}
	if err := s.mustExist(ctx, db.KindWorker, device.WorkerID); err != nil {
		return 0, err
	}
	device.MAC = mac

	id, err := s.repo.SaveBluetoothDevice(ctx, device)
	if err != nil {
		return 0, fmt.Errorf("failed to register bluetooth device: %w", err)
	}
	s.publish(events.BluetoothDeviceRegistered, id, device)
	return id, nil
}

// WorkerBluetoothDevices lists the devices a worker registered.
func (s *TrackerService) WorkerBluetoothDevices(ctx context.Context, workerID int64) ([]*models.BluetoothDevice, error) {
	list, err := s.repo.ListWorkerBluetoothDevices(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bluetooth devices: %w", err)
	}
	return list, nil
}

// ExecuteScript applies a SQL script to the store.
func (s *TrackerService) ExecuteScript(ctx context.Context, script io.Reader) (int, error) {
	n, err := s.repo.ExecScript(ctx, script)
	if err != nil {
		s.logger.Error("SQL script failed", zap.Error(err))
		return 0, err
	}
	s.logger.Info("SQL script applied", zap.Int("statements", n))
	return n, nil
}
