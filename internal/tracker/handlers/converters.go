package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/team16/easytracker/internal/pkg/utils"
	e "github.com/team16/easytracker/internal/tracker/errors"
	"github.com/team16/easytracker/internal/tracker/models"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const dateLayout = "2006-01-02"

func addressFromMessage(m *AddressMessage) *models.Address {
	return &models.Address{
		Street:  m.Street,
		ZipCode: m.ZipCode,
		City:    m.City,
	}
}

func addressToMessage(a *models.Address) *AddressMessage {
	return &AddressMessage{
		ID:      a.ID,
		Street:  a.Street,
		ZipCode: a.ZipCode,
		City:    a.City,
	}
}

func companyFromMessage(m *CompanyMessage) *models.Company {
	return &models.Company{
		Name:      m.Name,
		AddressID: m.AddressID,
	}
}

func companyToMessage(c *models.Company) *CompanyMessage {
	return &CompanyMessage{
		ID:        c.ID,
		Name:      c.Name,
		AddressID: c.AddressID,
	}
}

// workerFromMessage converts a WorkerMessage into a Worker. A missing
// createdAt is left zero for the service to fill in.
func workerFromMessage(m *WorkerMessage) (*models.Worker, error) {
	var dob time.Time
	if m.DateOfBirth != "" {
		parsed, err := time.Parse(dateLayout, m.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("invalid date of birth %q, want YYYY-MM-DD", m.DateOfBirth)
		}
		dob = parsed
	}

	return &models.Worker{
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		DateOfBirth: dob,
		Title:       m.Title,
		Email:       m.Email,
		Password:    m.Password,
		PhoneNumber: m.PhoneNumber,
		CreatedAt:   utils.Deref(m.CreatedAt),
		AddressID:   m.AddressID,
	}, nil
}

// workerToMessage converts a Worker for the wire, leaving out the password.
func workerToMessage(w *models.Worker) *WorkerMessage {
	m := &WorkerMessage{
		ID:          w.ID,
		FirstName:   w.FirstName,
		LastName:    w.LastName,
		Title:       w.Title,
		Email:       w.Email,
		PhoneNumber: w.PhoneNumber,
		AddressID:   w.AddressID,
	}
	if !w.DateOfBirth.IsZero() {
		m.DateOfBirth = w.DateOfBirth.Format(dateLayout)
	}
	if !w.CreatedAt.IsZero() {
		m.CreatedAt = utils.Ptr(w.CreatedAt)
	}
	return m
}

func trackingFromMessage(m *TrackingMessage) *models.Tracking {
	return &models.Tracking{
		Name:           m.Name,
		OwnerID:        m.OwnerID,
		StartTime:      m.StartTime,
		EndTime:        utils.Deref(m.EndTime),
		Description:    m.Description,
		ConnectionType: models.ConnectionType(m.ConnectionType),
	}
}

func trackingToMessage(t *models.Tracking) *TrackingMessage {
	m := &TrackingMessage{
		ID:             t.ID,
		Name:           t.Name,
		OwnerID:        t.OwnerID,
		StartTime:      t.StartTime,
		Description:    t.Description,
		ConnectionType: string(t.ConnectionType),
	}
	if !t.EndTime.IsZero() {
		m.EndTime = utils.Ptr(t.EndTime)
	}
	return m
}

func membershipsToList(list []*models.WorkerCompany) *MembershipList {
	out := &MembershipList{Memberships: make([]*MembershipMessage, 0, len(list))}
	for _, wc := range list {
		out.Memberships = append(out.Memberships, &MembershipMessage{
			WorkerID:  wc.WorkerID,
			CompanyID: wc.CompanyID,
			Position:  wc.Position,
		})
	}
	return out
}

func deviceToMessage(d *models.BluetoothDevice) *DeviceMessage {
	return &DeviceMessage{
		ID:       d.ID,
		WorkerID: d.WorkerID,
		Name:     d.Name,
		MAC:      d.MAC,
	}
}

// mapServiceError maps domain or repository errors to appropriate gRPC status codes.
func (h *TrackerHandler) mapServiceError(err error) error {
	switch {
	case errors.Is(err, e.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, e.ErrDuplicate):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, e.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, e.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, err.Error())
	default:
		h.logger.Error("Internal server error", zap.Error(err))
		return status.Error(codes.Internal, "internal server error")
	}
}
