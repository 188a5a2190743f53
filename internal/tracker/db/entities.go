package db

import (
	"context"
	"fmt"

	"github.com/team16/easytracker/internal/tracker/db/models"
	e "github.com/team16/easytracker/internal/tracker/errors"
	domain "github.com/team16/easytracker/internal/tracker/models"
	"gorm.io/gorm/clause"
)

// Kind names an entity table for existence checks.
type Kind string

const (
	KindAddress Kind = "address"
	KindCompany Kind = "company"
	KindWorker  Kind = "worker"
)

func (k Kind) model() (interface{}, error) {
	switch k {
	case KindAddress:
		return &models.Address{}, nil
	case KindCompany:
		return &models.Company{}, nil
	case KindWorker:
		return &models.Worker{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", e.ErrInvalidInput, k)
	}
}

// Exists reports whether a row of the given kind with this id is stored.
func (r *Repository) Exists(ctx context.Context, kind Kind, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	model, err := kind.model()
	if err != nil {
		return false, err
	}
	var count int64
	result := r.db.WithContext(ctx).Model(model).
		Where("id = ?", id).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) SaveAddress(ctx context.Context, address *domain.Address) (int64, error) {
	row := addressToRow(address)
	if err := r.create(ctx, row); err != nil {
		return 0, err
	}
	address.ID = row.ID
	return row.ID, nil
}

func (r *Repository) LoadAddress(ctx context.Context, id int64) (*domain.Address, error) {
	var row models.Address
	if err := r.first(ctx, &row, id); err != nil {
		return nil, err
	}
	return addressFromRow(&row), nil
}

func (r *Repository) SaveCompany(ctx context.Context, company *domain.Company) (int64, error) {
	row := companyToRow(company)
	if err := r.create(ctx, row); err != nil {
		return 0, err
	}
	company.ID = row.ID
	return row.ID, nil
}

func (r *Repository) LoadCompany(ctx context.Context, id int64) (*domain.Company, error) {
	var row models.Company
	if err := r.first(ctx, &row, id); err != nil {
		return nil, err
	}
	return companyFromRow(&row), nil
}

func (r *Repository) SaveWorker(ctx context.Context, worker *domain.Worker) (int64, error) {
	row := workerToRow(worker)
	if err := r.create(ctx, row); err != nil {
		return 0, err
	}
	worker.ID = row.ID
	return row.ID, nil
}

func (r *Repository) LoadWorker(ctx context.Context, id int64) (*domain.Worker, error) {
	var row models.Worker
	if err := r.first(ctx, &row, id); err != nil {
		return nil, err
	}
	return workerFromRow(&row), nil
}

// FindWorkerByEmail returns the worker registered under email, or ErrNotFound.
func (r *Repository) FindWorkerByEmail(ctx context.Context, email string) (*domain.Worker, error) {
	var rows []models.Worker
	result := r.db.WithContext(ctx).
		Where("email = ?", email).
		Limit(1).
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(rows) == 0 {
		return nil, e.ErrNotFound
	}
	return workerFromRow(&rows[0]), nil
}

func (r *Repository) WorkerExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Worker{}).
		Where("email = ?", email).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) SaveTracking(ctx context.Context, tracking *domain.Tracking) (int64, error) {
	row := trackingToRow(tracking)
	if err := r.create(ctx, row); err != nil {
		return 0, err
	}
	tracking.ID = row.ID
	return row.ID, nil
}

func (r *Repository) LoadTracking(ctx context.Context, id int64) (*domain.Tracking, error) {
	var row models.Tracking
	if err := r.first(ctx, &row, id); err != nil {
		return nil, err
	}
	return trackingFromRow(&row), nil
}

func (r *Repository) ListWorkerTrackings(ctx context.Context, workerID int64) ([]*domain.Tracking, error) {
	var rows []models.Tracking
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", workerID).
		Order("start_time, id").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	out := make([]*domain.Tracking, 0, len(rows))
	for i := range rows {
		out = append(out, trackingFromRow(&rows[i]))
	}
	return out, nil
}

// AddWorkerToCompany links a worker to a company and reports whether a new
// row was inserted. Both rows must exist, otherwise ErrInvalidInput is
// returned. Linking the same pair again inserts nothing and keeps the first
// stored position.
func (r *Repository) AddWorkerToCompany(ctx context.Context, workerID, companyID int64, position string) (bool, error) {
	var inserted bool
	err := r.WithTransaction(ctx, func(tx *Repository) error {
		ok, err := tx.Exists(ctx, KindWorker, workerID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: worker %d does not exist", e.ErrInvalidInput, workerID)
		}

		ok, err = tx.Exists(ctx, KindCompany, companyID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: company %d does not exist", e.ErrInvalidInput, companyID)
		}

		row := &models.WorkerCompany{
			WorkerID:  workerID,
			CompanyID: companyID,
			Position:  position,
		}
		result := tx.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(row)
		if result.Error != nil {
			return result.Error
		}
		inserted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

func (r *Repository) ListWorkerCompanies(ctx context.Context, workerID int64) ([]*domain.WorkerCompany, error) {
	return r.listMemberships(ctx, "worker_id", workerID, "company_id")
}

func (r *Repository) ListCompanyWorkers(ctx context.Context, companyID int64) ([]*domain.WorkerCompany, error) {
	return r.listMemberships(ctx, "company_id", companyID, "worker_id")
}

func (r *Repository) listMemberships(ctx context.Context, column string, id int64, order string) ([]*domain.WorkerCompany, error) {
	var rows []models.WorkerCompany
	result := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: id}).
		Order(order).
		Find(&rows)
	if err := result.Error; err != nil {
		return nil, err
	}
	out := make([]*domain.WorkerCompany, 0, len(rows))
	for i := range rows {
		out = append(out, membershipFromRow(&rows[i]))
	}
	return out, nil
}

func (r *Repository) SaveBluetoothDevice(ctx context.Context, device *domain.BluetoothDevice) (int64, error) {
	row := deviceToRow(device)
	if err := r.create(ctx, row); err != nil {
		return 0, err
	}
	device.ID = row.ID
	return row.ID, nil
}

func (r *Repository) ListWorkerBluetoothDevices(ctx context.Context, workerID int64) ([]*domain.BluetoothDevice, error) {
	var rows []models.BluetoothDevice
	result := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("id").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	out := make([]*domain.BluetoothDevice, 0, len(rows))
	for i := range rows {
		out = append(out, deviceFromRow(&rows[i]))
	}
	return out, nil
}
