package db

import (
	"github.com/team16/easytracker/internal/tracker/db/models"
	domain "github.com/team16/easytracker/internal/tracker/models"
)

func addressToRow(a *domain.Address) *models.Address {
	return &models.Address{
		ID:      a.ID,
		Street:  a.Street,
		ZipCode: a.ZipCode,
		City:    a.City,
	}
}

func addressFromRow(row *models.Address) *domain.Address {
	return &domain.Address{
		ID:      row.ID,
		Street:  row.Street,
		ZipCode: row.ZipCode,
		City:    row.City,
	}
}

func companyToRow(c *domain.Company) *models.Company {
	return &models.Company{
		ID:        c.ID,
		Name:      c.Name,
		AddressID: c.AddressID,
	}
}

func companyFromRow(row *models.Company) *domain.Company {
	return &domain.Company{
		ID:        row.ID,
		Name:      row.Name,
		AddressID: row.AddressID,
	}
}

func workerToRow(w *domain.Worker) *models.Worker {
	return &models.Worker{
		ID:          w.ID,
		FirstName:   w.FirstName,
		LastName:    w.LastName,
		DateOfBirth: w.DateOfBirth.UTC(),
		Title:       w.Title,
		Email:       w.Email,
		Password:    w.Password,
		PhoneNumber: w.PhoneNumber,
		CreatedAt:   w.CreatedAt.UTC(),
		AddressID:   w.AddressID,
	}
}

func workerFromRow(row *models.Worker) *domain.Worker {
	return &domain.Worker{
		ID:          row.ID,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		DateOfBirth: row.DateOfBirth.UTC(),
		Title:       row.Title,
		Email:       row.Email,
		Password:    row.Password,
		PhoneNumber: row.PhoneNumber,
		CreatedAt:   row.CreatedAt.UTC(),
		AddressID:   row.AddressID,
	}
}

func trackingToRow(t *domain.Tracking) *models.Tracking {
	return &models.Tracking{
		ID:             t.ID,
		Name:           t.Name,
		OwnerID:        t.OwnerID,
		StartTime:      t.StartTime.UTC(),
		EndTime:        t.EndTime.UTC(),
		Description:    t.Description,
		ConnectionType: string(t.ConnectionType),
	}
}

func trackingFromRow(row *models.Tracking) *domain.Tracking {
	return &domain.Tracking{
		ID:             row.ID,
		Name:           row.Name,
		OwnerID:        row.OwnerID,
		StartTime:      row.StartTime.UTC(),
		EndTime:        row.EndTime.UTC(),
		Description:    row.Description,
		ConnectionType: domain.ConnectionType(row.ConnectionType),
	}
}

func membershipFromRow(row *models.WorkerCompany) *domain.WorkerCompany {
	return &domain.WorkerCompany{
		WorkerID:  row.WorkerID,
		CompanyID: row.CompanyID,
		Position:  row.Position,
	}
}

func deviceToRow(d *domain.BluetoothDevice) *models.BluetoothDevice {
	return &models.BluetoothDevice{
		ID:       d.ID,
		WorkerID: d.WorkerID,
		Name:     d.Name,
		MAC:      d.MAC,
	}
}

func deviceFromRow(row *models.BluetoothDevice) *domain.BluetoothDevice {
	return &domain.BluetoothDevice{
		ID:       row.ID,
		WorkerID: row.WorkerID,
		Name:     row.Name,
		MAC:      row.MAC,
	}
}
