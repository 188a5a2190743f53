// Package models contains the persistence models for the tracker store,
// configured to work using GORM as the ORM.
package models

import (
	"time"
)

// Address is the addresses table.
type Address struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Street  string `gorm:"column:street;size:255"`
	ZipCode string `gorm:"column:zip_code;size:20"`
	City    string `gorm:"column:city;size:100"`
}

func (Address) TableName() string {
	return "addresses"
}

// Company is the companies table.
type Company struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string `gorm:"column:name;size:100;not null"`
	AddressID int64  `gorm:"column:address_id;index"`
}

func (Company) TableName() string {
	return "companies"
}

// Worker is the workers table. Email carries the unique index used by login.
type Worker struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	FirstName   string    `gorm:"column:first_name;size:100;not null"`
	LastName    string    `gorm:"column:last_name;size:100;not null"`
	DateOfBirth time.Time `gorm:"column:date_of_birth;type:date"`
	Title       string    `gorm:"column:title;size:50"`
	Email       string    `gorm:"column:email;size:255;uniqueIndex;not null"`
	Password    string    `gorm:"column:password;size:255;not null"`
	PhoneNumber string    `gorm:"column:phone_number;size:50"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime:false"`
	AddressID   int64     `gorm:"column:address_id;index"`
}

func (Worker) TableName() string {
	return "workers"
}

// Tracking is the trackings table.
type Tracking struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string    `gorm:"column:name;size:255;not null"`
	OwnerID        int64     `gorm:"column:owner_id;index"`
	StartTime      time.Time `gorm:"column:start_time"`
	EndTime        time.Time `gorm:"column:end_time"`
	Description    string    `gorm:"column:description;size:3000"`
	ConnectionType string    `gorm:"column:connection_type;size:30"`
}

func (Tracking) TableName() string {
	return "trackings"
}

// WorkerCompany is the worker_companies join table. The composite primary
// key makes a (worker, company) pair unique.
type WorkerCompany struct {
	WorkerID  int64  `gorm:"column:worker_id;primaryKey;autoIncrement:false"`
	CompanyID int64  `gorm:"column:company_id;primaryKey;autoIncrement:false;index"`
	Position  string `gorm:"column:position;size:100"`
}

func (WorkerCompany) TableName() string {
	return "worker_companies"
}

// BluetoothDevice is the bluetooth_devices table.
type BluetoothDevice struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	WorkerID int64  `gorm:"column:worker_id;uniqueIndex:uniq_worker_device"`
	Name     string `gorm:"column:name;size:100"`
	MAC      string `gorm:"column:mac;size:17;uniqueIndex:uniq_worker_device"`
}

func (BluetoothDevice) TableName() string {
	return "bluetooth_devices"
}

// All lists every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&Address{},
		&Company{},
		&Worker{},
		&Tracking{},
		&WorkerCompany{},
		&BluetoothDevice{},
	}
}
