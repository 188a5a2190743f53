// Package models defines the core domain models of the tracker: workers,
// the companies they work for, their addresses, time-tracking records and
// registered Bluetooth devices.
package models

import (
	"time"
)

// ConnectionType describes how a tracking record was captured.
type ConnectionType string

const (
	// Bluetooth marks a record started by a registered Bluetooth device.
	Bluetooth ConnectionType = "bluetooth"
	Wifi      ConnectionType = "wifi"
	Manual    ConnectionType = "manual"
)

// Address is a postal address shared by workers and companies.
type Address struct {
	ID      int64
	Street  string
	ZipCode string
	City    string
}

// Company is an employer workers can be associated with.
type Company struct {
	// ID is the store-generated identity.
	ID int64
	// Name is the company's display name.
	Name string
	// AddressID references the company's Address.
	AddressID int64
}

// Worker is a tracked person and the principal that logs in.
type Worker struct {
	// ID is the store-generated identity.
	ID        int64
	FirstName string
	LastName  string
	// DateOfBirth carries a calendar date; the clock part is always midnight UTC.
	DateOfBirth time.Time
	Title       string
	// Email is unique across workers and is the login name.
	Email string
	// Password is whatever the configured hasher stored: plaintext or a bcrypt hash.
	Password    string
	PhoneNumber string
	// CreatedAt is kept at whole-second precision in UTC.
	CreatedAt time.Time
	AddressID int64
}

// Tracking is a single time-tracking record owned by a worker.
type Tracking struct {
	ID             int64
	Name           string
	OwnerID        int64
	StartTime      time.Time
	EndTime        time.Time
	Description    string
	ConnectionType ConnectionType
}

// WorkerCompany links a worker to a company with the position held there.
type WorkerCompany struct {
	WorkerID  int64
	CompanyID int64
	Position  string
}

// BluetoothDevice is a device a worker registered for automatic tracking.
type BluetoothDevice struct {
	ID       int64
	WorkerID int64
	Name     string
	// MAC is normalised to lower-case colon-separated form.
	MAC string
}
