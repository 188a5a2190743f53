package handlers

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

const serviceName = "easytracker.v1.TrackerService"

// AddressMessage is the wire form of an address.
type AddressMessage struct {
	ID      int64  `json:"id,omitempty"`
	Street  string `json:"street"`
	ZipCode string `json:"zipCode"`
	City    string `json:"city"`
}

// CompanyMessage is the wire form of a company.
type CompanyMessage struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name"`
	AddressID int64  `json:"addressId"`
}

// WorkerMessage is the wire form of a worker. DateOfBirth is a
// YYYY-MM-DD date. Password is only read, never written back.
type WorkerMessage struct {
	ID          int64      `json:"id,omitempty"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	DateOfBirth string     `json:"dateOfBirth"`
	Title       string     `json:"title,omitempty"`
	Email       string     `json:"email"`
	Password    string     `json:"password,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	AddressID   int64      `json:"addressId"`
}

// TrackingMessage is the wire form of a tracking record.
type TrackingMessage struct {
	ID             int64      `json:"id,omitempty"`
	Name           string     `json:"name"`
	OwnerID        int64      `json:"ownerId"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        *time.Time `json:"endTime,omitempty"`
	Description    string     `json:"description,omitempty"`
	ConnectionType string     `json:"connectionType"`
}

// MembershipMessage links a worker to a company.
type MembershipMessage struct {
	WorkerID  int64  `json:"workerId"`
	CompanyID int64  `json:"companyId"`
	Position  string `json:"position"`
}

// DeviceMessage is the wire form of a registered Bluetooth device.
type DeviceMessage struct {
	ID       int64  `json:"id,omitempty"`
	WorkerID int64  `json:"workerId"`
	Name     string `json:"name"`
	MAC      string `json:"mac"`
}

type IDRequest struct {
	ID int64 `json:"id"`
}

type IDResponse struct {
	ID int64 `json:"id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Worker *WorkerMessage `json:"worker"`
	Token  string         `json:"token"`
}

type AddWorkerResponse struct {
	Added bool `json:"added"`
}

type TrackingList struct {
	Trackings []*TrackingMessage `json:"trackings"`
}

type MembershipList struct {
	Memberships []*MembershipMessage `json:"memberships"`
}

type DeviceList struct {
	Devices []*DeviceMessage `json:"devices"`
}

// TrackerServer is the server API of the tracker gRPC service.
type TrackerServer interface {
	SaveAddress(context.Context, *AddressMessage) (*IDResponse, error)
	LoadAddress(context.Context, *IDRequest) (*AddressMessage, error)
	SaveCompany(context.Context, *CompanyMessage) (*IDResponse, error)
	LoadCompany(context.Context, *IDRequest) (*CompanyMessage, error)
	CompanyWorkers(context.Context, *IDRequest) (*MembershipList, error)
	SaveWorker(context.Context, *WorkerMessage) (*IDResponse, error)
	LoadWorker(context.Context, *IDRequest) (*WorkerMessage, error)
	LoginWorker(context.Context, *LoginRequest) (*LoginResponse, error)
	WorkerCompanies(context.Context, *IDRequest) (*MembershipList, error)
	WorkerTrackings(context.Context, *IDRequest) (*TrackingList, error)
	SaveTracking(context.Context, *TrackingMessage) (*IDResponse, error)
	LoadTracking(context.Context, *IDRequest) (*TrackingMessage, error)
	AddWorkerToCompany(context.Context, *MembershipMessage) (*AddWorkerResponse, error)
	RegisterBluetoothDevice(context.Context, *DeviceMessage) (*IDResponse, error)
	WorkerBluetoothDevices(context.Context, *IDRequest) (*DeviceList, error)
}

// FullMethod returns the gRPC method name of a TrackerService method.
func FullMethod(method string) string {
	return "/" + serviceName + "/" + method
}

// ProtectedMethods lists the write methods that require a token.
func ProtectedMethods() []string {
	return []string{
		FullMethod("SaveCompany"),
		FullMethod("SaveTracking"),
		FullMethod("AddWorkerToCompany"),
		FullMethod("RegisterBluetoothDevice"),
	}
}

func unary[Req, Resp any](method string, call func(TrackerServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TrackerServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(TrackerServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// TrackerServiceDesc describes the tracker gRPC service.
var TrackerServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*TrackerServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("SaveAddress", TrackerServer.SaveAddress),
		unary("LoadAddress", TrackerServer.LoadAddress),
		unary("SaveCompany", TrackerServer.SaveCompany),
		unary("LoadCompany", TrackerServer.LoadCompany),
		unary("CompanyWorkers", TrackerServer.CompanyWorkers),
		unary("SaveWorker", TrackerServer.SaveWorker),
		unary("LoadWorker", TrackerServer.LoadWorker),
		unary("LoginWorker", TrackerServer.LoginWorker),
		unary("WorkerCompanies", TrackerServer.WorkerCompanies),
		unary("WorkerTrackings", TrackerServer.WorkerTrackings),
		unary("SaveTracking", TrackerServer.SaveTracking),
		unary("LoadTracking", TrackerServer.LoadTracking),
		unary("AddWorkerToCompany", TrackerServer.AddWorkerToCompany),
		unary("RegisterBluetoothDevice", TrackerServer.RegisterBluetoothDevice),
		unary("WorkerBluetoothDevices", TrackerServer.WorkerBluetoothDevices),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "easytracker/v1/tracker",
}

// Invoke calls a TrackerService method over cc using the JSON codec.
func Invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req interface{}, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
