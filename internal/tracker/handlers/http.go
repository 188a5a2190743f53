package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RegisterRoutes binds the HTTP/JSON routes of the tracker to mux. Each
// route calls the matching gRPC method of h in-process.
func (h *TrackerHandler) RegisterRoutes(mux *runtime.ServeMux) error {
	routes := []struct {
		method  string
		pattern string
		handler runtime.HandlerFunc
	}{
		{http.MethodPost, "/v1/addresses", withBody(h, h.SaveAddress, nil)},
		{http.MethodGet, "/v1/addresses/{id}", withID(h, h.LoadAddress)},
		{http.MethodPost, "/v1/companies", withBody(h, h.SaveCompany, nil)},
		{http.MethodGet, "/v1/companies/{id}", withID(h, h.LoadCompany)},
		{http.MethodGet, "/v1/companies/{id}/workers", withID(h, h.CompanyWorkers)},
		{http.MethodPost, "/v1/companies/{id}/workers", withBody(h, h.AddWorkerToCompany,
			func(m *MembershipMessage, id int64) { m.CompanyID = id })},
		{http.MethodPost, "/v1/workers", withBody(h, h.SaveWorker, nil)},
		{http.MethodGet, "/v1/workers/{id}", withID(h, h.LoadWorker)},
		{http.MethodGet, "/v1/workers/{id}/companies", withID(h, h.WorkerCompanies)},
		{http.MethodGet, "/v1/workers/{id}/trackings", withID(h, h.WorkerTrackings)},
		{http.MethodGet, "/v1/workers/{id}/devices", withID(h, h.WorkerBluetoothDevices)},
		{http.MethodPost, "/v1/workers/{id}/devices", withBody(h, h.RegisterBluetoothDevice,
			func(m *DeviceMessage, id int64) { m.WorkerID = id })},
		{http.MethodPost, "/v1/trackings", withBody(h, h.SaveTracking, nil)},
		{http.MethodGet, "/v1/trackings/{id}", withID(h, h.LoadTracking)},
		{http.MethodPost, "/v1/login", withBody(h, h.LoginWorker, nil)},
	}

	for _, r := range routes {
		if err := mux.HandlePath(r.method, r.pattern, r.handler); err != nil {
			return fmt.Errorf("failed to register %s %s: %w", r.method, r.pattern, err)
		}
	}
	return nil
}

// withBody decodes the JSON body into Req. When bindID is set the {id}
// path parameter is copied into the request.
func withBody[Req, Resp any](
	h *TrackerHandler,
	call func(context.Context, *Req) (*Resp, error),
	bindID func(*Req, int64),
) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
		req := new(Req)
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			h.writeError(w, status.Error(codes.InvalidArgument, "malformed JSON body"))
			return
		}
		if bindID != nil {
			id, err := pathID(pathParams)
			if err != nil {
				h.writeError(w, err)
				return
			}
			bindID(req, id)
		}

		resp, err := call(r.Context(), req)
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, resp)
	}
}

func withID[Resp any](h *TrackerHandler, call func(context.Context, *IDRequest) (*Resp, error)) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
		id, err := pathID(pathParams)
		if err != nil {
			h.writeError(w, err)
			return
		}

		resp, err := call(r.Context(), &IDRequest{ID: id})
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, resp)
	}
}

func pathID(pathParams map[string]string) (int64, error) {
	id, err := strconv.ParseInt(pathParams["id"], 10, 64)
	if err != nil {
		return 0, status.Errorf(codes.InvalidArgument, "invalid id %q", pathParams["id"])
	}
	return id, nil
}

func (h *TrackerHandler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("Failed to write response", zap.Error(err))
	}
}

func (h *TrackerHandler) writeError(w http.ResponseWriter, err error) {
	st := status.Convert(err)
	h.writeJSON(w, runtime.HTTPStatusFromCode(st.Code()), errorBody{
		Code:    st.Code().String(),
		Message: st.Message(),
	})
}

// isProtectedRequest reports whether r targets a write route that needs a token.
func isProtectedRequest(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != "v1" {
		return false
	}
	switch len(parts) {
	case 2:
		return parts[1] == "companies" || parts[1] == "trackings"
	case 4:
		return (parts[1] == "companies" && parts[3] == "workers") ||
			(parts[1] == "workers" && parts[3] == "devices")
	}
	return false
}
