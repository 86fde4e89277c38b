package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"railmap/application/services"
	"railmap/pkg/common"
	"railmap/pkg/utils"
)

// NetworkHandler serves the city, connection, travel-time and chain
// endpoints.
type NetworkHandler struct {
	service *services.RouteService
	logger  *zap.Logger
}

// NewNetworkHandler creates a new network handler
func NewNetworkHandler(service *services.RouteService, logger *zap.Logger) *NetworkHandler {
	return &NetworkHandler{service: service, logger: logger}
}

// GetNetwork returns the full network view
func (h *NetworkHandler) GetNetwork(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.service.Network())
}

// GetCities lists all cities with coordinates
func (h *NetworkHandler) GetCities(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.service.Cities())
}

// CreateCityRequest is the body for adding or moving a city.
type CreateCityRequest struct {
	Name string  `json:"name" validate:"required,min=1,max=100"`
	Lon  float64 `json:"lon" validate:"min=-180,max=180"`
	Lat  float64 `json:"lat" validate:"min=-90,max=90"`
}

// CreateCity adds a city, or moves it if it already exists
func (h *NetworkHandler) CreateCity(w http.ResponseWriter, r *http.Request) {
	var req CreateCityRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		respondValidation(w, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondValidation(w, err.Error())
		return
	}

	if err := h.service.AddCity(req.Name, req.Lon, req.Lat); err != nil {
		respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
}

// UpdateCityRequest is the body for moving a city.
type UpdateCityRequest struct {
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
}

// UpdateCity moves an existing city
func (h *NetworkHandler) UpdateCity(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req UpdateCityRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		respondValidation(w, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondValidation(w, err.Error())
		return
	}

	if err := h.service.UpdateCity(name, req.Lon, req.Lat); err != nil {
		respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"name": name})
}

// DeleteCity removes a city and reports the connection changes
func (h *NetworkHandler) DeleteCity(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	result, err := h.service.RemoveCity(name)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// BulkDeleteCitiesRequest is the body for bulk city removal.
type BulkDeleteCitiesRequest struct {
	Names []string `json:"names" validate:"required,min=1"`
}

// BulkDeleteCities removes several cities, skipping unknown names
func (h *NetworkHandler) BulkDeleteCities(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteCitiesRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		respondValidation(w, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondValidation(w, err.Error())
		return
	}

	result := h.service.RemoveCities(req.Names)
	common.RespondJSON(w, http.StatusOK, result)
}

// pairQuery reads the from/to pair every connection-addressed endpoint uses
func pairQuery(r *http.Request) (string, string, bool) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	return from, to, from != "" && to != ""
}

// CreateConnectionRequest is the body for adding a connection.
type CreateConnectionRequest struct {
	From  string `json:"from" validate:"required"`
	To    string `json:"to" validate:"required,nefield=From"`
	Class string `json:"class" validate:"omitempty,oneof=ice ic re sbahn"`
}

// CreateConnection links two cities
func (h *NetworkHandler) CreateConnection(w http.ResponseWriter, r *http.Request) {
	var req CreateConnectionRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		respondValidation(w, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondValidation(w, err.Error())
		return
	}

	if err := h.service.AddConnection(req.From, req.To, req.Class); err != nil {
		respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]string{"from": req.From, "to": req.To})
}

// DeleteConnection unlinks two cities
func (h *NetworkHandler) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	from, to, ok := pairQuery(r)
	if !ok {
		respondValidation(w, "from and to query parameters are required")
		return
	}

	if err := h.service.RemoveConnection(from, to); err != nil {
		respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"from": from, "to": to})
}

// SetClassRequest is the body for assigning a transport class.
type SetClassRequest struct {
	From  string `json:"from" validate:"required"`
	To    string `json:"to" validate:"required,nefield=From"`
	Class string `json:"class" validate:"required,oneof=ice ic re sbahn"`
}

// SetTransportClass assigns a transport class to a connection
func (h *NetworkHandler) SetTransportClass(w http.ResponseWriter, r *http.Request) {
	var req SetClassRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		respondValidation(w, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondValidation(w, err.Error())
		return
	}

	if err := h.service.SetTransportClass(req.From, req.To, req.Class); err != nil {
		respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"class": req.Class})
}

// GetTravelTime resolves the travel time for a connection
func (h *NetworkHandler) GetTravelTime(w http.ResponseWriter, r *http.Request) {
	from, to, ok := pairQuery(r)
	if !ok {
		respondValidation(w, "from and to query parameters are required")
		return
	}

	tt, err := h.service.TravelTimeFor(from, to)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, tt)
}

// SetTravelTimeRequest is the body for an explicit travel-time override.
type SetTravelTimeRequest struct {
	From    string `json:"from" validate:"required"`
	To      string `json:"to" validate:"required,nefield=From"`
	Minutes int    `json:"minutes" validate:"required,min=1"`
}

// SetTravelTime sets an explicit travel-time override
func (h *NetworkHandler) SetTravelTime(w http.ResponseWriter, r *http.Request) {
	var req SetTravelTimeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		respondValidation(w, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondValidation(w, err.Error())
		return
	}

	if err := h.service.SetTravelTime(req.From, req.To, req.Minutes); err != nil {
		respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]int{"minutes": req.Minutes})
}

// ClearTravelTime removes an explicit travel-time override
func (h *NetworkHandler) ClearTravelTime(w http.ResponseWriter, r *http.Request) {
	from, to, ok := pairQuery(r)
	if !ok {
		respondValidation(w, "from and to query parameters are required")
		return
	}

	h.service.ClearTravelTime(from, to)
	common.RespondJSON(w, http.StatusOK, map[string]string{"from": from, "to": to})
}

// DaybreakRequest is the body for marking a chain break.
type DaybreakRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required,nefield=From"`
}

// MarkDaybreak marks a connection as a chain break
func (h *NetworkHandler) MarkDaybreak(w http.ResponseWriter, r *http.Request) {
	var req DaybreakRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		respondValidation(w, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondValidation(w, err.Error())
		return
	}

	h.service.MarkDaybreak(req.From, req.To)
	common.RespondJSON(w, http.StatusCreated, map[string]string{"from": req.From, "to": req.To})
}

// UnmarkDaybreak clears a chain break marker
func (h *NetworkHandler) UnmarkDaybreak(w http.ResponseWriter, r *http.Request) {
	from, to, ok := pairQuery(r)
	if !ok {
		respondValidation(w, "from and to query parameters are required")
		return
	}

	h.service.UnmarkDaybreak(from, to)
	common.RespondJSON(w, http.StatusOK, map[string]string{"from": from, "to": to})
}

// GetChains returns the chain decomposition of the current network
func (h *NetworkHandler) GetChains(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.service.Chains())
}

// SetChainNameRequest is the body for renaming a chain.
type SetChainNameRequest struct {
	Index int    `json:"index" validate:"min=0"`
	Name  string `json:"name" validate:"max=100"`
}

// SetChainName assigns a display name to a chain index
func (h *NetworkHandler) SetChainName(w http.ResponseWriter, r *http.Request) {
	var req SetChainNameRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		respondValidation(w, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondValidation(w, err.Error())
		return
	}

	if err := h.service.SetChainName(req.Index, req.Name); err != nil {
		respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"name": req.Name})
}

// GetZoomStates returns the opaque viewport passthrough list
func (h *NetworkHandler) GetZoomStates(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.service.ZoomStates())
}

// SetZoomStates replaces the opaque viewport passthrough list
func (h *NetworkHandler) SetZoomStates(w http.ResponseWriter, r *http.Request) {
	var states []json.RawMessage
	if err := common.ParseJSONBody(r, &states, maxBodyBytes); err != nil {
		respondValidation(w, "invalid request body")
		return
	}
	h.service.SetZoomStates(states)
	common.RespondJSON(w, http.StatusOK, map[string]int{"count": len(states)})
}

// Save writes the network to the data file
func (h *NetworkHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Save(); err != nil {
		respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// Load replaces the network with the persisted state
func (h *NetworkHandler) Load(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Load(); err != nil {
		respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, h.service.Network())
}
