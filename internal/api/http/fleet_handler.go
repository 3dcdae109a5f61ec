package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"rentalcar-backend/internal/domain"
	"rentalcar-backend/internal/service"
)

type FleetHandler struct {
	fleet service.FleetService
}

func NewFleetHandler(fleet service.FleetService) *FleetHandler {
	return &FleetHandler{fleet: fleet}
}

func (h *FleetHandler) AddCar(w http.ResponseWriter, r *http.Request) {
	var req addCarRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rate, err := parseMoney(req.DailyRate, req.Currency)
	if err != nil {
		writeError(w, err)
		return
	}

	car, err := h.fleet.AddCar(r.Context(), req.VIN, req.LicensePlate, req.Make, req.Model, req.Year, req.Category, rate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCarResponse(car))
}

func (h *FleetHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	car, err := h.fleet.GetCar(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCarResponse(car))
}

func (h *FleetHandler) ListAvailableCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.fleet.ListAvailableCars(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]carResponse, 0, len(cars))
	for i := range cars {
		out = append(out, toCarResponse(&cars[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *FleetHandler) SendToMaintenance(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.fleet.SendToMaintenance)
}

func (h *FleetHandler) ReturnFromMaintenance(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.fleet.ReturnFromMaintenance)
}

func (h *FleetHandler) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, carID string) (*domain.Car, error)) {
	car, err := apply(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCarResponse(car))
}
