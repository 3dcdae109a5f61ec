package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentalcar-backend/internal/service"
)

// RentalHandler exposes the rental command endpoints and the read-model
// queries. Commands go to the write side; queries only touch the views, so a
// freshly created rental may not be queryable for a moment.
type RentalHandler struct {
	commands service.RentalCommandService
	queries  service.RentalQueryService
}

func NewRentalHandler(commands service.RentalCommandService, queries service.RentalQueryService) *RentalHandler {
	return &RentalHandler{commands: commands, queries: queries}
}

func (h *RentalHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		writeError(w, err)
		return
	}

	rental, err := h.commands.CreateRental(r.Context(), req.CustomerID, req.CarID, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRentalResponse(rental))
}

func (h *RentalHandler) StartRental(w http.ResponseWriter, r *http.Request) {
	var req startRentalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rental, err := h.commands.StartRental(r.Context(), mux.Vars(r)["id"], req.StartOdometer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRentalResponse(rental))
}

func (h *RentalHandler) CompleteRental(w http.ResponseWriter, r *http.Request) {
	var req completeRentalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rental, err := h.commands.CompleteRental(r.Context(), mux.Vars(r)["id"], req.EndOdometer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRentalResponse(rental))
}

func (h *RentalHandler) CancelRental(w http.ResponseWriter, r *http.Request) {
	var req cancelRentalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rental, err := h.commands.CancelRental(r.Context(), mux.Vars(r)["id"], req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRentalResponse(rental))
}

func (h *RentalHandler) GetRentalView(w http.ResponseWriter, r *http.Request) {
	view, err := h.queries.GetRentalView(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRentalViewResponse(view))
}

func (h *RentalHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	switch {
	case q.Get("customer_id") != "":
		views, err := h.queries.ListRentalsByCustomer(r.Context(), q.Get("customer_id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRentalViewResponses(views))
	case q.Get("car_id") != "":
		views, err := h.queries.ListRentalsByCar(r.Context(), q.Get("car_id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRentalViewResponses(views))
	case q.Get("status") != "":
		views, err := h.queries.ListRentalsByStatus(r.Context(), q.Get("status"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRentalViewResponses(views))
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "one of customer_id, car_id or status is required"})
	}
}
