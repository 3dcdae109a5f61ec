// Package http wires the REST surface onto the command and query services.
package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"rentalcar-backend/internal/logger"
	"rentalcar-backend/internal/service"
)

// NewRouter builds the API routes under /api/v1.
func NewRouter(
	rentalCommands service.RentalCommandService,
	rentalQueries service.RentalQueryService,
	fleet service.FleetService,
	customers service.CustomerService,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware)

	api := router.PathPrefix("/api/v1").Subrouter()

	rentals := NewRentalHandler(rentalCommands, rentalQueries)
	api.HandleFunc("/rentals", rentals.CreateRental).Methods(http.MethodPost)
	api.HandleFunc("/rentals", rentals.ListRentals).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id}", rentals.GetRentalView).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id}/start", rentals.StartRental).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id}/complete", rentals.CompleteRental).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id}/cancel", rentals.CancelRental).Methods(http.MethodPost)

	cars := NewFleetHandler(fleet)
	api.HandleFunc("/cars", cars.AddCar).Methods(http.MethodPost)
	api.HandleFunc("/cars/available", cars.ListAvailableCars).Methods(http.MethodGet)
	api.HandleFunc("/cars/{id}", cars.GetCar).Methods(http.MethodGet)
	api.HandleFunc("/cars/{id}/maintenance", cars.SendToMaintenance).Methods(http.MethodPost)
	api.HandleFunc("/cars/{id}/available", cars.ReturnFromMaintenance).Methods(http.MethodPost)

	people := NewCustomerHandler(customers)
	api.HandleFunc("/customers", people.RegisterCustomer).Methods(http.MethodPost)
	api.HandleFunc("/customers/{id}", people.GetCustomer).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id}/verify", people.VerifyCustomer).Methods(http.MethodPost)
	api.HandleFunc("/customers/{id}/contact", people.UpdateContactInfo).Methods(http.MethodPut)
	api.HandleFunc("/customers/{id}/license", people.UpdateLicenseInfo).Methods(http.MethodPut)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	return router
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("Request handled",
			"method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
