package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentalcar-backend/internal/domain"
	"rentalcar-backend/internal/service"
)

type CustomerHandler struct {
	customers service.CustomerService
}

func NewCustomerHandler(customers service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

func (h *CustomerHandler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req registerCustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	dob, err := parseDate(req.DateOfBirth, "date_of_birth")
	if err != nil {
		writeError(w, err)
		return
	}
	contact, err := domain.NewContactInfo(req.Email, req.Phone)
	if err != nil {
		writeError(w, err)
		return
	}
	license, err := h.parseLicense(req.LicenseNumber, req.LicenseCountry, req.LicenseExpiration)
	if err != nil {
		writeError(w, err)
		return
	}

	customer, err := h.customers.RegisterCustomer(r.Context(), req.FirstName, req.LastName, dob, contact, license)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerResponse(customer))
}

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customers.GetCustomer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}

func (h *CustomerHandler) VerifyCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customers.VerifyCustomer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}

func (h *CustomerHandler) UpdateContactInfo(w http.ResponseWriter, r *http.Request) {
	var req updateContactRequest
	if !decodeBody(w, r, &req) {
		return
	}

	contact, err := domain.NewContactInfo(req.Email, req.Phone)
	if err != nil {
		writeError(w, err)
		return
	}

	customer, err := h.customers.UpdateContactInfo(r.Context(), mux.Vars(r)["id"], contact)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}

func (h *CustomerHandler) UpdateLicenseInfo(w http.ResponseWriter, r *http.Request) {
	var req updateLicenseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	license, err := h.parseLicense(req.LicenseNumber, req.LicenseCountry, req.LicenseExpiration)
	if err != nil {
		writeError(w, err)
		return
	}

	customer, err := h.customers.UpdateLicenseInfo(r.Context(), mux.Vars(r)["id"], license)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}

func (h *CustomerHandler) parseLicense(number, country, expiration string) (domain.LicenseInfo, error) {
	exp, err := parseDate(expiration, "license_expiration")
	if err != nil {
		return domain.LicenseInfo{}, err
	}
	return domain.NewLicenseInfo(number, country, exp)
}
