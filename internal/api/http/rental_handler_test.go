package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalcar-backend/internal/domain"
	"rentalcar-backend/internal/repository/memory"
	"rentalcar-backend/internal/service"
)

type apiFixture struct {
	store  *memory.Store
	server *httptest.Server
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	router := NewRouter(
		service.NewRentalCommandService(store),
		service.NewRentalQueryService(store.Views(), nil),
		service.NewFleetService(store),
		service.NewCustomerService(store),
	)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &apiFixture{store: store, server: server}
}

func (f *apiFixture) post(t *testing.T, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(f.server.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func (f *apiFixture) registerVerifiedCustomer(t *testing.T) string {
	t.Helper()
	resp, body := f.post(t, "/api/v1/customers", map[string]any{
		"first_name":         "Alice",
		"last_name":          "Smith",
		"date_of_birth":      "1990-03-14",
		"email":              "alice@example.com",
		"phone":              "+1-555-0101",
		"license_number":     "D1234567",
		"license_country":    "US",
		"license_expiration": time.Now().UTC().AddDate(2, 0, 0).Format("2006-01-02"),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["customer_id"].(string)

	resp, body = f.post(t, "/api/v1/customers/"+id+"/verify", map[string]any{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["eligible_to_rent"])
	return id
}

func (f *apiFixture) addCar(t *testing.T) string {
	t.Helper()
	resp, body := f.post(t, "/api/v1/cars", map[string]any{
		"vin":           "1HGBH41JXMN109186",
		"license_plate": "ABC-1234",
		"make":          "Toyota",
		"model":         "Corolla",
		"year":          2023,
		"category":      "COMPACT",
		"daily_rate":    "50",
		"currency":      "USD",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["car_id"].(string)
}

func TestCreateRentalEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	customerID := f.registerVerifiedCustomer(t)
	carID := f.addCar(t)

	start := domain.Today()
	resp, body := f.post(t, "/api/v1/rentals", map[string]any{
		"customer_id": customerID,
		"car_id":      carID,
		"start_date":  start.Format("2006-01-02"),
		"end_date":    start.AddDate(0, 0, 6).Format("2006-01-02"),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "315.00 USD", body["total_cost"])
	assert.Equal(t, float64(10), body["discount_percentage"])
	assert.Equal(t, "RESERVED", body["status"])

	// The car is now held, a second reservation conflicts.
	resp, body = f.post(t, "/api/v1/rentals", map[string]any{
		"customer_id": customerID,
		"car_id":      carID,
		"start_date":  start.Format("2006-01-02"),
		"end_date":    start.Format("2006-01-02"),
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestCreateRentalEndpointValidation(t *testing.T) {
	f := newAPIFixture(t)

	resp, body := f.post(t, "/api/v1/rentals", map[string]any{
		"customer_id": "c-1",
		"car_id":      "car-1",
		"start_date":  "not-a-date",
		"end_date":    "2030-01-02",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "start_date")
}

func TestStartRentalEndpointNotFound(t *testing.T) {
	f := newAPIFixture(t)

	resp, _ := f.post(t, "/api/v1/rentals/missing/start", map[string]any{"start_odometer": 100})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRentalLifecycleEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	customerID := f.registerVerifiedCustomer(t)
	carID := f.addCar(t)

	start := domain.Today()
	resp, body := f.post(t, "/api/v1/rentals", map[string]any{
		"customer_id": customerID,
		"car_id":      carID,
		"start_date":  start.Format("2006-01-02"),
		"end_date":    start.AddDate(0, 0, 2).Format("2006-01-02"),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	rentalID := body["rental_id"].(string)

	resp, body = f.post(t, fmt.Sprintf("/api/v1/rentals/%s/start", rentalID), map[string]any{"start_odometer": 1000})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ACTIVE", body["status"])

	// Cancelling an active rental is a state conflict.
	resp, _ = f.post(t, fmt.Sprintf("/api/v1/rentals/%s/cancel", rentalID), map[string]any{"reason": "too late"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = f.post(t, fmt.Sprintf("/api/v1/rentals/%s/complete", rentalID), map[string]any{"end_odometer": 1200})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "COMPLETED", body["status"])
	assert.Equal(t, float64(1200), body["end_odometer"])

	// Car is free again.
	carResp, err := http.Get(f.server.URL + "/api/v1/cars/" + carID)
	require.NoError(t, err)
	defer carResp.Body.Close()
	var car map[string]any
	require.NoError(t, json.NewDecoder(carResp.Body).Decode(&car))
	assert.Equal(t, "AVAILABLE", car["status"])
	assert.Equal(t, float64(1200), car["odometer"])
}

func TestListAvailableCarsEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	f.addCar(t)

	resp, err := http.Get(f.server.URL + "/api/v1/cars/available")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cars []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cars))
	require.Len(t, cars, 1)
	assert.Equal(t, "50.00 USD", cars[0]["daily_rate"])
}

func TestGetRentalViewEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	view := &domain.RentalView{
		RentalID:     "rental-1",
		CustomerID:   "customer-1",
		CustomerName: "Alice Smith",
		Status:       string(domain.RentalStatusReserved),
	}
	require.NoError(t, f.store.Views().Upsert(context.Background(), view))

	resp, err := http.Get(f.server.URL + "/api/v1/rentals/rental-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Alice Smith", got["customer_name"])
	assert.NotContains(t, got, "cost_per_day")

	start := domain.Today()
	priced := &domain.RentalView{
		RentalID:          "rental-2",
		CustomerID:        "customer-1",
		StartDate:         start,
		EndDate:           start.AddDate(0, 0, 6),
		DurationDays:      7,
		TotalCostAmount:   decimal.RequireFromString("315"),
		TotalCostCurrency: "USD",
		Status:            string(domain.RentalStatusReserved),
	}
	require.NoError(t, f.store.Views().Upsert(context.Background(), priced))

	resp, err = http.Get(f.server.URL + "/api/v1/rentals/rental-2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "45.00 USD", got["cost_per_day"])

	listResp, err := http.Get(f.server.URL + "/api/v1/rentals?customer_id=customer-1")
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var views []map[string]any
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&views))
	assert.Len(t, views, 2)
}
