package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalcar-backend/internal/config"
	"rentalcar-backend/internal/domain"
	msgmemory "rentalcar-backend/internal/messaging/memory"
	"rentalcar-backend/internal/projection"
	repomemory "rentalcar-backend/internal/repository/memory"
	"rentalcar-backend/internal/service"
)

func relayConfig() *config.Config {
	return &config.Config{Outbox: config.OutboxConfig{BatchSize: 100}}
}

type relayFixture struct {
	store    *repomemory.Store
	bus      *msgmemory.Bus
	runner   *JobRunner
	commands service.RentalCommandService
	customer *domain.Customer
	car      *domain.Car
}

// newRelayFixture wires the full pipeline in memory: commands stage events
// in the outbox, the relay publishes them onto the bus, and the projection
// updater consumes them into the view store.
func newRelayFixture(t *testing.T) *relayFixture {
	t.Helper()
	ctx := context.Background()
	store := repomemory.NewStore()
	bus := msgmemory.NewBus(5)

	updater := projection.NewUpdater(store.Rentals(), store.Customers(), store.Cars(), store.Views(), nil)
	bus.Subscribe(domain.RentalEventsTopic, updater.HandleEvent)

	contact, err := domain.NewContactInfo("alice@example.com", "+1-555-0101")
	require.NoError(t, err)
	license, err := domain.NewLicenseInfo("D1234567", "US", time.Now().UTC().AddDate(2, 0, 0))
	require.NoError(t, err)
	customer, err := service.NewCustomerService(store).RegisterCustomer(ctx, "Alice", "Smith",
		time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC), contact, license)
	require.NoError(t, err)
	customer, err = service.NewCustomerService(store).VerifyCustomer(ctx, customer.CustomerID)
	require.NoError(t, err)

	rate, err := domain.NewMoney(decimal.NewFromInt(50), "USD")
	require.NoError(t, err)
	car, err := service.NewFleetService(store).AddCar(ctx, "1HGBH41JXMN109186", "ABC-1234",
		"Toyota", "Corolla", 2023, "COMPACT", rate)
	require.NoError(t, err)

	return &relayFixture{
		store:    store,
		bus:      bus,
		runner:   NewJobRunner(nil, store.Outbox(), bus, relayConfig()),
		commands: service.NewRentalCommandService(store),
		customer: customer,
		car:      car,
	}
}

func TestRelayOutboxEndToEnd(t *testing.T) {
	f := newRelayFixture(t)
	ctx := context.Background()

	start := domain.Today()
	rental, err := f.commands.CreateRental(ctx, f.customer.CustomerID, f.car.CarID, start, start.AddDate(0, 0, 9))
	require.NoError(t, err)
	_, err = f.commands.StartRental(ctx, rental.RentalID, 12000)
	require.NoError(t, err)
	_, err = f.commands.CompleteRental(ctx, rental.RentalID, 12200)
	require.NoError(t, err)

	f.runner.RelayOutbox()

	// Every staged event was published and marked.
	remaining, err := f.store.Outbox().ListUnpublished(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	assert.Empty(t, f.bus.DeadLetters())

	view, err := f.store.Views().GetByID(ctx, rental.RentalID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RentalStatusCompleted), view.Status)
	assert.Equal(t, "450.00 USD", view.FormattedTotalCost)
	require.NotNil(t, view.TotalKilometers)
	assert.Equal(t, int32(200), *view.TotalKilometers)
}

func TestRelayOutboxIsIncremental(t *testing.T) {
	f := newRelayFixture(t)
	ctx := context.Background()

	start := domain.Today()
	rental, err := f.commands.CreateRental(ctx, f.customer.CustomerID, f.car.CarID, start, start)
	require.NoError(t, err)
	f.runner.RelayOutbox()

	// A second tick with nothing staged publishes nothing new.
	f.runner.RelayOutbox()

	view, err := f.store.Views().GetByID(ctx, rental.RentalID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RentalStatusReserved), view.Status)

	_, err = f.commands.CancelRental(ctx, rental.RentalID, "changed plans")
	require.NoError(t, err)
	f.runner.RelayOutbox()

	view, err = f.store.Views().GetByID(ctx, rental.RentalID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RentalStatusCancelled), view.Status)
}

type failingPublisher struct {
	failAfter int
	published int
}

func (p *failingPublisher) Publish(context.Context, string, string, []byte) error {
	if p.published >= p.failAfter {
		return errors.New("broker unreachable")
	}
	p.published++
	return nil
}

func (p *failingPublisher) Close() error { return nil }

// A publish failure must stop the batch so later events cannot overtake the
// failed one; the tail stays staged for the next tick.
func TestRelayOutboxStopsBatchOnFailure(t *testing.T) {
	f := newRelayFixture(t)
	ctx := context.Background()

	start := domain.Today()
	rental, err := f.commands.CreateRental(ctx, f.customer.CustomerID, f.car.CarID, start, start.AddDate(0, 0, 4))
	require.NoError(t, err)
	_, err = f.commands.StartRental(ctx, rental.RentalID, 100)
	require.NoError(t, err)
	_, err = f.commands.CompleteRental(ctx, rental.RentalID, 200)
	require.NoError(t, err)

	pub := &failingPublisher{failAfter: 1}
	runner := NewJobRunner(nil, f.store.Outbox(), pub, relayConfig())
	runner.RelayOutbox()

	remaining, err := f.store.Outbox().ListUnpublished(ctx, 100)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, domain.EventRentalStarted, remaining[0].Envelope.EventType)
	assert.Equal(t, domain.EventRentalCompleted, remaining[1].Envelope.EventType)
}
