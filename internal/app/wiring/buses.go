// Package wiring registers every booking and catalog handler on a pair of buses.
// The HTTP server and the CLI share it so both speak the same operations.
package wiring

import (
	"log/slog"
	"time"

	"wanderstay/internal/app/commands"
	"wanderstay/internal/app/dto"
	bookingapp "wanderstay/internal/app/handlers/booking"
	catalogapp "wanderstay/internal/app/handlers/catalog"
	"wanderstay/internal/app/middleware"
	"wanderstay/internal/app/outbox"
	"wanderstay/internal/app/queries"
	domainbooking "wanderstay/internal/domain/booking"
	domaincatalog "wanderstay/internal/domain/catalog"
	"wanderstay/internal/infra/storage/s3"
)

type Deps struct {
	Catalog         domaincatalog.Repository
	Verifications   domainbooking.VerificationRepository
	Uploader        s3.Uploader
	Outbox          outbox.Outbox
	Idempotency     middleware.IdempotencyStore
	Policy          domainbooking.Policy
	IdempotencyTTL  time.Duration
	SuggestMinChars int
	Logger          *slog.Logger
}

// Buses are the middleware-wrapped entry points plus the registered keys for diagnostics.
type Buses struct {
	Commands    commands.Bus
	Queries     queries.Bus
	CommandKeys []string
	QueryKeys   []string
}

func NewBuses(d Deps) Buses {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler[catalogapp.SearchCatalogQuery, dto.DestinationCatalog](queryBus, &catalogapp.SearchCatalogHandler{Catalog: d.Catalog})
	queries.RegisterHandler[catalogapp.GetDestinationQuery, dto.DestinationDetail](queryBus, &catalogapp.GetDestinationHandler{Catalog: d.Catalog})
	queries.RegisterHandler[catalogapp.ListAmenitiesQuery, []string](queryBus, &catalogapp.ListAmenitiesHandler{Catalog: d.Catalog})
	queries.RegisterHandler[catalogapp.SuggestQuery, dto.Suggestions](queryBus, &catalogapp.SuggestHandler{Catalog: d.Catalog, MinChars: d.SuggestMinChars})
	queries.RegisterHandler[bookingapp.QuoteReservationQuery, dto.Quote](queryBus, &bookingapp.QuoteReservationHandler{
		Catalog:       d.Catalog,
		Verifications: d.Verifications,
		Policy:        d.Policy,
	})

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler[bookingapp.VerifyVehicleCommand, *dto.VehicleVerification](commandBus, &bookingapp.VerifyVehicleHandler{
		Catalog:       d.Catalog,
		Verifications: d.Verifications,
		Uploader:      d.Uploader,
		Logger:        logger,
	})
	commands.RegisterHandler[bookingapp.CheckoutCommand, *dto.Reservation](commandBus, &bookingapp.CheckoutHandler{
		Catalog:       d.Catalog,
		Verifications: d.Verifications,
		Policy:        d.Policy,
		Outbox:        d.Outbox,
		Encoder:       outbox.JSONEventEncoder{},
	})

	return Buses{
		Commands: middleware.ChainCommands(
			commandBus,
			middleware.CommandLogging(logger),
			middleware.Idempotency(d.Idempotency, middleware.IdempotencyOptions{TTL: d.IdempotencyTTL, Logger: logger}),
			middleware.OutboxFlush(d.Outbox),
		),
		Queries:     middleware.ChainQueries(queryBus, middleware.QueryLogging(logger)),
		CommandKeys: commandBus.Keys(),
		QueryKeys:   queryBus.Keys(),
	}
}
