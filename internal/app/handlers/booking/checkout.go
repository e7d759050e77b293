package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"wanderstay/internal/app/commands"
	"wanderstay/internal/app/dto"
	"wanderstay/internal/app/middleware"
	"wanderstay/internal/app/outbox"
	domainbooking "wanderstay/internal/domain/booking"
	domaincatalog "wanderstay/internal/domain/catalog"
)

const checkoutKey = "booking.checkout"

// CheckoutCommand confirms a reservation. Payment and persistence are mocked:
// the only side effect is the reservation.confirmed event.
type CheckoutCommand struct {
	SelectionInput
	IdempotencyKeyV string
}

func (c CheckoutCommand) Key() string { return checkoutKey }

func (c CheckoutCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CheckoutCommand) ResultPrototype() any { return &dto.Reservation{} }

type CheckoutHandler struct {
	Catalog       domaincatalog.Repository
	Verifications domainbooking.VerificationRepository
	Policy        domainbooking.Policy
	Outbox        outbox.Outbox
	Encoder       outbox.EventEncoder
	IDGenerator   func() string
	Now           func() time.Time
}

func (h *CheckoutHandler) Handle(ctx context.Context, cmd CheckoutCommand) (*dto.Reservation, error) {
	dest, err := loadDestination(h.Catalog, cmd.DestinationID)
	if err != nil {
		return nil, err
	}
	sel, err := resolveSelection(ctx, h.Verifications, dest, cmd.SelectionInput)
	if err != nil {
		return nil, err
	}
	quote := h.Policy.Quote(sel, dest)

	reservation, err := domainbooking.Reserve(domainbooking.ReservationID(h.newID()), sel, quote, h.now())
	if err != nil {
		return nil, err
	}

	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), reservation.DrainEvents()); err != nil {
		return nil, err
	}

	return &dto.Reservation{
		ReservationID: string(reservation.ID),
		Quote:         dto.MapQuote(quote),
	}, nil
}

func (h *CheckoutHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *CheckoutHandler) newID() string {
	if h.IDGenerator != nil {
		return h.IDGenerator()
	}
	return uuid.NewString()
}

func (h *CheckoutHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

var _ commands.Handler[CheckoutCommand, *dto.Reservation] = (*CheckoutHandler)(nil)
var _ middleware.IdempotentCommand = (*CheckoutCommand)(nil)
