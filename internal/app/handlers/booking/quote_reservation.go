package booking

import (
	"context"

	"wanderstay/internal/app/dto"
	"wanderstay/internal/app/queries"
	domainbooking "wanderstay/internal/domain/booking"
	domaincatalog "wanderstay/internal/domain/catalog"
)

const quoteReservationKey = "booking.quote"

type QuoteReservationQuery struct {
	SelectionInput
}

func (q QuoteReservationQuery) Key() string { return quoteReservationKey }

// QuoteReservationHandler prices the live selection shown next to the reserve button.
type QuoteReservationHandler struct {
	Catalog       domaincatalog.Repository
	Verifications domainbooking.VerificationRepository
	Policy        domainbooking.Policy
}

func (h *QuoteReservationHandler) Handle(ctx context.Context, q QuoteReservationQuery) (dto.Quote, error) {
	dest, err := loadDestination(h.Catalog, q.DestinationID)
	if err != nil {
		return dto.Quote{}, err
	}
	sel, err := resolveSelection(ctx, h.Verifications, dest, q.SelectionInput)
	if err != nil {
		return dto.Quote{}, err
	}
	return dto.MapQuote(h.Policy.Quote(sel, dest)), nil
}

var _ queries.Handler[QuoteReservationQuery, dto.Quote] = (*QuoteReservationHandler)(nil)
