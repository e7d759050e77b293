package ginserver

import (
	"context"
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"wanderstay/internal/app/commands"
	bookingapp "wanderstay/internal/app/handlers/booking"
	catalogapp "wanderstay/internal/app/handlers/catalog"
	"wanderstay/internal/app/queries"
	domainbooking "wanderstay/internal/domain/booking"
	domaincatalog "wanderstay/internal/domain/catalog"
	"wanderstay/internal/domain/shared/daterange"
)

// statusFor maps application errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domaincatalog.ErrDestinationNotFound),
		errors.Is(err, domaincatalog.ErrRoomNotFound),
		errors.Is(err, domaincatalog.ErrVehicleNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainbooking.ErrDocumentsMissing):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainbooking.ErrNotBookable):
		return http.StatusConflict
	case errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, domainbooking.ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, commands.ErrHandlerNotFound),
		errors.Is(err, queries.ErrHandlerNotFound),
		errors.Is(err, catalogapp.ErrCatalogUnavailable),
		errors.Is(err, bookingapp.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func unavailable(c *gin.Context, what string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": what + " unavailable"})
}
