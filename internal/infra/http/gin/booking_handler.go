package ginserver

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"wanderstay/internal/app/commands"
	"wanderstay/internal/app/dto"
	bookingapp "wanderstay/internal/app/handlers/booking"
	"wanderstay/internal/app/outbox"
	"wanderstay/internal/app/queries"
	"wanderstay/internal/infra/obs"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

// selectionRequest mirrors the destination page state. Dates may be RFC3339 or YYYY-MM-DD.
type selectionRequest struct {
	RoomID         string `json:"room_id"`
	IncludeHall    bool   `json:"include_hall"`
	VehicleID      string `json:"vehicle_id"`
	VerificationID string `json:"verification_id"`
	CheckIn        string `json:"check_in"`
	CheckOut       string `json:"check_out"`
	Adults         int    `json:"adults"`
	Children       int    `json:"children"`
}

type reservationRequest struct {
	DestinationID int `json:"destination_id"`
	selectionRequest
}

func (r selectionRequest) toInput(destinationID int) (bookingapp.SelectionInput, error) {
	checkIn, ok := parseOptionalTime(r.CheckIn)
	if !ok {
		return bookingapp.SelectionInput{}, errors.New("check_in must be RFC3339 or YYYY-MM-DD")
	}
	checkOut, ok := parseOptionalTime(r.CheckOut)
	if !ok {
		return bookingapp.SelectionInput{}, errors.New("check_out must be RFC3339 or YYYY-MM-DD")
	}
	return bookingapp.SelectionInput{
		DestinationID:  destinationID,
		RoomID:         r.RoomID,
		IncludeHall:    r.IncludeHall,
		VehicleID:      r.VehicleID,
		VerificationID: r.VerificationID,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Adults:         r.Adults,
		Children:       r.Children,
	}, nil
}

// Quote prices the current selection without reserving anything.
func (h BookingHandler) Quote(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c, "booking")
		return
	}
	id, ok := destinationID(c)
	if !ok {
		return
	}
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	input, err := req.toInput(id)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	result, err := queries.Ask[bookingapp.QuoteReservationQuery, dto.Quote](c.Request.Context(), h.Queries, bookingapp.QuoteReservationQuery{SelectionInput: input})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// VerifyVehicle accepts the document modal upload: licence_number (optional),
// licence_image and aadhaar_image.
func (h BookingHandler) VerifyVehicle(c *gin.Context) {
	if h.Commands == nil {
		unavailable(c, "booking")
		return
	}
	id, ok := destinationID(c)
	if !ok {
		return
	}
	licence, closeLicence, err := formDocument(c, "licence_image")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	defer closeLicence()
	aadhaar, closeAadhaar, err := formDocument(c, "aadhaar_image")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	defer closeAadhaar()

	cmd := bookingapp.VerifyVehicleCommand{
		DestinationID: id,
		VehicleID:     c.Param("vehicle_id"),
		LicenceNumber: c.PostForm("licence_number"),
		LicenceImage:  licence,
		AadhaarImage:  aadhaar,
	}
	result, err := commands.Dispatch[bookingapp.VerifyVehicleCommand, *dto.VehicleVerification](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Reserve is the mocked checkout.
func (h BookingHandler) Reserve(c *gin.Context) {
	if h.Commands == nil {
		unavailable(c, "booking")
		return
	}
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.DestinationID <= 0 {
		badRequest(c, "destination_id is required")
		return
	}
	input, err := req.toInput(req.DestinationID)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	cmd := bookingapp.CheckoutCommand{
		SelectionInput:  input,
		IdempotencyKeyV: strings.TrimSpace(c.GetHeader("Idempotency-Key")),
	}
	ctx := outbox.WithCorrelation(c.Request.Context(), obs.RequestIDFromContext(c.Request.Context()))
	result, err := commands.Dispatch[bookingapp.CheckoutCommand, *dto.Reservation](ctx, h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// formDocument opens an optional multipart file. A missing part yields nil so the
// command can report which documents are absent.
func formDocument(c *gin.Context, field string) (*bookingapp.DocumentUpload, func(), error) {
	noop := func() {}
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}
	file, err := header.Open()
	if err != nil {
		return nil, noop, err
	}
	return &bookingapp.DocumentUpload{
		Filename:    header.Filename,
		ContentType: contentType(header),
		Size:        header.Size,
		Reader:      file,
	}, func() { _ = file.Close() }, nil
}

func contentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

var _ BookingHTTP = BookingHandler{}
