package ginserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderstay/internal/app/commands"
	"wanderstay/internal/app/dto"
	"wanderstay/internal/app/outbox"
	"wanderstay/internal/app/wiring"
	domainbooking "wanderstay/internal/domain/booking"
	"wanderstay/internal/infra/config"
	"wanderstay/internal/infra/obs"
	"wanderstay/internal/infra/seed"
	"wanderstay/internal/infra/storage/memory"
)

type testApp struct {
	router *gin.Engine
	outbox *memory.Outbox
	docs   *memory.DocumentStore
}

func newTestApp(t *testing.T) testApp {
	t.Helper()
	catalog, err := seed.Default()
	require.NoError(t, err)

	box := memory.NewOutbox()
	docs := memory.NewDocumentStore("")
	buses := wiring.NewBuses(wiring.Deps{
		Catalog:         catalog,
		Verifications:   memory.NewVerificationRepository(),
		Uploader:        docs,
		Outbox:          box,
		Idempotency:     memory.NewIdempotencyStore(),
		Policy:          domainbooking.DefaultPolicy(),
		IdempotencyTTL:  time.Hour,
		SuggestMinChars: 2,
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	router := NewRouter(config.Config{Env: "test"}, obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Catalog:     CatalogHandler{Queries: buses.Queries},
		Booking:     BookingHandler{Commands: buses.Commands, Queries: buses.Queries},
		Suggestions: &SuggestionStream{Queries: buses.Queries, Debounce: 100 * time.Millisecond},
	})
	return testApp{router: router, outbox: box, docs: docs}
}

func (a testApp) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func cardTitles(items []dto.DestinationCard) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestHealthRoutes(t *testing.T) {
	app := newTestApp(t)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/livez", nil, nil).Code)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/readyz", nil, nil).Code)
}

func TestSearchDestinations(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/destinations", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[dto.DestinationCatalog](t, w)
	assert.False(t, all.Meta.Searched)
	assert.Len(t, all.Items, 5)

	w = app.do(t, http.MethodGet, "/api/v1/destinations?amenities=Pool&sort=lowest_price", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	pool := decode[dto.DestinationCatalog](t, w)
	assert.Equal(t, []string{"Bali", "Thailand", "Dubai"}, cardTitles(pool.Items))

	w = app.do(t, http.MethodGet, "/api/v1/destinations?q=dub&guests=3", nil, nil)
	dubai := decode[dto.DestinationCatalog](t, w)
	assert.True(t, dubai.Meta.Searched)
	assert.Equal(t, []string{"Dubai"}, cardTitles(dubai.Items))
	assert.Equal(t, 3, dubai.Filters.Guests)

	w = app.do(t, http.MethodGet, "/api/v1/destinations?price_min=100&price_max=300&sort=top_rated", nil, nil)
	ranged := decode[dto.DestinationCatalog](t, w)
	assert.Equal(t, []string{"Thailand", "New York City", "Europe"}, cardTitles(ranged.Items))

	w = app.do(t, http.MethodGet, "/api/v1/destinations?q=atlantis", nil, nil)
	none := decode[dto.DestinationCatalog](t, w)
	assert.True(t, none.Meta.Empty)
	assert.Empty(t, none.Items)
}

func TestDestinationDetail(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/destinations/1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[dto.DestinationDetail](t, w)
	assert.Equal(t, "Thailand", detail.Title)
	assert.NotEmpty(t, detail.Rooms)
	assert.NotEmpty(t, detail.Vehicles)

	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/v1/destinations/99", nil, nil).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodGet, "/api/v1/destinations/abc", nil, nil).Code)
}

func TestAmenitiesAndSuggestions(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/amenities", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	amenities := decode[map[string][]string](t, w)
	assert.Contains(t, amenities["items"], "Kitchen")

	w = app.do(t, http.MethodGet, "/api/v1/suggestions?q=ba", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	sug := decode[dto.Suggestions](t, w)
	assert.Equal(t, []string{"Thailand", "Dubai", "Bali"}, cardTitles(sug.Items))

	w = app.do(t, http.MethodGet, "/api/v1/suggestions?q=b", nil, nil)
	assert.Empty(t, decode[dto.Suggestions](t, w).Items)
}

func scenarioBody() map[string]any {
	return map[string]any{
		"room_id":      "th-deluxe",
		"include_hall": true,
		"check_in":     "2026-03-01",
		"check_out":    "2026-03-04",
		"adults":       5,
		"children":     1,
	}
}

func TestQuote(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/v1/destinations/1/quote", scenarioBody(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	q := decode[dto.Quote](t, w)
	assert.Equal(t, 2, q.RoomUnitsNeeded)
	assert.Equal(t, int64(1320), q.BaseLodgingCost.Amount)
	assert.Equal(t, int64(1820), q.GrandTotal.Amount)
	assert.True(t, q.IsBookable)

	w = app.do(t, http.MethodPost, "/api/v1/destinations/1/quote", map[string]any{}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	empty := decode[dto.Quote](t, w)
	assert.False(t, empty.IsBookable)
	assert.Equal(t, 1, empty.Nights)
	assert.Equal(t, int64(120), empty.GrandTotal.Amount)

	bad := scenarioBody()
	bad["check_in"] = "next tuesday"
	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/v1/destinations/1/quote", bad, nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodPost, "/api/v1/destinations/42/quote", scenarioBody(), nil).Code)
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, name := range files {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("image-bytes-" + field))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (a testApp) upload(t *testing.T, path string, fields, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, fields, files)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestVehicleVerificationAndQuote(t *testing.T) {
	app := newTestApp(t)
	path := "/api/v1/destinations/1/vehicles/th-scooter/verification"

	w := app.upload(t, path, map[string]string{"licence_number": "DL-1"}, map[string]string{"licence_image": "dl.png"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Driving License and Aadhaar Card")
	assert.Equal(t, 0, app.docs.Len())

	w = app.upload(t, "/api/v1/destinations/1/vehicles/nope/verification", nil,
		map[string]string{"licence_image": "dl.png", "aadhaar_image": "id.png"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.upload(t, path, nil, map[string]string{"licence_image": "dl.png", "aadhaar_image": "id.png"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ver := decode[dto.VehicleVerification](t, w)
	assert.Equal(t, "SELECTED", ver.State)
	assert.NotEmpty(t, ver.VerificationID)
	assert.Equal(t, 2, app.docs.Len())

	body := scenarioBody()
	body["vehicle_id"] = "th-scooter"
	body["verification_id"] = ver.VerificationID
	w = app.do(t, http.MethodPost, "/api/v1/destinations/1/quote", body, nil)
	require.Equal(t, http.StatusOK, w.Code)
	q := decode[dto.Quote](t, w)
	assert.Equal(t, int64(75), q.VehicleFee.Amount)
	assert.Equal(t, int64(1895), q.GrandTotal.Amount)
}

func TestReserve(t *testing.T) {
	app := newTestApp(t)
	body := scenarioBody()
	body["destination_id"] = 1

	w := app.do(t, http.MethodPost, "/api/v1/reservations", body, map[string]string{"Idempotency-Key": "abc", "X-Request-ID": "req-7"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[dto.Reservation](t, w)
	assert.NotEmpty(t, first.ReservationID)
	assert.Equal(t, int64(1820), first.Quote.GrandTotal.Amount)

	w = app.do(t, http.MethodPost, "/api/v1/reservations", body, map[string]string{"Idempotency-Key": "abc"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, first.ReservationID, decode[dto.Reservation](t, w).ReservationID)
	assert.Equal(t, 1, app.outbox.Stats().Pending)

	doc, err := app.outbox.Claim(context.Background(), "test")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "reservation.confirmed", doc.Name)
	assert.Equal(t, "req-7", doc.Headers[outbox.CorrelationHeader])

	noRoom := scenarioBody()
	noRoom["destination_id"] = 1
	delete(noRoom, "room_id")
	w = app.do(t, http.MethodPost, "/api/v1/reservations", noRoom, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/v1/reservations", scenarioBody(), nil).Code)
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/reservations", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Idempotency-Key")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(fmt.Errorf("boom")))
	assert.Equal(t, http.StatusConflict, statusFor(fmt.Errorf("wrap: %w", domainbooking.ErrNotBookable)))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(domainbooking.ErrDocumentsMissing))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(commands.ErrHandlerNotFound))
}
