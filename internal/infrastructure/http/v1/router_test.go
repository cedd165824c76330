package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrest/internal/domain/audit"
	"carrest/internal/domain/auth"
	"carrest/internal/domain/car"
	"carrest/internal/domain/catalogs/carmodel"
	"carrest/internal/domain/catalogs/category"
	"carrest/internal/domain/catalogs/manufacturer"
	v1 "carrest/internal/infrastructure/http/v1"
	"carrest/internal/infrastructure/http/v1/dto"
	"carrest/internal/infrastructure/storage/memory"
	"carrest/pkg/logger"
)

type apiEnv struct {
	t      *testing.T
	server http.Handler
	token  string
}

func newAPI(t *testing.T) *apiEnv {
	t.Helper()

	store := memory.NewStore()
	txm := memory.NewTxManager(store)

	manufacturers := memory.NewManufacturerRepository(store)
	categories := memory.NewCategoryRepository(store)
	carModels := memory.NewCarModelRepository(store)

	services := v1.Services{
		Manufacturers: manufacturer.NewService(manufacturers, txm),
		Categories:    category.NewService(categories, txm),
		CarModels:     carmodel.NewService(carModels, txm),
		Cars: car.NewService(car.ServiceConfig{
			Repo:          memory.NewCarRepository(store),
			TxManager:     txm,
			Manufacturers: manufacturers,
			CarModels:     carModels,
			Categories:    categories,
		}),
	}

	recorder := audit.NewRecorder(memory.NewAuditStore(store))
	v1.AttachAudit(recorder, services)

	jwtService := auth.NewJWTService(auth.DefaultJWTConfig([]byte("test-secret-test-secret-test-sec")))
	token, _, err := jwtService.GenerateAccessToken("admin@example.com")
	require.NoError(t, err)

	router := v1.NewRouter(v1.RouterConfig{
		Logger:       logger.Nop(),
		JWTValidator: jwtService,
		Storage:      store,
		Services:     services,
		Audit:        recorder,
	})

	return &apiEnv{t: t, server: router, token: token}
}

func (e *apiEnv) do(method, path string, body any, authorized bool) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireAPIError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()

	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[dto.ErrorResponse](t, rec)
	assert.Equal(t, status, body.StatusCode)
	if message != "" {
		assert.Equal(t, message, body.Message)
	}
}

func (e *apiEnv) createManufacturer(name string) dto.Manufacturer {
	e.t.Helper()

	rec := e.do(http.MethodPost, "/manufacturers", dto.Manufacturer{ManufacturerName: name}, true)
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[dto.Manufacturer](e.t, rec)
}

func (e *apiEnv) seedCar(suffix string, year int) dto.CarResponse {
	e.t.Helper()

	m := e.createManufacturer("Maker " + suffix)

	rec := e.do(http.MethodPost, "/car-models", dto.CarModel{CarModelName: "Model " + suffix}, true)
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	cm := decode[dto.CarModel](e.t, rec)

	rec = e.do(http.MethodPost, "/categories", dto.Category{CategoryName: "Category " + suffix}, true)
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	cat := decode[dto.Category](e.t, rec)

	rec = e.do(http.MethodPost, "/cars", map[string]any{
		"manufactureYear": year,
		"manufacturer":    map[string]any{"manufacturerId": m.ManufacturerID},
		"carModel":        map[string]any{"carModelId": cm.CarModelID},
		"category":        map[string]any{"categoryId": cat.CategoryID},
	}, true)
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[dto.CarResponse](e.t, rec)
}

func TestCatalogRoutes_CRUD(t *testing.T) {
	api := newAPI(t)

	created := api.createManufacturer("Tesla")
	assert.NotZero(t, created.ManufacturerID)
	assert.Equal(t, "Tesla", created.ManufacturerName)

	rec := api.do(http.MethodGet, "/manufacturers/1", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decode[dto.Manufacturer](t, rec))

	rec = api.do(http.MethodPut, "/manufacturers", dto.Manufacturer{ManufacturerID: created.ManufacturerID, ManufacturerName: "Tesla Motors"}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Tesla Motors", decode[dto.Manufacturer](t, rec).ManufacturerName)

	// Empty name keeps the stored value.
	rec = api.do(http.MethodPut, "/manufacturers", map[string]any{"manufacturerId": created.ManufacturerID}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Tesla Motors", decode[dto.Manufacturer](t, rec).ManufacturerName)

	rec = api.do(http.MethodDelete, "/manufacturers/1", nil, true)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = api.do(http.MethodGet, "/manufacturers/1", nil, false)
	requireAPIError(t, rec, http.StatusNotFound, "Manufacturer with Id 1 not found.")
}

func TestCatalogRoutes_Errors(t *testing.T) {
	api := newAPI(t)
	api.createManufacturer("Tesla")

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		authorized bool
		status     int
		message    string
	}{
		{"duplicate name", http.MethodPost, "/manufacturers", dto.Manufacturer{ManufacturerName: "Tesla"}, true, http.StatusConflict, "Manufacturer name Tesla already exists!"},
		{"null body", http.MethodPost, "/categories", "null", true, http.StatusBadRequest, "Category cannot be null!"},
		{"empty body", http.MethodPost, "/car-models", nil, true, http.StatusBadRequest, "Car model cannot be null!"},
		{"malformed json", http.MethodPost, "/categories", "{", true, http.StatusBadRequest, "Malformed JSON request."},
		{"update without id", http.MethodPut, "/manufacturers", dto.Manufacturer{ManufacturerName: "Ford"}, true, http.StatusBadRequest, "Manufacturer Id cannot be null!"},
		{"update missing", http.MethodPut, "/manufacturers", dto.Manufacturer{ManufacturerID: 9, ManufacturerName: "Ford"}, true, http.StatusNotFound, "Manufacturer with Id 9 not found."},
		{"delete missing", http.MethodDelete, "/categories/5", nil, true, http.StatusNotFound, "Category with Id 5 not found."},
		{"non numeric id", http.MethodGet, "/manufacturers/abc", nil, false, http.StatusBadRequest, "Invalid id : abc"},
		{"bad offset", http.MethodGet, "/manufacturers?offset=x", nil, false, http.StatusBadRequest, "Offset must be a non-negative integer."},
		{"negative offset", http.MethodGet, "/manufacturers?offset=-1", nil, false, http.StatusBadRequest, "Offset must be a non-negative integer."},
		{"zero page size", http.MethodGet, "/manufacturers?pageSize=0", nil, false, http.StatusBadRequest, "Page size must be a positive integer."},
		{"bad sort field", http.MethodGet, "/manufacturers?sortField=color", nil, false, http.StatusBadRequest, "Invalid sort field : color"},
		{"bad direction", http.MethodGet, "/manufacturers?sortDirection=up", nil, false, http.StatusBadRequest, "Invalid sort direction : up"},
		{"unknown route", http.MethodGet, "/trucks", nil, false, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(tt.method, tt.path, tt.body, tt.authorized)
			requireAPIError(t, rec, tt.status, tt.message)
		})
	}
}

func TestCatalogRoutes_Pagination(t *testing.T) {
	api := newAPI(t)
	for _, name := range []string{"Tesla", "Audi", "Ford"} {
		api.createManufacturer(name)
	}

	rec := api.do(http.MethodGet, "/manufacturers?offset=1&pageSize=2&sortField=manufacturerName&sortDirection=asc", nil, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	page := decode[dto.PageResponse[dto.Manufacturer]](t, rec)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Tesla", page.Content[0].ManufacturerName)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 2, page.Size)

	// A page past the end is empty, not an error.
	rec = api.do(http.MethodGet, "/manufacturers?offset=5&pageSize=2", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(mustField(t, rec, "content")))
}

func mustField(t *testing.T, rec *httptest.ResponseRecorder, field string) json.RawMessage {
	t.Helper()

	fields := decode[map[string]json.RawMessage](t, rec)
	raw, ok := fields[field]
	require.True(t, ok, "missing field %s", field)
	return raw
}

func TestAuth_RejectsMutationsWithoutToken(t *testing.T) {
	api := newAPI(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/manufacturers", bytes.NewReader([]byte(`{"manufacturerName":"Tesla"}`)))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			api.server.ServeHTTP(rec, req)

			requireAPIError(t, rec, http.StatusUnauthorized, "")
		})
	}

	// Nothing was written.
	rec := api.do(http.MethodGet, "/manufacturers", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), decode[dto.PageResponse[dto.Manufacturer]](t, rec).TotalElements)
}

func TestAuth_ForeignSecretRejected(t *testing.T) {
	api := newAPI(t)

	other := auth.NewJWTService(auth.DefaultJWTConfig([]byte("another-secret-another-secret-xx")))
	token, _, err := other.GenerateAccessToken("intruder@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/manufacturers/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	api.server.ServeHTTP(rec, req)

	requireAPIError(t, rec, http.StatusUnauthorized, "Invalid or expired token.")
}

func TestCarRoutes(t *testing.T) {
	api := newAPI(t)

	first := api.seedCar("A", 2020)
	assert.Equal(t, "Maker A", first.Manufacturer.ManufacturerName)
	assert.Equal(t, "Model A", first.CarModel.CarModelName)
	assert.Equal(t, "Category A", first.Category.CategoryName)

	second := api.seedCar("B", 2015)

	t.Run("model already bound", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/cars", map[string]any{
			"manufactureYear": 2021,
			"manufacturer":    map[string]any{"manufacturerId": first.Manufacturer.ManufacturerID},
			"carModel":        map[string]any{"carModelId": first.CarModel.CarModelID},
			"category":        map[string]any{"categoryId": first.Category.CategoryID},
		}, true)
		requireAPIError(t, rec, http.StatusConflict, "Car with car model Id 1 already exists!")
	})

	t.Run("missing reference", func(t *testing.T) {
		rec := api.do(http.MethodPut, "/cars", map[string]any{
			"carId":        first.CarID,
			"manufacturer": map[string]any{"manufacturerId": 99},
		}, true)
		requireAPIError(t, rec, http.StatusConflict, "Manufacturer with Id 99 not found.")
	})

	t.Run("partial update", func(t *testing.T) {
		rec := api.do(http.MethodPut, "/cars", map[string]any{
			"carId":           first.CarID,
			"manufactureYear": 2022,
		}, true)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		updated := decode[dto.CarResponse](t, rec)
		assert.Equal(t, 2022, updated.ManufactureYear)
		assert.Equal(t, first.CarModel, updated.CarModel)
	})

	t.Run("sorted list", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/cars?sortField=manufactureYear", nil, false)
		require.Equal(t, http.StatusOK, rec.Code)
		page := decode[dto.PageResponse[dto.CarResponse]](t, rec)
		require.Len(t, page.Content, 2)
		assert.Equal(t, second.CarID, page.Content[0].CarID)
	})

	t.Run("back references", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/manufacturers/1/cars", nil, false)
		require.Equal(t, http.StatusOK, rec.Code)
		page := decode[dto.PageResponse[dto.CarResponse]](t, rec)
		require.Len(t, page.Content, 1)
		assert.Equal(t, first.CarID, page.Content[0].CarID)

		rec = api.do(http.MethodGet, "/categories/2/cars", nil, false)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(1), decode[dto.PageResponse[dto.CarResponse]](t, rec).TotalElements)

		rec = api.do(http.MethodGet, "/car-models/2/car", nil, false)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, second.CarID, decode[dto.CarResponse](t, rec).CarID)

		rec = api.do(http.MethodGet, "/categories/42/cars", nil, false)
		requireAPIError(t, rec, http.StatusNotFound, "Category with Id 42 not found.")
	})

	t.Run("cascade on manufacturer delete", func(t *testing.T) {
		rec := api.do(http.MethodDelete, "/manufacturers/2", nil, true)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = api.do(http.MethodGet, "/cars/2", nil, false)
		requireAPIError(t, rec, http.StatusNotFound, "Car with Id 2 not found.")
	})

	t.Run("cascade on car model delete", func(t *testing.T) {
		rec := api.do(http.MethodDelete, fmt.Sprintf("/car-models/%d", first.CarModel.CarModelID), nil, true)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = api.do(http.MethodGet, fmt.Sprintf("/cars/%d", first.CarID), nil, false)
		requireAPIError(t, rec, http.StatusNotFound, fmt.Sprintf("Car with Id %d not found.", first.CarID))

		rec = api.do(http.MethodGet, "/cars", nil, false)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(0), decode[dto.PageResponse[dto.CarResponse]](t, rec).TotalElements)
	})
}

func TestAuditRoute(t *testing.T) {
	api := newAPI(t)
	m := api.createManufacturer("Tesla")

	rec := api.do(http.MethodPut, "/manufacturers", dto.Manufacturer{ManufacturerID: m.ManufacturerID, ManufacturerName: "Tesla Motors"}, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/audit/manufacturers/1", nil, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	entries := decode[[]audit.Entry](t, rec)
	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionUpdate, entries[0].Action)
	assert.Equal(t, audit.ActionCreate, entries[1].Action)
	assert.Equal(t, "admin@example.com", entries[0].UserEmail)

	var snapshot dto.Manufacturer
	require.NoError(t, json.Unmarshal(entries[0].Snapshot, &snapshot))
	assert.Equal(t, dto.Manufacturer{ManufacturerID: m.ManufacturerID, ManufacturerName: "Tesla Motors"}, snapshot)

	rec = api.do(http.MethodGet, "/audit/manufacturers/1?limit=1", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]audit.Entry](t, rec), 1)

	rec = api.do(http.MethodGet, "/audit/trucks/1", nil, true)
	requireAPIError(t, rec, http.StatusBadRequest, "Unknown entity type : trucks")

	rec = api.do(http.MethodGet, "/audit/manufacturers/1?limit=0", nil, true)
	requireAPIError(t, rec, http.StatusBadRequest, "Limit must be a positive integer.")

	rec = api.do(http.MethodGet, "/audit/manufacturers/1", nil, false)
	requireAPIError(t, rec, http.StatusUnauthorized, "")
}

func TestAuditRoute_CascadedCars(t *testing.T) {
	api := newAPI(t)
	first := api.seedCar("A", 2020)
	second := api.seedCar("B", 2015)

	rec := api.do(http.MethodDelete, fmt.Sprintf("/categories/%d", first.Category.CategoryID), nil, true)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodGet, fmt.Sprintf("/audit/cars/%d", first.CarID), nil, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	entries := decode[[]audit.Entry](t, rec)
	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionDelete, entries[0].Action)

	var snapshot dto.CarResponse
	require.NoError(t, json.Unmarshal(entries[0].Snapshot, &snapshot))
	assert.Equal(t, first, snapshot)

	rec = api.do(http.MethodGet, fmt.Sprintf("/audit/categories/%d", first.Category.CategoryID), nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]audit.Entry](t, rec), 2)

	// The untouched car has only its create entry.
	rec = api.do(http.MethodGet, fmt.Sprintf("/audit/cars/%d", second.CarID), nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]audit.Entry](t, rec), 1)
}

type downStorage struct{}

func (downStorage) Ping(ctx context.Context) error { return errors.New("connection refused") }

func TestHealth(t *testing.T) {
	api := newAPI(t)

	rec := api.do(http.MethodGet, "/health/live", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/health/ready", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	down := v1.NewRouter(v1.RouterConfig{
		Logger:   logger.Nop(),
		Storage:  downStorage{},
		Services: v1.Services{Cars: car.NewService(car.ServiceConfig{})},
	})
	rec = httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", decode[dto.HealthResponse](t, rec).Status)
}

func TestTraceHeaders(t *testing.T) {
	api := newAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	api.server.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}
