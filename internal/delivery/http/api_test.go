package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cafeadmin/config"
	"cafeadmin/internal/delivery/http/middleware"
	"cafeadmin/internal/delivery/http/router"
	"cafeadmin/internal/delivery/http/router/handler"
	"cafeadmin/internal/domain/codec"
	"cafeadmin/internal/domain/entity"
	domainerrors "cafeadmin/internal/domain/errors"
	"cafeadmin/internal/form"
	"cafeadmin/internal/infra/auth"
	blobstore "cafeadmin/internal/infra/blob"
	"cafeadmin/internal/infra/draftstore"
	"cafeadmin/internal/infra/persistence/memory"
	"cafeadmin/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"gocloud.dev/blob/memblob"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type stubPostal struct{}

func (stubPostal) Lookup(_ context.Context, code string) (*entity.PostalAddress, error) {
	if code != "1350021" {
		return nil, domainerrors.ErrPostalNotFound
	}

	return &entity.PostalAddress{PostalCode: code, Prefecture: "東京都", City: "江東区", Town: "白河"}, nil
}

type testAPI struct {
	e     *echo.Echo
	blobs *blobstore.BucketStore
}

func newTestAPI(t *testing.T, configure func(cfg *config.Config)) *testAPI {
	t.Helper()

	cfg := &config.Config{}
	cfg.Env.ServiceName = "cafeadmin"
	cfg.Upload.MaxImageBytes = 1 << 20
	cfg.Blob.PublicBaseURL = "http://localhost:8080/images"
	if configure != nil {
		configure(cfg)
	}
	logger := slog.New(slog.DiscardHandler)

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })
	blobs := blobstore.NewBucketStore(bucket, cfg.Blob)

	paths := form.NewPathGenerator()
	cafes := impl.NewCafeService(impl.CafeServiceParams{
		Cafes:  memory.NewCafeRepository(),
		Images: memory.NewCafeImageRepository(),
		Blobs:  blobs,
		Paths:  paths,
		Config: cfg,
		Logger: logger,
	})

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	sessions := impl.NewSessionService(impl.SessionServiceParams{
		Gate:   auth.NewCredentialGate(cfg),
		Tokens: tokens,
		Config: cfg,
		Logger: logger,
	})

	store, err := draftstore.NewFileStore(t.TempDir())
	require.NoError(t, err)
	manager := form.NewManager(form.ManagerParams{
		Lifecycle: fxtest.NewLifecycle(t),
		Paths:     paths,
		Drafts:    form.NewDrafts(store, blobs, logger),
		Submitter: cafes,
		Records:   cafes,
		Postal:    stubPostal{},
		Blobs:     blobs,
		Logger:    logger,
	})

	e := NewEcho(cfg, logger, middleware.NewErrorMiddleware(logger))
	router.NewRouter(router.RouterParams{
		RecordHandler:  handler.NewRecordHandler(cafes),
		WizardHandler:  handler.NewWizardHandler(manager, cfg),
		SessionHandler: handler.NewSessionHandler(sessions),
		PostalHandler:  handler.NewPostalHandler(stubPostal{}),
		ImageHandler:   handler.NewImageHandler(blobs),
		AuthMiddleware: middleware.NewAuthMiddleware(sessions),
	}).RegisterRoutes(e)

	return &testAPI{e: e, blobs: blobs}
}

func (a *testAPI) do(t *testing.T, method, target string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	return rec
}

func (a *testAPI) upload(t *testing.T, target string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "photo.bin")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, target, &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	return rec
}

type envelope[T any] struct {
	Data T `json:"data"`
	Meta *struct {
		Count int `json:"count"`
	} `json:"meta"`
}

type errorBody struct {
	Errors  []string        `json:"errors"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Detail  string          `json:"detail"`
	Data    json.RawMessage `json:"data"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())

	return out
}

func recordPayload() map[string]any {
	images := map[string]any{}
	for _, c := range entity.RequiredImageCategories {
		images[c.String()] = map[string]any{
			"id":         c.String(),
			"fileBase64": "data:image/png;base64,iVBORw0KGgo=",
		}
	}

	return map[string]any{
		"name":           "Blue Bottle",
		"facilityType":   "cafe",
		"area":           "清澄白河",
		"prefecture":     "東京都",
		"postalCode":     "1350021",
		"addressLine1":   "江東区白河",
		"addressLine2":   "1-4-8",
		"status":         "open",
		"seats":          "",
		"ambienceCasual": 3,
		"ambienceModern": 3,
		"images":         images,
	}
}

func TestAPI_Health(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = api.do(t, http.MethodGet, "/health", nil, "X-Request-Id", "req-1")
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-Id"))
}

func TestAPI_SessionRequired(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	api := newTestAPI(t, func(cfg *config.Config) {
		cfg.Admin.ID = "admin"
		cfg.Admin.PasswordHash = hash
		cfg.Admin.SessionKey = "test_session_key_very_long_for_testing"
		cfg.Admin.SessionTTL = time.Hour
	})

	rec := api.do(t, http.MethodGet, "/records", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodPost, "/session", map[string]string{"id": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decode[errorBody](t, rec).Code)

	rec = api.do(t, http.MethodPost, "/session", map[string]string{"id": "admin"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"passwordは必須です"}, decode[errorBody](t, rec).Errors)

	rec = api.do(t, http.MethodPost, "/session", map[string]string{"id": "admin", "password": "s3cret"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	login := decode[envelope[struct {
		Token string `json:"token"`
	}]](t, rec)
	require.NotEmpty(t, login.Data.Token)

	rec = api.do(t, http.MethodGet, "/records", nil, echo.HeaderAuthorization, "Bearer "+login.Data.Token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/records", nil, echo.HeaderAuthorization, "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// stored images stay public
	rec = api.do(t, http.MethodGet, "/images/cafes/missing.png", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_RecordLifecycle(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodPost, "/records", recordPayload())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[envelope[entity.Cafe]](t, rec)
	require.NotEmpty(t, created.Data.ID)
	assert.Equal(t, "/records/"+created.Data.ID, rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "東京都江東区白河1-4-8", created.Data.Address)
	assert.Nil(t, created.Data.Seats)

	main := created.Data.Images.Get(entity.ImageMain)
	require.NotNil(t, main)
	assert.Equal(t, "http://localhost:8080/images/"+main.StoragePath, main.PreviewURL)

	rec = api.do(t, http.MethodGet, "/images/"+main.StoragePath, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))

	update := recordPayload()
	update["name"] = "Blue Bottle 清澄白河"
	rec = api.do(t, http.MethodPut, "/records/"+created.Data.ID, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Blue Bottle 清澄白河", decode[envelope[entity.Cafe]](t, rec).Data.Name)

	rec = api.do(t, http.MethodGet, "/records?q=blue", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[envelope[[]entity.Cafe]](t, rec)
	require.NotNil(t, list.Meta)
	assert.Equal(t, 1, list.Meta.Count)

	rec = api.do(t, http.MethodDelete, "/records/"+created.Data.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, decode[envelope[entity.Cafe]](t, rec).Data.DeletedAt)

	rec = api.do(t, http.MethodGet, "/records", nil)
	assert.Equal(t, 0, decode[envelope[[]entity.Cafe]](t, rec).Meta.Count)
	rec = api.do(t, http.MethodGet, "/records?includeDeleted=true", nil)
	assert.Equal(t, 1, decode[envelope[[]entity.Cafe]](t, rec).Meta.Count)

	rec = api.do(t, http.MethodGet, "/records/"+created.Data.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_RecordUploadIgnoresClientPath(t *testing.T) {
	api := newTestAPI(t, func(cfg *config.Config) { cfg.Blob.Upsert = true })

	rec := api.do(t, http.MethodPost, "/records", recordPayload())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[envelope[entity.Cafe]](t, rec).Data
	target := first.Images.Get(entity.ImageMain).StoragePath
	require.NotEmpty(t, target)

	tests := []struct {
		name   string
		method string
		target func(created string) string
	}{
		{name: "create", method: http.MethodPost, target: func(string) string { return "/records" }},
		{name: "update", method: http.MethodPut, target: func(created string) string { return "/records/" + created }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/records", recordPayload())
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			other := decode[envelope[entity.Cafe]](t, rec).Data

			payload := recordPayload()
			payload["images"].(map[string]any)["main"] = map[string]any{
				"id":          "main",
				"storagePath": target,
				"fileBase64":  codec.EncodeDataURI("image/png", pngBytes),
			}
			rec = api.do(t, tt.method, tt.target(other.ID), payload)
			require.Less(t, rec.Code, http.StatusMultipleChoices, rec.Body.String())
			saved := decode[envelope[entity.Cafe]](t, rec).Data

			main := saved.Images.Get(entity.ImageMain)
			require.NotNil(t, main)
			assert.NotEqual(t, target, main.StoragePath)

			rc, contentType, err := api.blobs.Open(context.Background(), target)
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, "image/png", contentType)
			assert.Equal(t, pngBytes[:8], data)
		})
	}
}

func TestAPI_RecordErrors(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodPost, "/records", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MALFORMED_INPUT", decode[errorBody](t, rec).Code)

	payload := recordPayload()
	delete(payload, "name")
	delete(payload["images"].(map[string]any), entity.ImageDrink.String())
	rec = api.do(t, http.MethodPost, "/records", payload)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Len(t, body.Errors, 2)

	rec = api.do(t, http.MethodGet, "/records", nil)
	assert.Equal(t, 0, decode[envelope[[]entity.Cafe]](t, rec).Meta.Count)

	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/records/missing"},
		{http.MethodPut, "/records/missing"},
		{http.MethodDelete, "/records/missing"},
	} {
		var payload any
		if tc.method == http.MethodPut {
			payload = recordPayload()
		}
		rec := api.do(t, tc.method, tc.target, payload)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.method)
		assert.Equal(t, "CAFE_NOT_FOUND", decode[errorBody](t, rec).Code, tc.method)
	}

	rec = api.do(t, http.MethodGet, "/records?wifiOnly=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_RecordRejectsOutOfRangeValues(t *testing.T) {
	api := newTestAPI(t, nil)

	tests := []struct {
		name       string
		mutate     func(payload map[string]any)
		wantStatus int
		wantCode   string
		wantErrors []string
	}{
		{
			name:       "unknown status",
			mutate:     func(p map[string]any) { p["status"] = "bogus" },
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "VALIDATION_FAILED",
			wantErrors: []string{"statusの値が不正です"},
		},
		{
			name: "unknown outlet and crowd level",
			mutate: func(p map[string]any) {
				p["outlet"] = "plenty"
				p["crowdMatrix"] = map[string]any{"weekdayMorning": "packed"}
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "VALIDATION_FAILED",
			wantErrors: []string{"outletの値が不正です", "crowdMatrixの値が不正です"},
		},
		{
			name:       "fractional seats",
			mutate:     func(p map[string]any) { p["seats"] = 2.7 },
			wantStatus: http.StatusBadRequest,
			wantCode:   "MALFORMED_INPUT",
		},
		{
			name:       "NaN seats",
			mutate:     func(p map[string]any) { p["seats"] = "NaN" },
			wantStatus: http.StatusBadRequest,
			wantCode:   "MALFORMED_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := recordPayload()
			tt.mutate(payload)

			rec := api.do(t, http.MethodPost, "/records", payload)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			body := decode[errorBody](t, rec)
			assert.Equal(t, tt.wantCode, body.Code)
			if tt.wantErrors != nil {
				assert.Equal(t, tt.wantErrors, body.Errors)
			}
		})
	}

	rec := api.do(t, http.MethodGet, "/records", nil)
	assert.Equal(t, 0, decode[envelope[[]entity.Cafe]](t, rec).Meta.Count)
}

func TestAPI_Postal(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodGet, "/postal/135-0021", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "江東区", decode[envelope[entity.PostalAddress]](t, rec).Data.City)

	rec = api.do(t, http.MethodGet, "/postal/12345", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "POSTAL_CODE_INVALID", decode[errorBody](t, rec).Code)

	rec = api.do(t, http.MethodGet, "/postal/9999999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_WizardCreateFlow(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodPost, "/wizards", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	state := decode[envelope[form.State]](t, rec).Data
	wid := state.ID
	assert.Equal(t, form.CreateDraftKey, state.DraftKey)
	assert.Equal(t, "info", state.StepName)
	base := "/wizards/" + wid

	rec = api.do(t, http.MethodPatch, base+"/form", map[string]any{
		"name":       "Blue Bottle",
		"area":       "清澄白河",
		"postalCode": "135-0021",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodPost, base+"/postal-lookup", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	state = decode[envelope[form.State]](t, rec).Data
	assert.Equal(t, "1350021", state.Form.PostalCode)
	assert.Equal(t, "江東区", state.Form.AddressLine1)
	assert.Equal(t, "白河", state.Form.AddressLine2)

	rec = api.do(t, http.MethodPost, base+"/toggle", map[string]string{"field": "services", "value": "takeout"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"takeout"}, decode[envelope[form.State]](t, rec).Data.Form.Services)

	rec = api.do(t, http.MethodPut, base+"/crowd/weekendAfternoon", map[string]string{"level": "crowded"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, entity.CrowdCrowded, decode[envelope[form.State]](t, rec).Data.Form.CrowdMatrix.WeekendAfternoon)

	rec = api.do(t, http.MethodPost, base+"/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// submitting without images keeps the wizard on the image step
	rec = api.do(t, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	failed := decode[errorBody](t, rec)
	assert.Len(t, failed.Errors, len(entity.RequiredImageCategories))
	var failedState form.State
	require.NoError(t, json.Unmarshal(failed.Data, &failedState))
	assert.Equal(t, form.StepImages, failedState.Step)

	for _, c := range entity.RequiredImageCategories {
		rec = api.upload(t, base+"/images/"+c.String(), pngBytes)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	state = decode[envelope[form.State]](t, rec).Data
	drink := state.Form.Images.Get(entity.ImageDrink)
	require.NotNil(t, drink)
	assert.True(t, form.IsLocalPreview(drink.PreviewURL))
	assert.True(t, strings.HasSuffix(drink.StoragePath, ".png"), drink.StoragePath)

	rec = api.do(t, http.MethodGet, base+"/previews/"+strings.TrimPrefix(drink.PreviewURL, "blob:"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngBytes, rec.Body.Bytes())

	rec = api.do(t, http.MethodPatch, base+"/images/drink", map[string]string{"caption": "latte"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	state = decode[envelope[form.State]](t, rec).Data
	assert.Equal(t, form.StepComplete, state.Step)
	require.NotNil(t, state.Result)
	assert.Equal(t, "latte", state.Result.Images.Get(entity.ImageDrink).Caption)

	rec = api.do(t, http.MethodGet, "/records/"+state.Result.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, base+"/restart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, form.StepInfo, decode[envelope[form.State]](t, rec).Data.Step)

	rec = api.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = api.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_WizardErrors(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodPost, "/wizards", map[string]string{"recordId": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodPost, "/wizards", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	base := "/wizards/" + decode[envelope[form.State]](t, rec).Data.ID

	tests := []struct {
		name   string
		method string
		target string
		body   any
		status int
		code   string
	}{
		{"back from info", http.MethodPost, base + "/back", nil, http.StatusConflict, "INVALID_STEP"},
		{"jump to complete", http.MethodPost, base + "/step", map[string]int{"step": 2}, http.StatusConflict, "INVALID_STEP"},
		{"step missing", http.MethodPost, base + "/step", map[string]any{}, http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
		{"submit from info", http.MethodPost, base + "/submit", nil, http.StatusConflict, "INVALID_STEP"},
		{"unknown list", http.MethodPost, base + "/toggle", map[string]string{"field": "colors", "value": "x"}, http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
		{"unknown crowd slot", http.MethodPut, base + "/crowd/midnight", map[string]string{"level": "empty"}, http.StatusBadRequest, "MALFORMED_INPUT"},
		{"unknown category", http.MethodPatch, base + "/images/poster", map[string]string{"caption": "x"}, http.StatusBadRequest, "UNKNOWN_IMAGE_CATEGORY"},
		{"caption on empty slot", http.MethodPatch, base + "/images/main", map[string]string{"caption": "x"}, http.StatusConflict, "EMPTY_IMAGE_SLOT"},
		{"clear unconfirmed", http.MethodDelete, base + "/images/main", nil, http.StatusConflict, "CONFIRMATION_REQUIRED"},
		{"patch not an object", http.MethodPatch, base + "/form", "[1,2]", http.StatusBadRequest, "MALFORMED_INPUT"},
		{"missing preview", http.MethodGet, base + "/previews/nope", nil, http.StatusNotFound, "PREVIEW_NOT_FOUND"},
		{"unknown wizard", http.MethodGet, "/wizards/nope", nil, http.StatusNotFound, "WIZARD_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decode[errorBody](t, rec).Code)
		})
	}

	rec = api.upload(t, base+"/images/main", []byte("plain text, not an image"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.upload(t, base+"/images/main", pngBytes)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(t, http.MethodDelete, base+"/images/main?confirm=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[envelope[form.State]](t, rec).Data.Form.Images.Get(entity.ImageMain))
}

func TestAPI_UploadTooLarge(t *testing.T) {
	api := newTestAPI(t, func(cfg *config.Config) { cfg.Upload.MaxImageBytes = 8 })

	rec := api.do(t, http.MethodPost, "/wizards", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	base := "/wizards/" + decode[envelope[form.State]](t, rec).Data.ID

	rec = api.upload(t, base+"/images/main", pngBytes)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "IMAGE_TOO_LARGE", decode[errorBody](t, rec).Code)
}
