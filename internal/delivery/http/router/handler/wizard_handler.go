package handler

import (
	"io"
	"net/http"
	"strings"

	"cafeadmin/config"
	"cafeadmin/internal/delivery/http/response"
	"cafeadmin/internal/domain/entity"
	domainerrors "cafeadmin/internal/domain/errors"
	"cafeadmin/internal/form"
	"cafeadmin/internal/util"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// WizardHandler drives form wizards over HTTP. Every action answers with
// the wizard state as {data}.
type WizardHandler struct {
	wizards       *form.Manager
	maxImageBytes int64
}

func NewWizardHandler(wizards *form.Manager, cfg *config.Config) *WizardHandler {
	return &WizardHandler{
		wizards:       wizards,
		maxImageBytes: cfg.Upload.MaxImageBytes,
	}
}

type openWizardRequest struct {
	RecordID string `json:"recordId" validate:"omitempty,max=64"`
}

type toggleRequest struct {
	Field string `json:"field" validate:"required,oneof=regularHolidays services paymentMethods customerTypes recommendedWorkStyles"`
	Value string `json:"value" validate:"required,max=64"`
}

type crowdRequest struct {
	Level string `json:"level" validate:"required,oneof=empty normal crowded unknown"`
}

type stepRequest struct {
	Step *int `json:"step" validate:"required"`
}

type captionRequest struct {
	Caption string `json:"caption" validate:"max=200"`
}

// Open handles POST /wizards
func (h *WizardHandler) Open(c echo.Context) error {
	var req openWizardRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return domainerrors.NewMalformedInputError(err, "body must be {recordId}")
		}
		if err := c.Validate(&req); err != nil {
			return err
		}
	}

	w, err := h.wizards.Open(c.Request().Context(), req.RecordID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, "/wizards/"+w.ID(), w.Snapshot())
}

// Get handles GET /wizards/:wid
func (h *WizardHandler) Get(c echo.Context) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, w.Snapshot())
}

// Close handles DELETE /wizards/:wid
func (h *WizardHandler) Close(c echo.Context) error {
	if err := h.wizards.Close(c.Param("wid")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// PatchForm handles PATCH /wizards/:wid/form with a partial form object
func (h *WizardHandler) PatchForm(c echo.Context) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return domainerrors.NewMalformedInputError(err, "form patch could not be read")
	}

	state, err := w.Patch(c.Request().Context(), body)

	return respond(c, state, err)
}

// Toggle handles POST /wizards/:wid/toggle
func (h *WizardHandler) Toggle(c echo.Context) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}
	var req toggleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	state, err := w.ToggleListValue(c.Request().Context(), form.ListField(req.Field), req.Value)

	return respond(c, state, err)
}

// SetCrowd handles PUT /wizards/:wid/crowd/:slot
func (h *WizardHandler) SetCrowd(c echo.Context) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}
	var req crowdRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	state, err := w.SetCrowd(c.Request().Context(), entity.CrowdSlot(c.Param("slot")), entity.CrowdLevel(req.Level))

	return respond(c, state, err)
}

// Advance handles POST /wizards/:wid/advance
func (h *WizardHandler) Advance(c echo.Context) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}

	state, err := w.Advance()

	return respond(c, state, err)
}

// Back handles POST /wizards/:wid/back
func (h *WizardHandler) Back(c echo.Context) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}

	state, err := w.Back()

	return respond(c, state, err)
}

// GoTo handles POST /wizards/:wid/step
func (h *WizardHandler) GoTo(c echo.Context) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}
	var req stepRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	state, err := w.GoTo(form.Step(*req.Step))

	return respond(c, state, err)
}

// AttachImage handles PUT /wizards/:wid/images/:category with a multipart "file"
func (h *WizardHandler) AttachImage(c echo.Context) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}
	category, err := entity.ParseImageCategory(c.Param("category"))
	if err != nil {
		return domainerrors.ErrUnknownImageCategory
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return domainerrors.NewMalformedInputError(err, "multipart field \"file\" is required")
	}
	if h.maxImageBytes > 0 && fh.Size > h.maxImageBytes {
		return domainerrors.ErrImageTooLarge.WithDetails(util.SizeLimitDetail(fh.Filename, fh.Size, h.maxImageBytes))
	}
	f, err := fh.Open()
	if err != nil {
		return domainerrors.NewMalformedInputError(err, "uploaded file could not be opened")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domainerrors.NewMalformedInputError(err, "uploaded file could not be read")
	}

	contentType, err := sniffImageType(fh.Header.Get(echo.HeaderContentType), data)
	if err != nil {
		return err
	}

	state, err := w.AttachImage(c.Request().Context(), category, data, contentType, fh.Filename)

	return respond(c, state, err)
}

// SetCaption handles PATCH /wizards/:wid/images/:category
func (h *WizardHandler) SetCaption(c echo.Context) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}
	category, err := entity.ParseImageCategory(c.Param("category"))
	if err != nil {
		return domainerrors.ErrUnknownImageCategory
	}
	var req captionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	state, err := w.SetCaption(c.Request().Context(), category, req.Caption)

	return respond(c, state, err)
}

// ClearImage handles DELETE /wizards/:wid/images/:category?confirm=true
func (h *WizardHandler) ClearImage(c echo.Context) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}
	category, err := entity.ParseImageCategory(c.Param("category"))
	if err != nil {
		return domainerrors.ErrUnknownImageCategory
	}

	var confirmed bool
	if err := echo.QueryParamsBinder(c).Bool("confirm", &confirmed).BindError(); err != nil {
		return domainerrors.NewMalformedInputError(err, "confirm must be a boolean")
	}

	state, err := w.ClearImage(c.Request().Context(), category, confirmed)

	return respond(c, state, err)
}

// Preview handles GET /wizards/:wid/previews/:ref and serves staged bytes
func (h *WizardHandler) Preview(c echo.Context) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}

	ref := c.Param("ref")
	if !form.IsLocalPreview(ref) {
		ref = "blob:" + ref
	}
	p, ok := w.Preview(ref)
	if !ok {
		return domainerrors.ErrPreviewNotFound
	}

	return c.Blob(http.StatusOK, p.ContentType, p.Data)
}

// PostalLookup handles POST /wizards/:wid/postal-lookup
func (h *WizardHandler) PostalLookup(c echo.Context) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}

	state, err := w.PrefillFromPostal(c.Request().Context())

	return respond(c, state, err)
}

// Submit handles POST /wizards/:wid/submit. A failed submission still
// answers with the wizard state next to the error.
func (h *WizardHandler) Submit(c echo.Context) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}

	state, err := w.Submit(c.Request().Context())
	if err != nil {
		if state.ID == "" {
			return err
		}

		return response.Failure(c, err, state)
	}

	return response.Success(c, http.StatusOK, state)
}

// Restart handles POST /wizards/:wid/restart
func (h *WizardHandler) Restart(c echo.Context) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}

	state, err := w.Restart(c.Request().Context())

	return respond(c, state, err)
}

func (h *WizardHandler) wizard(c echo.Context) (*form.Wizard, error) {
	return h.wizards.Get(c.Param("wid"))
}

func respond(c echo.Context, state form.State, err error) error {
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, state)
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.NewMalformedInputError(err, "request body is malformed")
	}

	return c.Validate(req)
}

// sniffImageType trusts a declared image type and otherwise detects it from
// the payload. Non-image payloads are rejected.
func sniffImageType(declared string, data []byte) (string, error) {
	declared = strings.TrimSpace(strings.Split(declared, ";")[0])
	if strings.HasPrefix(declared, "image/") {
		return declared, nil
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return "", domainerrors.NewMalformedInputError(nil, "uploaded file is not an image ("+detected.String()+")")
	}

	return detected.String(), nil
}
