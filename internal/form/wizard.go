package form

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	deliverycontext "cafeadmin/internal/delivery/context"
	"cafeadmin/internal/domain/codec"
	"cafeadmin/internal/domain/entity"
	domainerrors "cafeadmin/internal/domain/errors"
	"cafeadmin/internal/domain/service"

	"github.com/pkg/errors"
)

// Step is a wizard state
type Step int

const (
	StepInfo Step = iota
	StepImages
	StepComplete
)

func (s Step) String() string {
	switch s {
	case StepInfo:
		return "info"
	case StepImages:
		return "images"
	case StepComplete:
		return "complete"
	}

	return "unknown"
}

// SubmitFailedMessage is shown when a failure carries no structured message
const SubmitFailedMessage = "登録処理でエラーが発生しました。時間をおいて再度お試しください。"

// ListField names a multi-select chip list on the form
type ListField string

const (
	ListRegularHolidays ListField = "regularHolidays"
	ListServices        ListField = "services"
	ListPaymentMethods  ListField = "paymentMethods"
	ListCustomerTypes   ListField = "customerTypes"
	ListWorkStyles      ListField = "recommendedWorkStyles"
)

var ErrUnknownListField = errors.New("unknown list field")

// Submitter runs the remote write for a finished form.
type Submitter interface {
	Create(ctx context.Context, payload *entity.CafeFormPayload) (*entity.Cafe, error)
	Update(ctx context.Context, id string, payload *entity.CafeFormPayload) (*entity.Cafe, error)
}

// State is a read-only snapshot of a wizard
type State struct {
	ID         string                  `json:"id"`
	DraftKey   DraftKey                `json:"draftKey"`
	Step       Step                    `json:"step"`
	StepName   string                  `json:"stepName"`
	EditingID  string                  `json:"editingId,omitempty"`
	Submitting bool                    `json:"submitting"`
	Error      string                  `json:"error,omitempty"`
	Form       *entity.CafeFormPayload `json:"form"`
	Result     *entity.Cafe            `json:"result,omitempty"`
}

// Wizard drives one editing session through Info -> Images -> Complete.
// Every form change is mirrored to the draft store while the wizard is open.
type Wizard struct {
	mu sync.Mutex

	id        string
	key       DraftKey
	editingID string

	step       Step
	form       *entity.CafeFormPayload
	open       bool
	submitting bool
	errMsg     string
	result     *entity.Cafe
	lastUsed   time.Time

	slots     *ImageSlots
	previews  *PreviewRegistry
	drafts    *Drafts
	submitter Submitter
	postal    service.PostalLookup
	logger    *slog.Logger
}

type wizardDeps struct {
	paths     *PathGenerator
	drafts    *Drafts
	submitter Submitter
	postal    service.PostalLookup
	logger    *slog.Logger
}

func newWizard(id, editingID string, initial *entity.CafeFormPayload, deps wizardDeps) *Wizard {
	previews := NewPreviewRegistry()
	initial.ApplyFacilityRules()

	return &Wizard{
		id:        id,
		key:       DraftKeyFor(editingID),
		editingID: editingID,
		step:      StepInfo,
		form:      initial,
		open:      true,
		lastUsed:  time.Now(),
		slots:     NewImageSlots(deps.paths, previews),
		previews:  previews,
		drafts:    deps.drafts,
		submitter: deps.submitter,
		postal:    deps.postal,
		logger:    deps.logger,
	}
}

// ID returns the wizard id
func (w *Wizard) ID() string { return w.id }

// Snapshot returns the current state. Staged payloads are omitted from the form.
func (w *Wizard) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.snapshotLocked()
}

// Update applies fn to the form and mirrors the result to the draft.
func (w *Wizard) Update(ctx context.Context, fn func(form *entity.CafeFormPayload)) (State, error) {
	return w.mutate(ctx, func() error {
		fn(w.form)

		return nil
	})
}

// Patch merges a JSON object of form fields into the form. Images are
// managed through the slot operations and are ignored here.
func (w *Wizard) Patch(ctx context.Context, patch []byte) (State, error) {
	return w.mutate(ctx, func() error {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(patch, &fields); err != nil {
			return domainerrors.NewMalformedInputError(err, "form patch must be a JSON object")
		}
		delete(fields, "images")
		cleaned, err := json.Marshal(fields)
		if err != nil {
			return errors.WithStack(err)
		}

		next := w.form.Clone()
		dec := json.NewDecoder(bytes.NewReader(cleaned))
		if err := dec.Decode(next); err != nil {
			return domainerrors.NewMalformedInputError(err, "form patch does not match the form shape")
		}
		next.Images = w.form.Images
		w.form = next

		return nil
	})
}

// ToggleListValue adds value to a chip list, or removes it when already present.
func (w *Wizard) ToggleListValue(ctx context.Context, field ListField, value string) (State, error) {
	return w.mutate(ctx, func() error {
		list, err := w.listField(field)
		if err != nil {
			return err
		}
		if i := slices.Index(*list, value); i >= 0 {
			*list = slices.Delete(*list, i, i+1)
		} else {
			*list = append(*list, value)
		}

		return nil
	})
}

// SetCrowd sets one crowd matrix slot
func (w *Wizard) SetCrowd(ctx context.Context, slot entity.CrowdSlot, level entity.CrowdLevel) (State, error) {
	return w.mutate(ctx, func() error {
		if !level.Valid() || !w.form.CrowdMatrix.Set(slot, level) {
			return domainerrors.NewMalformedInputError(nil, "unknown crowd slot or level")
		}

		return nil
	})
}

// AttachImage stages a payload for category c.
func (w *Wizard) AttachImage(ctx context.Context, c entity.ImageCategory, data []byte, contentType, filename string) (State, error) {
	return w.mutate(ctx, func() error {
		_, err := w.slots.AssignUpload(&w.form.Images, c, data, contentType, filename)

		return err
	})
}

// ClearImage empties category c; confirmed must be true.
func (w *Wizard) ClearImage(ctx context.Context, c entity.ImageCategory, confirmed bool) (State, error) {
	return w.mutate(ctx, func() error {
		return w.slots.Clear(&w.form.Images, c, confirmed)
	})
}

// SetCaption edits the caption of a non-empty slot
func (w *Wizard) SetCaption(ctx context.Context, c entity.ImageCategory, caption string) (State, error) {
	return w.mutate(ctx, func() error {
		return w.slots.SetCaption(&w.form.Images, c, caption)
	})
}

// Preview returns a staged payload by its local reference
func (w *Wizard) Preview(ref string) (Preview, bool) {
	return w.previews.Get(ref)
}

// Advance moves Info -> Images without validating.
func (w *Wizard) Advance() (State, error) {
	return w.transition(func() error {
		if w.step != StepInfo {
			return domainerrors.ErrInvalidStep
		}
		w.step = StepImages

		return nil
	})
}

// Back moves Images -> Info.
func (w *Wizard) Back() (State, error) {
	return w.transition(func() error {
		if w.step != StepImages {
			return domainerrors.ErrInvalidStep
		}
		w.step = StepInfo

		return nil
	})
}

// GoTo jumps directly to step 0 or 1; not allowed once complete.
func (w *Wizard) GoTo(step Step) (State, error) {
	return w.transition(func() error {
		if w.step == StepComplete || (step != StepInfo && step != StepImages) {
			return domainerrors.ErrInvalidStep
		}
		w.step = step

		return nil
	})
}

// Submit validates the form and runs the remote write. Missing fields send
// the wizard back to Info; missing images keep it on Images. On failure the
// wizard stays on Images with the draft intact; on success the draft is
// cleared and the wizard completes.
func (w *Wizard) Submit(ctx context.Context) (State, error) {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()

		return State{}, domainerrors.ErrSubmissionInProgress
	}
	if w.step != StepImages {
		w.mu.Unlock()

		return State{}, domainerrors.ErrInvalidStep
	}
	w.lastUsed = time.Now()

	if violations := codec.FieldViolations(w.form); len(violations) > 0 {
		w.step = StepInfo
		w.errMsg = strings.Join(violations, "\n")
		state := w.snapshotLocked()
		w.mu.Unlock()

		return state, domainerrors.NewValidationError(violations)
	}
	if violations := codec.RequiredImageViolations(w.form); len(violations) > 0 {
		w.errMsg = strings.Join(violations, "\n")
		state := w.snapshotLocked()
		w.mu.Unlock()

		return state, domainerrors.NewValidationError(violations)
	}

	w.submitting = true
	w.errMsg = ""
	payload := w.form.Clone()
	editingID := w.editingID
	w.mu.Unlock()

	// A started submission runs to completion even if the caller goes away.
	submitCtx := context.WithoutCancel(ctx)
	var (
		cafe *entity.Cafe
		err  error
	)
	if editingID == "" {
		cafe, err = w.submitter.Create(submitCtx, payload)
	} else {
		cafe, err = w.submitter.Update(submitCtx, editingID, payload)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false

	if err != nil {
		w.errMsg = failureMessage(err)

		return w.snapshotLocked(), err
	}

	if clearErr := w.drafts.Clear(submitCtx, w.key); clearErr != nil {
		w.log(ctx).Warn("Failed to clear draft after submit", slog.String("draft_key", string(w.key)), slog.Any("error", clearErr))
	}
	w.slots.ReleaseAll()
	w.form = codec.ToFormPayload(cafe, w.drafts.preview)
	w.step = StepComplete
	w.result = cafe

	return w.snapshotLocked(), nil
}

// Restart leaves Complete: the draft is cleared and an empty form starts at Info.
func (w *Wizard) Restart(ctx context.Context) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepComplete {
		return State{}, domainerrors.ErrInvalidStep
	}
	if err := w.drafts.Clear(ctx, w.key); err != nil {
		return State{}, err
	}
	w.slots.ReleaseAll()
	w.form = entity.NewEmptyForm()
	w.step = StepInfo
	w.errMsg = ""
	w.result = nil
	w.lastUsed = time.Now()

	return w.snapshotLocked(), nil
}

// PrefillFromPostal looks up the form's postal code and fills prefecture and
// the first two address lines with whatever the lookup returned.
func (w *Wizard) PrefillFromPostal(ctx context.Context) (State, error) {
	w.mu.Lock()
	code := w.form.PostalCode
	w.mu.Unlock()

	normalized, err := NormalizePostalCode(code)
	if err != nil {
		return State{}, err
	}
	addr, err := w.postal.Lookup(ctx, normalized)
	if err != nil {
		return State{}, err
	}

	return w.mutate(ctx, func() error {
		w.form.PostalCode = normalized
		if addr.Prefecture != "" {
			w.form.Prefecture = addr.Prefecture
		}
		if addr.City != "" {
			w.form.AddressLine1 = addr.City
		}
		if addr.Town != "" {
			w.form.AddressLine2 = addr.Town
		}

		return nil
	})
}

// Close releases every local preview and stops draft mirroring. The draft itself is kept.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.open = false
	w.slots.ReleaseAll()
}

// idleBefore reports whether the wizard has not been used since cutoff and is not submitting
func (w *Wizard) idleBefore(cutoff time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return !w.submitting && w.lastUsed.Before(cutoff)
}

func (w *Wizard) mutate(ctx context.Context, fn func() error) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editableLocked(); err != nil {
		return State{}, err
	}
	if err := fn(); err != nil {
		return State{}, err
	}
	w.form.ApplyFacilityRules()
	w.lastUsed = time.Now()

	if err := w.drafts.Save(ctx, w.key, w.form, w.open); err != nil {
		w.log(ctx).Warn("Failed to save draft", slog.String("draft_key", string(w.key)), slog.Any("error", err))
	}

	return w.snapshotLocked(), nil
}

func (w *Wizard) transition(fn func() error) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitting {
		return State{}, domainerrors.ErrSubmissionInProgress
	}
	if err := fn(); err != nil {
		return State{}, err
	}
	w.lastUsed = time.Now()

	return w.snapshotLocked(), nil
}

func (w *Wizard) editableLocked() error {
	if w.submitting {
		return domainerrors.ErrSubmissionInProgress
	}
	if w.step == StepComplete || !w.open {
		return domainerrors.ErrInvalidStep
	}

	return nil
}

func (w *Wizard) listField(field ListField) (*[]string, error) {
	switch field {
	case ListRegularHolidays:
		return &w.form.RegularHolidays, nil
	case ListServices:
		return &w.form.Services, nil
	case ListPaymentMethods:
		return &w.form.PaymentMethods, nil
	case ListCustomerTypes:
		return &w.form.CustomerTypes, nil
	case ListWorkStyles:
		return &w.form.RecommendedWorkStyles, nil
	}

	return nil, errors.Wrap(ErrUnknownListField, string(field))
}

func (w *Wizard) snapshotLocked() State {
	form := w.form.Clone()
	for _, c := range entity.AllImageCategories {
		if slot := form.Images.Get(c); slot != nil {
			slot.FileBase64 = ""
		}
	}

	return State{
		ID:         w.id,
		DraftKey:   w.key,
		Step:       w.step,
		StepName:   w.step.String(),
		EditingID:  w.editingID,
		Submitting: w.submitting,
		Error:      w.errMsg,
		Form:       form,
		Result:     w.result,
	}
}

func (w *Wizard) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, w.logger).With(slog.String("wizard_id", w.id))
}

func failureMessage(err error) string {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) && appErr.Message() != "" {
		if details := appErr.Details(); details != "" {
			return appErr.Message() + " (" + details + ")"
		}

		return appErr.Message()
	}

	return SubmitFailedMessage
}

// NormalizePostalCode strips everything but digits and requires exactly seven.
func NormalizePostalCode(code string) (string, error) {
	var b strings.Builder
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() != 7 {
		return "", domainerrors.ErrPostalCodeInvalid
	}

	return b.String(), nil
}
