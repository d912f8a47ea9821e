package form

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	deliverycontext "cafeadmin/internal/delivery/context"
	"cafeadmin/internal/domain/codec"
	"cafeadmin/internal/domain/entity"
	"cafeadmin/internal/domain/service"

	"github.com/pkg/errors"
)

// DraftKey identifies a draft slot: "create" or "edit:<record-id>".
type DraftKey string

const CreateDraftKey DraftKey = "create"

// EditDraftKey is the draft key for editing record id
func EditDraftKey(id string) DraftKey {
	return DraftKey("edit:" + id)
}

// DraftKeyFor returns the create key when recordID is empty, else the edit key
func DraftKeyFor(recordID string) DraftKey {
	if recordID == "" {
		return CreateDraftKey
	}

	return EditDraftKey(recordID)
}

// Drafts persists in-progress form state. Staged payloads are never written;
// their slots come back marked staged.
type Drafts struct {
	store   service.DraftStore
	preview codec.PreviewFunc
	logger  *slog.Logger
}

func NewDrafts(store service.DraftStore, blobs service.BlobStore, logger *slog.Logger) *Drafts {
	return &Drafts{
		store:   store,
		preview: blobs.PublicURL,
		logger:  logger,
	}
}

// Save writes the form under key, overwriting any previous draft. It is a
// no-op while the wizard is closed.
func (d *Drafts) Save(ctx context.Context, key DraftKey, form *entity.CafeFormPayload, open bool) error {
	if !open || form == nil {
		return nil
	}

	data, err := json.Marshal(toDraft(form))
	if err != nil {
		return errors.Wrap(err, "marshal draft")
	}

	return errors.Wrapf(d.store.Put(ctx, string(key), data), "save draft %s", key)
}

// Load returns the draft stored under key. A missing, unreadable or corrupt
// draft is reported as absent.
func (d *Drafts) Load(ctx context.Context, key DraftKey) (*entity.CafeFormPayload, bool) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, d.logger)

	data, ok, err := d.store.Get(ctx, string(key))
	if err != nil {
		logger.Warn("Failed to read draft", slog.String("draft_key", string(key)), slog.Any("error", err))

		return nil, false
	}
	if !ok || len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, false
	}

	form := entity.NewEmptyForm()
	if err := json.Unmarshal(data, form); err != nil {
		logger.Warn("Discarding unreadable draft", slog.String("draft_key", string(key)), slog.Any("error", err))

		return nil, false
	}

	for _, c := range entity.AllImageCategories {
		slot := form.Images.Get(c)
		if slot == nil || slot.StoragePath == "" {
			form.Images.Set(c, nil)

			continue
		}
		slot.FileBase64 = ""
		slot.PreviewURL = ""
		if d.preview != nil && !slot.Staged {
			slot.PreviewURL = d.preview(slot.StoragePath)
		}
	}

	return form, true
}

// Clear removes the draft under key
func (d *Drafts) Clear(ctx context.Context, key DraftKey) error {
	return errors.Wrapf(d.store.Delete(ctx, string(key)), "clear draft %s", key)
}

// toDraft reduces image slots to id, path and caption. A slot whose payload
// has not been uploaded yet keeps its entry but is marked staged: its path
// does not exist in the blob store until the file is attached again.
func toDraft(form *entity.CafeFormPayload) *entity.CafeFormPayload {
	out := form.Clone()
	for _, c := range entity.AllImageCategories {
		slot := out.Images.Get(c)
		if slot == nil {
			continue
		}
		out.Images.Set(c, &entity.ImageSlot{
			ID:          slot.ID,
			StoragePath: slot.StoragePath,
			Caption:     slot.Caption,
			Staged:      slot.Staged || slot.Pending(),
		})
	}

	return out
}
