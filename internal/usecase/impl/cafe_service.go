// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"cafeadmin/config"
	deliverycontext "cafeadmin/internal/delivery/context"
	"cafeadmin/internal/domain/codec"
	"cafeadmin/internal/domain/entity"
	domainerrors "cafeadmin/internal/domain/errors"
	"cafeadmin/internal/domain/repository"
	"cafeadmin/internal/domain/service"
	"cafeadmin/internal/form"
	"cafeadmin/internal/usecase"
	"cafeadmin/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// cafeService implements the CafeUsecase interface. Writes run as a
// sequence of independent store calls; failed steps are compensated where a
// prior state can be restored.
type cafeService struct {
	cafes         repository.CafeRepository
	images        repository.CafeImageRepository
	blobs         service.BlobStore
	paths         *form.PathGenerator
	maxImageBytes int64
	now           func() time.Time
	logger        *slog.Logger
}

// CafeServiceParams holds dependencies for CafeService, injected by Fx.
type CafeServiceParams struct {
	fx.In

	Cafes  repository.CafeRepository
	Images repository.CafeImageRepository
	Blobs  service.BlobStore
	Paths  *form.PathGenerator
	Config *config.Config
	Logger *slog.Logger
}

// NewCafeService is the constructor for cafeService.
func NewCafeService(params CafeServiceParams) usecase.CafeUsecase {
	var maxImageBytes int64
	if params.Config != nil {
		maxImageBytes = params.Config.Upload.MaxImageBytes
	}

	return &cafeService{
		cafes:         params.Cafes,
		images:        params.Images,
		blobs:         params.Blobs,
		paths:         params.Paths,
		maxImageBytes: maxImageBytes,
		now:           time.Now,
		logger:        params.Logger,
	}
}

func (srv *cafeService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// pendingUpload is a decoded payload waiting to be written to the blob store
type pendingUpload struct {
	category    entity.ImageCategory
	path        string
	contentType string
	data        []byte
}

// Create runs the create protocol: upload pending images, insert the
// record, insert its image rows. A failed image-row insert deletes the record again.
func (srv *cafeService) Create(ctx context.Context, payload *entity.CafeFormPayload) (*entity.Cafe, error) {
	if violations := codec.Validate(payload); len(violations) > 0 {
		return nil, domainerrors.NewValidationError(violations)
	}

	working := payload.Clone()
	uploads, err := srv.decodePending(&working.Images)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Creating cafe", slog.String("name", working.Name), slog.Int("uploads", len(uploads)))

	// 1. Upload images
	if err := srv.upload(ctx, uploads); err != nil {
		return nil, err
	}

	// 2. Insert record
	row := codec.ToStorageRow(working)
	row.ID = uuid.NewString()
	now := srv.now().UTC()
	row.UpdatedAt = &now

	inserted, err := srv.cafes.Insert(ctx, row)
	if err != nil {
		srv.log(ctx).Error("Failed to insert cafe",
			slog.String("step", domainerrors.StepInsertRecord), slog.Any("error", err))
		srv.warnOrphans(ctx, uploads)

		return nil, domainerrors.NewUpstreamWriteError(domainerrors.StepInsertRecord, err)
	}

	// 3. Insert image rows, rolling back the record on failure
	if err := srv.images.InsertMany(ctx, codec.BuildImageRows(inserted.ID, working.Images)); err != nil {
		srv.log(ctx).Error("Failed to insert cafe images",
			slog.String("step", domainerrors.StepInsertImageRows), slog.String("cafe_id", inserted.ID), slog.Any("error", err))

		if rollbackErr := srv.cafes.Delete(ctx, inserted.ID); rollbackErr != nil {
			srv.log(ctx).Error("Failed to rollback cafe insert",
				slog.String("cafe_id", inserted.ID), slog.Any("error", rollbackErr))
		}
		srv.warnOrphans(ctx, uploads)

		return nil, domainerrors.NewUpstreamWriteError(domainerrors.StepInsertImageRows, err)
	}

	srv.log(ctx).Info("Created cafe", slog.String("cafe_id", inserted.ID))

	return srv.toRecord(inserted), nil
}

// Update runs the update protocol on an existing record: upload pending
// images, overwrite the record, then replace its image rows. A failed
// replacement re-inserts the rows that were there before.
func (srv *cafeService) Update(ctx context.Context, id string, payload *entity.CafeFormPayload) (*entity.Cafe, error) {
	if violations := codec.Validate(payload); len(violations) > 0 {
		return nil, domainerrors.NewValidationError(violations)
	}

	working := payload.Clone()
	uploads, err := srv.decodePending(&working.Images)
	if err != nil {
		return nil, err
	}

	// 1. Fetch existing
	existing, err := srv.selectRow(ctx, id)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Updating cafe", slog.String("cafe_id", id), slog.Int("uploads", len(uploads)))

	// 2. Upload images
	if err := srv.upload(ctx, uploads); err != nil {
		return nil, err
	}

	// 3. Update record
	row := codec.ToStorageRow(working)
	row.ID = id
	row.DeletedAt = existing.DeletedAt
	now := srv.now().UTC()
	row.UpdatedAt = &now

	updated, err := srv.cafes.Update(ctx, id, row)
	if err != nil {
		srv.log(ctx).Error("Failed to update cafe",
			slog.String("step", domainerrors.StepUpdateRecord), slog.String("cafe_id", id), slog.Any("error", err))
		srv.warnOrphans(ctx, uploads)

		return nil, domainerrors.NewUpstreamWriteError(domainerrors.StepUpdateRecord, err)
	}

	// 4. Snapshot and clear image rows
	snapshot, err := srv.images.SelectByCafeID(ctx, id)
	if err != nil {
		srv.log(ctx).Error("Failed to read cafe images",
			slog.String("step", domainerrors.StepSnapshotImageRows), slog.String("cafe_id", id), slog.Any("error", err))

		return nil, domainerrors.NewUpstreamWriteError(domainerrors.StepSnapshotImageRows, err)
	}
	if err := srv.images.DeleteByCafeID(ctx, id); err != nil {
		srv.log(ctx).Error("Failed to delete cafe images",
			slog.String("step", domainerrors.StepDeleteImageRows), slog.String("cafe_id", id), slog.Any("error", err))

		return nil, domainerrors.NewUpstreamWriteError(domainerrors.StepDeleteImageRows, err)
	}

	// 5. Insert the full new set, restoring the snapshot on failure
	if err := srv.images.InsertMany(ctx, codec.BuildImageRows(id, working.Images)); err != nil {
		srv.log(ctx).Error("Failed to insert cafe images",
			slog.String("step", domainerrors.StepInsertImageRows), slog.String("cafe_id", id), slog.Any("error", err))
		srv.restoreImageRows(ctx, id, snapshot)

		return nil, domainerrors.NewUpstreamWriteError(domainerrors.StepInsertImageRows, err)
	}

	srv.log(ctx).Info("Updated cafe", slog.String("cafe_id", id))

	return srv.toRecord(updated), nil
}

// Delete sets the deleted timestamp and leaves everything else as it was.
// Deleting an already deleted record returns it unchanged.
func (srv *cafeService) Delete(ctx context.Context, id string) (*entity.Cafe, error) {
	row, err := srv.selectRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.DeletedAt != nil {
		return srv.toRecord(row), nil
	}

	now := srv.now().UTC()
	row.DeletedAt = &now

	updated, err := srv.cafes.Update(ctx, id, row)
	if err != nil {
		srv.log(ctx).Error("Failed to soft-delete cafe",
			slog.String("step", domainerrors.StepUpdateRecord), slog.String("cafe_id", id), slog.Any("error", err))

		return nil, domainerrors.NewUpstreamWriteError(domainerrors.StepUpdateRecord, err)
	}
	srv.log(ctx).Info("Soft-deleted cafe", slog.String("cafe_id", id))

	return srv.toRecord(updated), nil
}

// Get returns a record, soft-deleted ones included.
func (srv *cafeService) Get(ctx context.Context, id string) (*entity.Cafe, error) {
	row, err := srv.selectRow(ctx, id)
	if err != nil {
		return nil, err
	}

	return srv.toRecord(row), nil
}

// List returns records matching filter.
func (srv *cafeService) List(ctx context.Context, filter entity.CafeFilter) ([]*entity.Cafe, error) {
	rows, err := srv.cafes.List(ctx, filter)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "list cafes")
	}

	cafes := make([]*entity.Cafe, 0, len(rows))
	for _, row := range rows {
		cafes = append(cafes, srv.toRecord(row))
	}

	return cafes, nil
}

func (srv *cafeService) selectRow(ctx context.Context, id string) (*entity.CafeRow, error) {
	row, err := srv.cafes.Select(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCafeNotFound) {
			return nil, errors.Wrap(domainerrors.ErrCafeNotFound, id)
		}

		return nil, domainerrors.NewUpstreamWriteError(domainerrors.StepSelectRecord, err)
	}

	return row, nil
}

// decodePending decodes every staged payload and assigns a storage path to
// slots that have none. It mutates images so that, once uploaded, each slot
// carries only its path.
func (srv *cafeService) decodePending(images *entity.ImageSet) ([]pendingUpload, error) {
	var uploads []pendingUpload
	for _, c := range entity.AllImageCategories {
		slot := images.Get(c)
		if !slot.Pending() {
			continue
		}

		contentType, data, err := codec.ParseDataURI(slot.FileBase64)
		if err != nil {
			return nil, domainerrors.NewMalformedInputError(err, c.String()+" image payload is not valid base64")
		}
		if srv.maxImageBytes > 0 && int64(len(data)) > srv.maxImageBytes {
			return nil, domainerrors.ErrImageTooLarge.WithDetails(util.SizeLimitDetail(c.String()+" image", int64(len(data)), srv.maxImageBytes))
		}
		if slot.StoragePath == "" {
			slot.StoragePath = srv.paths.Generate(c, contentType, "")
		}
		slot.FileBase64 = ""
		slot.Staged = false

		uploads = append(uploads, pendingUpload{category: c, path: slot.StoragePath, contentType: contentType, data: data})
	}

	return uploads, nil
}

// upload writes payloads in category order and stops at the first failure.
// Whether an existing object at the same path is replaced is up to the
// store's upsert setting.
func (srv *cafeService) upload(ctx context.Context, uploads []pendingUpload) error {
	for _, u := range uploads {
		err := srv.blobs.Upload(ctx, u.path, u.data, service.UploadOptions{ContentType: u.contentType})
		if err != nil {
			srv.log(ctx).Error("Failed to upload image",
				slog.String("step", domainerrors.StepUploadImages),
				slog.String("category", u.category.String()),
				slog.String("path", u.path),
				slog.Any("error", err))

			return domainerrors.NewUpstreamWriteError(domainerrors.StepUploadImages, err)
		}
	}

	return nil
}

// restoreImageRows puts the snapshot back verbatim. Failures are logged only:
// the caller reports the original error.
func (srv *cafeService) restoreImageRows(ctx context.Context, id string, snapshot []*entity.CafeImageRow) {
	if err := srv.images.DeleteByCafeID(ctx, id); err != nil {
		srv.log(ctx).Error("Failed to clear partial cafe images", slog.String("cafe_id", id), slog.Any("error", err))
	}
	if len(snapshot) == 0 {
		return
	}
	if err := srv.images.InsertMany(ctx, snapshot); err != nil {
		srv.log(ctx).Error("Failed to restore cafe images",
			slog.String("cafe_id", id), slog.Int("rows", len(snapshot)), slog.Any("error", err))
	}
}

func (srv *cafeService) warnOrphans(ctx context.Context, uploads []pendingUpload) {
	for _, u := range uploads {
		srv.log(ctx).Warn("Uploaded image left without a record", slog.String("path", u.path))
	}
}

func (srv *cafeService) toRecord(row *entity.CafeRow) *entity.Cafe {
	cafe := codec.FromStorageRow(row)
	for _, c := range entity.AllImageCategories {
		if slot := cafe.Images.Get(c); slot != nil {
			slot.PreviewURL = srv.blobs.PublicURL(slot.StoragePath)
		}
	}

	return cafe
}
