package form

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"cafeadmin/internal/domain/entity"
	domainerrors "cafeadmin/internal/domain/errors"
	"cafeadmin/internal/domain/service"
	"cafeadmin/internal/infra/draftstore"

	"github.com/stretchr/testify/require"
)

const testPublicBase = "https://img.example.com/"

type fakeBlobs struct{}

func (fakeBlobs) Upload(context.Context, string, []byte, service.UploadOptions) error { return nil }

func (fakeBlobs) Open(context.Context, string) (io.ReadCloser, string, error) {
	return io.NopCloser(bytes.NewReader(nil)), "", nil
}

func (fakeBlobs) PublicURL(path string) string { return testPublicBase + path }

type fakeSubmitter struct {
	mu      sync.Mutex
	calls   int
	created []*entity.CafeFormPayload
	updated map[string]*entity.CafeFormPayload
	err     error
	block   chan struct{}
	started chan struct{}
}

func (s *fakeSubmitter) Create(_ context.Context, payload *entity.CafeFormPayload) (*entity.Cafe, error) {
	s.wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, payload)

	return cafeFromPayload("new-id", payload), nil
}

func (s *fakeSubmitter) Update(_ context.Context, id string, payload *entity.CafeFormPayload) (*entity.Cafe, error) {
	s.wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.updated == nil {
		s.updated = make(map[string]*entity.CafeFormPayload)
	}
	s.updated[id] = payload

	return cafeFromPayload(id, payload), nil
}

func (s *fakeSubmitter) wait() {
	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		<-s.block
	}
}

func cafeFromPayload(id string, payload *entity.CafeFormPayload) *entity.Cafe {
	cafe := &entity.Cafe{ID: id, CafeAttributes: payload.CafeAttributes.Clone()}
	for _, c := range entity.AllImageCategories {
		if slot := payload.Images.Get(c); slot != nil {
			cafe.Images.Set(c, &entity.ImageSlot{StoragePath: slot.StoragePath, Caption: slot.Caption})
		}
	}

	return cafe
}

type fakeRecords struct {
	cafes map[string]*entity.Cafe
}

func (r fakeRecords) Get(_ context.Context, id string) (*entity.Cafe, error) {
	if cafe, ok := r.cafes[id]; ok {
		return cafe, nil
	}

	return nil, domainerrors.ErrCafeNotFound
}

type fakePostal struct {
	addr *entity.PostalAddress
	err  error
	code string
}

func (p *fakePostal) Lookup(_ context.Context, code string) (*entity.PostalAddress, error) {
	p.code = code

	return p.addr, p.err
}

func newTestDrafts(t *testing.T, dir string) *Drafts {
	t.Helper()
	store, err := draftstore.NewFileStore(dir)
	require.NoError(t, err)

	return NewDrafts(store, fakeBlobs{}, slog.New(slog.DiscardHandler))
}

func newTestManager(t *testing.T, submitter Submitter, records RecordReader, postal service.PostalLookup) (*Manager, *Drafts) {
	t.Helper()
	drafts := newTestDrafts(t, t.TempDir())

	return newManager(NewPathGenerator(), drafts, submitter, records, postal, fakeBlobs{}, slog.New(slog.DiscardHandler)), drafts
}

// validForm has every required field filled but no images
func validForm() *entity.CafeFormPayload {
	form := entity.NewEmptyForm()
	form.Name = "Blue Bottle"
	form.Area = "清澄白河"
	form.PostalCode = "1350021"
	form.AddressLine1 = "江東区白河"
	form.AddressLine2 = "1-4-8"

	return form
}

func attachRequiredImages(t *testing.T, ctx context.Context, w *Wizard) {
	t.Helper()
	for _, c := range entity.RequiredImageCategories {
		_, err := w.AttachImage(ctx, c, []byte{0xff, 0xd8, 0xff}, "image/jpeg", c.String()+".jpg")
		require.NoError(t, err)
	}
}
