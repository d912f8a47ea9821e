package form

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"cafeadmin/internal/domain/codec"
	"cafeadmin/internal/domain/entity"
	domainerrors "cafeadmin/internal/domain/errors"
	"cafeadmin/internal/domain/service"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const (
	defaultIdleTimeout  = 30 * time.Minute
	defaultReapInterval = time.Minute
)

// RecordReader loads a persisted listing to seed an edit wizard.
type RecordReader interface {
	Get(ctx context.Context, id string) (*entity.Cafe, error)
}

// ManagerParams holds dependencies for Manager, injected by Fx.
type ManagerParams struct {
	fx.In
	fx.Lifecycle

	Paths     *PathGenerator
	Drafts    *Drafts
	Submitter Submitter
	Records   RecordReader
	Postal    service.PostalLookup
	Blobs     service.BlobStore
	Logger    *slog.Logger
}

// Manager keeps the open wizards by id and closes idle ones.
type Manager struct {
	mu      sync.Mutex
	wizards map[string]*Wizard

	deps        wizardDeps
	records     RecordReader
	preview     codec.PreviewFunc
	idleTimeout time.Duration
}

func NewManager(params ManagerParams) *Manager {
	m := newManager(params.Paths, params.Drafts, params.Submitter, params.Records, params.Postal, params.Blobs, params.Logger)

	reapCtx, cancel := context.WithCancel(context.Background())
	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go m.reapLoop(reapCtx, defaultReapInterval)

			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			m.CloseAll()

			return nil
		},
	})

	return m
}

func newManager(paths *PathGenerator, drafts *Drafts, submitter Submitter, records RecordReader, postal service.PostalLookup, blobs service.BlobStore, logger *slog.Logger) *Manager {
	return &Manager{
		wizards: make(map[string]*Wizard),
		deps: wizardDeps{
			paths:     paths,
			drafts:    drafts,
			submitter: submitter,
			postal:    postal,
			logger:    logger,
		},
		records:     records,
		preview:     blobs.PublicURL,
		idleTimeout: defaultIdleTimeout,
	}
}

// Open starts a wizard for a new listing (empty recordID) or for editing
// recordID. The initial form is the stored draft if any, else the record,
// else the empty defaults.
func (m *Manager) Open(ctx context.Context, recordID string) (*Wizard, error) {
	var record *entity.Cafe
	if recordID != "" {
		var err error
		record, err = m.records.Get(ctx, recordID)
		if err != nil {
			return nil, err
		}
	}

	initial, ok := m.deps.drafts.Load(ctx, DraftKeyFor(recordID))
	switch {
	case ok:
	case record != nil:
		initial = codec.ToFormPayload(record, m.preview)
	default:
		initial = entity.NewEmptyForm()
	}

	w := newWizard(uuid.NewString(), recordID, initial, m.deps)

	m.mu.Lock()
	m.wizards[w.id] = w
	m.mu.Unlock()

	return w, nil
}

// Get returns an open wizard
func (m *Manager) Get(id string) (*Wizard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.wizards[id]
	if !ok {
		return nil, domainerrors.ErrWizardNotFound
	}

	return w, nil
}

// Close closes and forgets a wizard
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	w, ok := m.wizards[id]
	delete(m.wizards, id)
	m.mu.Unlock()

	if !ok {
		return domainerrors.ErrWizardNotFound
	}
	w.Close()

	return nil
}

// CloseAll closes every open wizard
func (m *Manager) CloseAll() {
	m.mu.Lock()
	wizards := m.wizards
	m.wizards = make(map[string]*Wizard)
	m.mu.Unlock()

	for _, w := range wizards {
		w.Close()
	}
}

// ReapIdle closes wizards unused since before cutoff and returns how many were closed.
func (m *Manager) ReapIdle(cutoff time.Time) int {
	m.mu.Lock()
	var idle []*Wizard
	for id, w := range m.wizards {
		if w.idleBefore(cutoff) {
			idle = append(idle, w)
			delete(m.wizards, id)
		}
	}
	m.mu.Unlock()

	for _, w := range idle {
		w.Close()
	}

	return len(idle)
}

func (m *Manager) reapLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.ReapIdle(time.Now().Add(-m.idleTimeout)); n > 0 {
				m.deps.logger.Info("Closed idle wizards", slog.Int("count", n))
			}
		}
	}
}
