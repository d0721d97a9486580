// Package session owns the active user's wish list and savings parameters
// and synchronizes them with a store.Store.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/wishjar/internal/model"
	"github.com/theirongolddev/wishjar/internal/pipeline"
	"github.com/theirongolddev/wishjar/internal/store"
)

// State is the load state of one user key. It only moves forward.
type State int

const (
	Unloaded State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unloaded"
	}
}

// ErrUnreadRecord is wrapped by Save when the stored record could not be read
// at load time. Saving would replace it with the in-memory list.
var ErrUnreadRecord = errors.New("stored record was not read")

// Warning is returned next to a usable record when the store could not be
// read. The session continues in memory only: Save refuses until Overwrite
// replaces the stored record.
type Warning struct {
	Key string
	Err error
}

func (w *Warning) Error() string {
	return fmt.Sprintf("using an empty list for %s: %v", model.MaskKey(w.Key), w.Err)
}

func (w *Warning) Unwrap() error { return w.Err }

type slot struct {
	saveMu sync.Mutex // serializes store writes; taken before mu

	mu      sync.Mutex
	state   State
	rec     model.SavingsRecord
	warning *Warning
	dirty   bool
	version uint64 // bumped on every mutation
}

func (s *slot) touch() {
	s.dirty = true
	s.version++
}

// Controller holds one slot per user key. The store is consulted at most
// once per key for the controller's lifetime.
type Controller struct {
	store    store.Store
	defaults model.SavingsConfig
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.Mutex
	slots  map[string]*slot
	active string
}

// Option configures a Controller.
type Option func(*Controller)

// WithDefaults sets the savings parameters of newly created records.
func WithDefaults(cfg model.SavingsConfig) Option {
	return func(c *Controller) { c.defaults = cfg }
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithClock overrides time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New creates a controller backed by st. A nil store behaves as unavailable.
func New(st store.Store, opts ...Option) *Controller {
	c := &Controller{
		store:  st,
		logger: slog.Default(),
		now:    time.Now,
		slots:  make(map[string]*slot),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadOrCreate makes userKey the active key and returns its record, loading
// it from the store on first use. When the store fails, an empty record is
// returned together with a *Warning.
func (c *Controller) LoadOrCreate(ctx context.Context, userKey string) (model.SavingsRecord, error) {
	key := model.NormalizeKey(userKey)
	if key == "" {
		return model.SavingsRecord{}, model.ErrNoUserKey
	}

	c.mu.Lock()
	s, ok := c.slots[key]
	if !ok {
		s = &slot{}
		c.slots[key] = s
	}
	c.active = key
	c.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Ready {
		return s.rec.Clone(), nil
	}

	s.state = Loading
	rec, warn := c.fetch(ctx, key)
	s.rec = rec
	s.warning = warn
	s.dirty = false
	s.state = Ready

	if warn != nil {
		return rec.Clone(), warn
	}
	return rec.Clone(), nil
}

func (c *Controller) fetch(ctx context.Context, key string) (model.SavingsRecord, *Warning) {
	empty := model.NewRecord(key, c.defaults)

	if c.store == nil {
		return empty, c.warn(key, errors.New("no store configured"))
	}

	rec, err := c.store.Fetch(ctx, key)
	if err != nil {
		return empty, c.warn(key, err)
	}
	if rec == nil {
		c.logger.Debug("no saved record, starting empty", "key", model.MaskKey(key))
		return empty, nil
	}

	loaded := rec.Clone()
	loaded.UserKey = key
	if loaded.Wishes == nil {
		loaded.Wishes = []model.Wish{}
	}
	for i := range loaded.Wishes {
		if loaded.Wishes[i].ID == "" {
			loaded.Wishes[i].ID = uuid.NewString()
		}
	}
	c.logger.Debug("record loaded", "key", model.MaskKey(key), "wishes", len(loaded.Wishes))
	return loaded, nil
}

func (c *Controller) warn(key string, cause error) *Warning {
	w := &Warning{Key: key, Err: fmt.Errorf("%w: %w", model.ErrPersistenceUnavailable, cause)}
	c.logger.Warn("loading saved wishes failed", "key", model.MaskKey(key), "error", cause)
	return w
}

// activeSlot returns the locked slot of the active key. The caller unlocks it.
func (c *Controller) activeSlot() (*slot, error) {
	s, key, err := c.activeRef()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if err := readyErr(s, key); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	return s, nil
}

// activeRef returns the active key's slot without locking it.
func (c *Controller) activeRef() (*slot, string, error) {
	c.mu.Lock()
	key := c.active
	s := c.slots[key]
	c.mu.Unlock()

	if key == "" || s == nil {
		return nil, "", model.ErrNoUserKey
	}
	return s, key, nil
}

func readyErr(s *slot, key string) error {
	if s.state != Ready {
		return fmt.Errorf("%w: %s is still %s", model.ErrNoUserKey, model.MaskKey(key), s.state)
	}
	return nil
}

// AddWish appends a wish with a fresh ID. Nothing is persisted until Save.
func (c *Controller) AddWish(name string, price float64) (model.Wish, error) {
	name = strings.TrimSpace(name)
	if err := model.ValidateWish(name, price); err != nil {
		return model.Wish{}, err
	}

	s, err := c.activeSlot()
	if err != nil {
		return model.Wish{}, err
	}
	defer s.mu.Unlock()

	w := model.Wish{
		ID:        uuid.NewString(),
		Name:      name,
		Target:    price,
		CreatedAt: c.now(),
	}
	s.rec.Wishes = append(s.rec.Wishes, w)
	s.touch()
	return w, nil
}

// RemoveWish deletes the wish at the zero-based index.
func (c *Controller) RemoveWish(index int) error {
	s, err := c.activeSlot()
	if err != nil {
		return err
	}
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.rec.Wishes) {
		return fmt.Errorf("%w: %d of %d", model.ErrIndexOutOfRange, index, len(s.rec.Wishes))
	}
	s.rec.Wishes = append(s.rec.Wishes[:index], s.rec.Wishes[index+1:]...)
	s.touch()
	return nil
}

// RemoveWishByID deletes the wish with the given ID.
func (c *Controller) RemoveWishByID(id string) error {
	s, err := c.activeSlot()
	if err != nil {
		return err
	}
	defer s.mu.Unlock()

	for i, w := range s.rec.Wishes {
		if w.ID == id {
			s.rec.Wishes = append(s.rec.Wishes[:i], s.rec.Wishes[i+1:]...)
			s.touch()
			return nil
		}
	}
	return fmt.Errorf("%w: no wish with id %q", model.ErrIndexOutOfRange, id)
}

// MoveWish moves the wish at from to position to, shifting the others.
func (c *Controller) MoveWish(from, to int) error {
	s, err := c.activeSlot()
	if err != nil {
		return err
	}
	defer s.mu.Unlock()

	n := len(s.rec.Wishes)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d to %d of %d", model.ErrIndexOutOfRange, from, to, n)
	}
	if from == to {
		return nil
	}

	w := s.rec.Wishes[from]
	list := append(s.rec.Wishes[:from:from], s.rec.Wishes[from+1:]...)
	list = append(list[:to], append([]model.Wish{w}, list[to:]...)...)
	s.rec.Wishes = list
	s.touch()
	return nil
}

// SetConfig replaces the daily saving and balance.
func (c *Controller) SetConfig(cfg model.SavingsConfig) error {
	if err := model.ValidateConfig(cfg); err != nil {
		return err
	}

	s, err := c.activeSlot()
	if err != nil {
		return err
	}
	defer s.mu.Unlock()

	s.rec.DailySaving = cfg.DailySaving
	s.rec.CurrentBalance = cfg.CurrentBalance
	s.touch()
	return nil
}

// Save writes the active key's whole record to the store. It refuses with
// ErrUnreadRecord when the load failed, so an empty in-memory list never
// replaces a stored one. Failures are reported once; the in-memory state is
// kept either way.
func (c *Controller) Save(ctx context.Context) error {
	return c.save(ctx, false)
}

// Overwrite is Save without the unread-record check. Whatever the store
// holds for the key is replaced, and the load warning is cleared.
func (c *Controller) Overwrite(ctx context.Context) error {
	return c.save(ctx, true)
}

func (c *Controller) save(ctx context.Context, force bool) error {
	s, key, err := c.activeRef()
	if err != nil {
		return err
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if err := readyErr(s, key); err != nil {
		s.mu.Unlock()
		return err
	}
	if c.store == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: no store configured", model.ErrPersistenceUnavailable)
	}
	if s.warning != nil && !force {
		s.mu.Unlock()
		return fmt.Errorf("%w: %w", model.ErrPersistenceUnavailable, ErrUnreadRecord)
	}
	rec := s.rec.Clone()
	rec.UpdatedAt = c.now().UTC()
	version := s.version
	s.mu.Unlock()

	// Edits may proceed while the upsert is in flight.
	if err := c.store.Upsert(ctx, rec); err != nil {
		c.logger.Warn("saving wishes failed", "key", model.MaskKey(key), "error", err)
		return fmt.Errorf("%w: %w", model.ErrPersistenceUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.warning = nil
	if s.version == version {
		s.rec.UpdatedAt = rec.UpdatedAt
		s.dirty = false
	}
	c.logger.Debug("record saved", "key", model.MaskKey(key), "wishes", len(rec.Wishes))
	return nil
}

// Plan projects the active key's wishes as of now.
func (c *Controller) Plan(now time.Time) (model.Plan, error) {
	rec, err := c.Record()
	if err != nil {
		return model.Plan{}, err
	}
	return pipeline.ProjectRecord(rec, now)
}

// Record returns a copy of the active key's record.
func (c *Controller) Record() (model.SavingsRecord, error) {
	s, err := c.activeSlot()
	if err != nil {
		return model.SavingsRecord{}, err
	}
	defer s.mu.Unlock()
	return s.rec.Clone(), nil
}

// State reports the load state of userKey.
func (c *Controller) State(userKey string) State {
	c.mu.Lock()
	s := c.slots[model.NormalizeKey(userKey)]
	c.mu.Unlock()
	if s == nil {
		return Unloaded
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ActiveKey returns the key of the current session, or "".
func (c *Controller) ActiveKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Warning returns the load warning of the active key, if any. It is
// cleared by a successful Overwrite.
func (c *Controller) Warning() *Warning {
	s, err := c.activeSlot()
	if err != nil {
		return nil
	}
	defer s.mu.Unlock()
	return s.warning
}

// Dirty reports whether the active key has unsaved changes.
func (c *Controller) Dirty() bool {
	s, err := c.activeSlot()
	if err != nil {
		return false
	}
	defer s.mu.Unlock()
	return s.dirty
}
