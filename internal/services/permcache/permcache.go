package permcache

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mkortel/panelauth/internal/domain/models"
	"github.com/mkortel/panelauth/internal/storage"
)

type SnapshotStorage interface {
	SavePermissions(ctx context.Context, perms []string) error
	Permissions(ctx context.Context) ([]string, error)
}

// Cache is the single source of truth for what the current session is
// allowed to do. The set is rebuilt in full on every token change and
// mirrored to durable storage; subscribers receive debounced, deduplicated
// change notifications.
type Cache struct {
	log      *slog.Logger
	storage  SnapshotStorage
	debounce time.Duration

	mu        sync.Mutex
	perms     map[string]struct{}
	subs      map[int]func(perms []string)
	nextSubID int
	timer     *time.Timer
	emitted   bool
	lastEmit  string
}

// New returns a new instance of the permission cache. A non-positive
// debounce window makes notifications synchronous, which tests rely on.
func New(log *slog.Logger, storage SnapshotStorage, debounce time.Duration) *Cache {
	return &Cache{
		log:      log,
		storage:  storage,
		debounce: debounce,
		perms:    map[string]struct{}{},
		subs:     map[int]func([]string){},
	}
}

// Load restores the mirrored snapshot so guards can make a stale but
// non-empty decision before the first network round-trip. The restore does
// not emit a change event: it precedes any binding, and the in-memory set
// always wins once RebuildFrom runs.
func (c *Cache) Load(ctx context.Context) {
	const op = "permcache.Load"

	saved, err := c.storage.Permissions(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.log.Warn("failed to restore permission snapshot", slog.String("op", op), slog.Any("error", err))
		}
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.perms) > 0 {
		return
	}
	c.perms = setOf(saved)
}

// RebuildFrom replaces the whole set with the normalized permission claim of
// the given claims. Nil claims (an unparseable token) yield an empty set:
// ambiguity always resolves to the least-privileged outcome.
func (c *Cache) RebuildFrom(ctx context.Context, claims *models.Claims) {
	const op = "permcache.RebuildFrom"

	var names []string
	if claims != nil {
		names = claims.Permissions.Normalize()
	}

	c.mu.Lock()
	c.perms = setOf(names)
	snapshot := c.sortedLocked()
	c.mu.Unlock()

	if err := c.storage.SavePermissions(ctx, snapshot); err != nil {
		// The mirror is a reload optimization; the in-memory set stays
		// authoritative.
		c.log.Warn("failed to mirror permission snapshot", slog.String("op", op), slog.Any("error", err))
	}

	c.log.Debug("permission set rebuilt", slog.String("op", op), slog.Int("count", len(snapshot)))
	c.notify()
}

// Clear empties the set and notifies subscribers with the empty set.
func (c *Cache) Clear(ctx context.Context) {
	const op = "permcache.Clear"

	c.mu.Lock()
	c.perms = map[string]struct{}{}
	c.mu.Unlock()

	if err := c.storage.SavePermissions(ctx, nil); err != nil {
		c.log.Warn("failed to clear permission snapshot", slog.String("op", op), slog.Any("error", err))
	}

	c.notify()
}

func (c *Cache) Has(permission string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.perms[permission]
	return ok
}

func (c *Cache) HasAny(permissions []string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range permissions {
		if _, ok := c.perms[p]; ok {
			return true
		}
	}
	return false
}

// Permissions returns a sorted copy of the current set.
func (c *Cache) Permissions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortedLocked()
}

// Subscribe registers a change listener and returns its unsubscribe func.
// The listener receives a private copy of the full current set.
func (c *Cache) Subscribe(fn func(perms []string)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// notify schedules an emission. Bursts within the debounce window collapse
// into one event carrying the final set.
func (c *Cache) notify() {
	if c.debounce <= 0 {
		c.flush()
		return
	}

	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, c.flush)
	c.mu.Unlock()
}

func (c *Cache) flush() {
	c.mu.Lock()
	snapshot := c.sortedLocked()
	serialized := strings.Join(snapshot, "\n")
	if c.emitted && serialized == c.lastEmit {
		c.mu.Unlock()
		return
	}
	c.emitted = true
	c.lastEmit = serialized

	subs := make([]func([]string), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	// Listeners run outside the lock so they may query the cache.
	for _, fn := range subs {
		fn(append([]string(nil), snapshot...))
	}
}

func (c *Cache) sortedLocked() []string {
	out := make([]string, 0, len(c.perms))
	for p := range c.perms {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func setOf(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
