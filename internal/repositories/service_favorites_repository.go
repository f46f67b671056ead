package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// FavoritesRepository keeps the set of favorite service ids per session.
// List returns ids in the order they were added.
type FavoritesRepository interface {
	Toggle(ctx context.Context, sessionID, serviceID string) (bool, error)
	Contains(ctx context.Context, sessionID, serviceID string) (bool, error)
	List(ctx context.Context, sessionID string) ([]string, error)
	Clear(ctx context.Context, sessionID string) error
}

type favoriteSet struct {
	ids       []string
	expiresAt time.Time
}

// MemoryFavoritesRepository keeps favorites in process memory. A set
// expires TTL after its last toggle; a janitor goroutine evicts expired
// sets until Close is called. A zero TTL keeps sets forever.
type MemoryFavoritesRepository struct {
	mu   sync.Mutex
	sets map[string]favoriteSet
	ttl  time.Duration
	now  func() time.Time

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewMemoryFavoritesRepository(ttl, sweepEvery time.Duration) *MemoryFavoritesRepository {
	r := &MemoryFavoritesRepository{
		sets: make(map[string]favoriteSet),
		ttl:  ttl,
		now:  time.Now,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go r.janitor(sweepEvery)
	return r
}

func (r *MemoryFavoritesRepository) janitor(every time.Duration) {
	defer close(r.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-r.stop:
			return
		}
	}
}

func (r *MemoryFavoritesRepository) sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	removed := 0
	for id, set := range r.sets {
		if r.expired(set, now) {
			delete(r.sets, id)
			removed++
		}
	}
	return removed
}

func (r *MemoryFavoritesRepository) expired(set favoriteSet, now time.Time) bool {
	return r.ttl > 0 && !now.Before(set.expiresAt)
}

// live returns the session's ids, or nil once the set has expired.
// Callers hold mu.
func (r *MemoryFavoritesRepository) live(sessionID string) []string {
	set, ok := r.sets[sessionID]
	if !ok || r.expired(set, r.now()) {
		return nil
	}
	return set.ids
}

func (r *MemoryFavoritesRepository) Toggle(_ context.Context, sessionID, serviceID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := r.live(sessionID)
	added := true
	for i, id := range ids {
		if id == serviceID {
			ids = append(ids[:i:i], ids[i+1:]...)
			added = false
			break
		}
	}
	if added {
		ids = append(ids[:len(ids):len(ids)], serviceID)
	}
	if len(ids) == 0 {
		delete(r.sets, sessionID)
		return added, nil
	}
	r.sets[sessionID] = favoriteSet{ids: ids, expiresAt: r.now().Add(r.ttl)}
	return added, nil
}

func (r *MemoryFavoritesRepository) Contains(_ context.Context, sessionID, serviceID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.live(sessionID) {
		if id == serviceID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryFavoritesRepository) List(_ context.Context, sessionID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.live(sessionID)
	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}

func (r *MemoryFavoritesRepository) Clear(_ context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.sets, sessionID)
	r.mu.Unlock()
	return nil
}

// Close stops the janitor and waits for it to exit.
func (r *MemoryFavoritesRepository) Close() error {
	r.once.Do(func() { close(r.stop) })
	<-r.done
	return nil
}

// RedisFavoritesRepository stores each session's favorites in a sorted set
// scored by insertion time. The key expires TTL after the last toggle.
type RedisFavoritesRepository struct {
	RDB *redis.Client
	TTL time.Duration
}

func favoritesKey(sessionID string) string {
	return fmt.Sprintf("favorites:%s", sessionID)
}

// toggleScript flips membership atomically and returns 1 when the id was added.
var toggleScript = redis.NewScript(`
if redis.call("ZSCORE", KEYS[1], ARGV[1]) then
	redis.call("ZREM", KEYS[1], ARGV[1])
	return 0
end
redis.call("ZADD", KEYS[1], ARGV[2], ARGV[1])
if tonumber(ARGV[3]) > 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[3])
end
return 1
`)

func (r *RedisFavoritesRepository) Toggle(ctx context.Context, sessionID, serviceID string) (bool, error) {
	added, err := toggleScript.Run(ctx, r.RDB, []string{favoritesKey(sessionID)},
		serviceID, time.Now().UnixNano(), r.TTL.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	return added == 1, nil
}

func (r *RedisFavoritesRepository) Contains(ctx context.Context, sessionID, serviceID string) (bool, error) {
	_, err := r.RDB.ZScore(ctx, favoritesKey(sessionID), serviceID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisFavoritesRepository) List(ctx context.Context, sessionID string) ([]string, error) {
	ids, err := r.RDB.ZRange(ctx, favoritesKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (r *RedisFavoritesRepository) Clear(ctx context.Context, sessionID string) error {
	return r.RDB.Del(ctx, favoritesKey(sessionID)).Err()
}
