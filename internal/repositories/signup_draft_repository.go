package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"engmarket/internal/models"
)

// SignupDraftRepository stores wizard drafts keyed by session id. Drafts
// expire TTL after their last save.
type SignupDraftRepository interface {
	Get(ctx context.Context, sessionID string) (models.SignupDraft, error)
	Save(ctx context.Context, draft models.SignupDraft) error
	Delete(ctx context.Context, sessionID string) error
}

type draftEntry struct {
	draft     models.SignupDraft
	expiresAt time.Time
}

// MemorySignupDraftRepository keeps drafts in process memory. A janitor
// goroutine evicts expired drafts until Close is called.
type MemorySignupDraftRepository struct {
	mu     sync.Mutex
	drafts map[string]draftEntry
	ttl    time.Duration
	now    func() time.Time

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewMemorySignupDraftRepository(ttl, sweepEvery time.Duration) *MemorySignupDraftRepository {
	r := &MemorySignupDraftRepository{
		drafts: make(map[string]draftEntry),
		ttl:    ttl,
		now:    time.Now,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go r.janitor(sweepEvery)
	return r
}

func (r *MemorySignupDraftRepository) janitor(every time.Duration) {
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

func (r *MemorySignupDraftRepository) sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	removed := 0
	for id, e := range r.drafts {
		if !now.Before(e.expiresAt) {
			delete(r.drafts, id)
			removed++
		}
	}
	return removed
}

func (r *MemorySignupDraftRepository) Get(_ context.Context, sessionID string) (models.SignupDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.drafts[sessionID]
	if !ok || !r.now().Before(e.expiresAt) {
		return models.SignupDraft{}, models.ErrDraftNotFound
	}
	return cloneDraft(e.draft), nil
}

func (r *MemorySignupDraftRepository) Save(_ context.Context, draft models.SignupDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[draft.SessionID] = draftEntry{draft: cloneDraft(draft), expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *MemorySignupDraftRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.drafts, sessionID)
	r.mu.Unlock()
	return nil
}

// Close stops the janitor and waits for it to exit.
func (r *MemorySignupDraftRepository) Close() error {
	r.once.Do(func() { close(r.stop) })
	<-r.done
	return nil
}

func cloneDraft(d models.SignupDraft) models.SignupDraft {
	out := d
	if d.Profile.Specialties != nil {
		out.Profile.Specialties = append([]string{}, d.Profile.Specialties...)
	}
	if d.Errors != nil {
		out.Errors = append(models.FieldErrors{}, d.Errors...)
	}
	return out
}

// RedisSignupDraftRepository stores drafts as JSON strings with a TTL.
type RedisSignupDraftRepository struct {
	RDB *redis.Client
	TTL time.Duration
}

func draftKey(sessionID string) string {
	return fmt.Sprintf("signup:draft:%s", sessionID)
}

func (r *RedisSignupDraftRepository) Get(ctx context.Context, sessionID string) (models.SignupDraft, error) {
	data, err := r.RDB.Get(ctx, draftKey(sessionID)).Bytes()
	if err == redis.Nil {
		return models.SignupDraft{}, models.ErrDraftNotFound
	}
	if err != nil {
		return models.SignupDraft{}, fmt.Errorf("get draft: %w", err)
	}

	var d models.SignupDraft
	if err := json.Unmarshal(data, &d); err != nil {
		return models.SignupDraft{}, fmt.Errorf("decode draft: %w", err)
	}
	return d, nil
}

func (r *RedisSignupDraftRepository) Save(ctx context.Context, draft models.SignupDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	return r.RDB.Set(ctx, draftKey(draft.SessionID), data, r.TTL).Err()
}

func (r *RedisSignupDraftRepository) Delete(ctx context.Context, sessionID string) error {
	return r.RDB.Del(ctx, draftKey(sessionID)).Err()
}
