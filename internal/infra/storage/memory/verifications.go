package memory

import (
	"context"
	"sync"
	"time"

	domainbooking "wanderstay/internal/domain/booking"
)

// VerificationRepository keeps completed vehicle verifications for the process lifetime.
type VerificationRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.VerificationID]domainbooking.Verification
}

func NewVerificationRepository() *VerificationRepository {
	return &VerificationRepository{items: make(map[domainbooking.VerificationID]domainbooking.Verification)}
}

func (r *VerificationRepository) Save(_ context.Context, v domainbooking.Verification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[v.ID] = v
	return nil
}

func (r *VerificationRepository) ByID(_ context.Context, id domainbooking.VerificationID) (domainbooking.Verification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[id]
	if !ok {
		return domainbooking.Verification{}, domainbooking.ErrVerificationNotFound
	}
	return v, nil
}

// PurgeBefore drops verifications created before cutoff and reports how many went.
func (r *VerificationRepository) PurgeBefore(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, v := range r.items {
		if v.CreatedAt.Before(cutoff) {
			delete(r.items, id)
			removed++
		}
	}
	return removed, nil
}

var _ domainbooking.VerificationRepository = (*VerificationRepository)(nil)
