package calendarRepo

import (
	"context"
	"sync"
	"time"

	"ototakibim/models"
)

// MemoryCalendarRepo is an in-process CalendarRepository used by tests and the
// "memory" storage driver.
type MemoryCalendarRepo struct {
	mu       sync.RWMutex
	policies map[string]models.CalendarPolicy // keyed by tenant id
}

// NewMemoryCalendarRepo returns an empty in-memory repository.
func NewMemoryCalendarRepo() *MemoryCalendarRepo {
	return &MemoryCalendarRepo{policies: make(map[string]models.CalendarPolicy)}
}

func (r *MemoryCalendarRepo) GetByTenant(_ context.Context, tenantID string) (*models.CalendarPolicy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.policies[tenantID]
	if !ok {
		return nil, ErrPolicyNotFound
	}
	out := p
	return &out, nil
}

func (r *MemoryCalendarRepo) Upsert(_ context.Context, policy *models.CalendarPolicy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	policy.UpdatedAt = time.Now()
	r.policies[policy.TenantID] = *policy
	return nil
}
