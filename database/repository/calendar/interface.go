package calendarRepo

import (
	"context"
	"errors"

	"ototakibim/models"
)

// ErrPolicyNotFound is returned when a tenant has no stored calendar policy.
var ErrPolicyNotFound = errors.New("calendar policy not found")

// CalendarRepository supplies per-tenant calendar policies. Policies are
// treated as read-only configuration by the scheduling core; writes only
// happen through Upsert from the calendar admin endpoint.
type CalendarRepository interface {
	GetByTenant(ctx context.Context, tenantID string) (*models.CalendarPolicy, error)
	Upsert(ctx context.Context, policy *models.CalendarPolicy) error
}
