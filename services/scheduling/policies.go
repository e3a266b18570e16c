package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"ototakibim/config"
	calendarRepo "ototakibim/database/repository/calendar"
	"ototakibim/models"
	"ototakibim/utils"
)

// PolicySource resolves the Calendar for a tenant, falling back to the
// config-seeded default policy for tenants that have not customized theirs.
// Validated calendars are cached per tenant until invalidated by a policy
// update.
type PolicySource struct {
	Repo    calendarRepo.CalendarRepository
	Default models.CalendarPolicy

	mu    sync.RWMutex
	cache map[string]*Calendar
}

// NewPolicySource validates the default policy once up front so a broken
// default is caught at boot instead of on the first request.
func NewPolicySource(repo calendarRepo.CalendarRepository, def models.CalendarPolicy) (*PolicySource, error) {
	if _, err := NewCalendar(def); err != nil {
		return nil, fmt.Errorf("default calendar policy rejected: %w", err)
	}
	return &PolicySource{
		Repo:    repo,
		Default: def,
		cache:   make(map[string]*Calendar),
	}, nil
}

// CalendarFor returns the validated calendar for a tenant.
func (s *PolicySource) CalendarFor(ctx context.Context, tenantID string) (*Calendar, error) {
	s.mu.RLock()
	cal, ok := s.cache[tenantID]
	s.mu.RUnlock()
	if ok {
		return cal, nil
	}

	policy, err := s.Repo.GetByTenant(ctx, tenantID)
	if errors.Is(err, calendarRepo.ErrPolicyNotFound) {
		def := s.Default
		def.TenantID = tenantID
		policy = &def
	} else if err != nil {
		return nil, fmt.Errorf("failed to load calendar policy: %w", err)
	}

	cal, err = NewCalendar(*policy)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[tenantID] = cal
	s.mu.Unlock()
	return cal, nil
}

// Invalidate drops the cached calendar for a tenant after a policy update.
func (s *PolicySource) Invalidate(tenantID string) {
	s.mu.Lock()
	delete(s.cache, tenantID)
	s.mu.Unlock()
}

// DefaultPolicy builds the fallback calendar policy from AppConfig: Monday
// through Friday open, weekend days per config, no blackout dates.
func DefaultPolicy() models.CalendarPolicy {
	open, err := utils.ParseClock(config.AppConfig.WorkdayOpen)
	if err != nil {
		log.Fatalf("invalid WORKDAY_OPEN: %v", err)
	}
	close, err := utils.ParseClock(config.AppConfig.WorkdayClose)
	if err != nil {
		log.Fatalf("invalid WORKDAY_CLOSE: %v", err)
	}

	var hours [7]models.DayHours
	for day := time.Sunday; day <= time.Saturday; day++ {
		isOpen := day != time.Sunday && day != time.Saturday
		if day == time.Saturday {
			isOpen = config.AppConfig.OpenOnSaturday
		}
		if day == time.Sunday {
			isOpen = config.AppConfig.OpenOnSunday
		}
		hours[int(day)] = models.DayHours{Open: open, Close: close, IsOpen: isOpen}
	}

	return models.CalendarPolicy{
		WorkingHours:           hours,
		SlotGranularityMinutes: config.AppConfig.SlotGranularityMin,
		Timezone:               config.AppConfig.Timezone,
	}
}
