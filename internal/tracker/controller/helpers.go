package controller

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	e "github.com/team16/easytracker/internal/tracker/errors"
)

func cacheKey(kind string, id int64) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

// cached serves a copy of a cached entity or loads and caches it. A
// missing row yields (nil, nil) and is not cached.
func cached[T any](s *TrackerService, key string, load func() (*T, error)) (*T, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			entity := v.(T)
			return &entity, nil
		}
	}

	entity, err := load()
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if s.cache != nil {
		s.cache.SetDefault(key, *entity)
	}
	out := *entity
	return &out, nil
}

func truncateToSecond(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// truncateToDate keeps the calendar date of t as midnight UTC.
func truncateToDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\n")
}

func normalizeMAC(mac string) (string, error) {
	hw, err := net.ParseMAC(strings.TrimSpace(mac))
	if err != nil || len(hw) != 6 {
		return "", fmt.Errorf("%w: invalid MAC address %q", e.ErrInvalidInput, mac)
	}
	return hw.String(), nil
}
