package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/repository"
)

// Notifier pushes events to connected terminals
type Notifier interface {
	Broadcast(event string, data interface{})
}

type nopNotifier struct{}

func (nopNotifier) Broadcast(string, interface{}) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

// Actor is the authenticated user performing an operation
type Actor struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Role   string
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// Settings keys
const (
	keyTaxSettings   = "taxSettings"
	keyOrderCounter  = "orderCounter"
	keyLastCashReset = "lastCashReset"
	keyCartPrefix    = "currentCart:"
)

var errCorrupt = errors.New("stored document is corrupt")

// loadJSON reads a settings document into dst. A missing key reports
// found=false; a document that does not decode is logged and reported as
// errCorrupt so callers can fall back to defaults.
func loadJSON(ctx context.Context, repo repository.SettingsRepository, key string, dst interface{}) (bool, error) {
	raw, ok, err := repo.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Discarding corrupt stored document")
		return false, errCorrupt
	}
	return true, nil
}

func saveJSON(ctx context.Context, repo repository.SettingsRepository, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return repo.Put(ctx, key, string(raw))
}

// dayBounds returns the start of t's day in loc and the start of the next day
func dayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// dayKey formats t's calendar day in loc
func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
