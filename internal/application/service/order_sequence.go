package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/sangkips/cafe-pos/pkg/utils"
)

type counterState struct {
	Day  string `json:"day"`
	Next int    `json:"next"`
}

// OrderSequence hands out daily order codes (ORD-0001, ORD-0002, ...). The
// counter restarts at 1 on the first order of each shop-local day.
type OrderSequence struct {
	settings repository.SettingsRepository
	tx       repository.Transactor
	loc      *time.Location
	prefix   string
	now      func() time.Time
	mu       sync.Mutex
}

// NewOrderSequence creates a sequence for the shop timezone. The order insert
// and the counter update run in one transaction of tx.
func NewOrderSequence(settings repository.SettingsRepository, tx repository.Transactor, loc *time.Location, prefix string) *OrderSequence {
	if tx == nil {
		tx = inlineTransactor{}
	}
	if loc == nil {
		loc = time.UTC
	}
	if prefix == "" {
		prefix = "ORD"
	}
	return &OrderSequence{settings: settings, tx: tx, loc: loc, prefix: prefix, now: time.Now}
}

func (s *OrderSequence) current(ctx context.Context) (counterState, error) {
	today := dayKey(s.now(), s.loc)
	var st counterState
	found, err := loadJSON(ctx, s.settings, keyOrderCounter, &st)
	if err != nil && !errors.Is(err, errCorrupt) {
		return counterState{}, err
	}
	if !found || st.Day != today || st.Next < 1 {
		return counterState{Day: today, Next: 1}, nil
	}
	return st, nil
}

// Peek returns the code the next order will get
func (s *OrderSequence) Peek(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.current(ctx)
	if err != nil {
		return "", err
	}
	return utils.GenerateOrderCode(s.prefix, st.Next), nil
}

// Next calls fn with the next code inside a transaction and advances the
// counter in the same transaction. If fn or the counter write fails nothing
// is kept, so a code is never handed out twice.
func (s *OrderSequence) Next(ctx context.Context, fn func(ctx context.Context, code string) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		st, err := s.current(ctx)
		if err != nil {
			return err
		}
		if err := fn(ctx, utils.GenerateOrderCode(s.prefix, st.Next)); err != nil {
			return err
		}
		st.Next++
		return saveJSON(ctx, s.settings, keyOrderCounter, st)
	})
}

// inlineTransactor runs fn without a transaction
type inlineTransactor struct{}

func (inlineTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// State returns the stored counter document, for backups
func (s *OrderSequence) State(ctx context.Context) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"day": st.Day, "next": st.Next}, nil
}
