package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cube_navigator/internal/models"
	"cube_navigator/internal/repository"
)

// Bounds on how many events one List returns.
const (
	DefaultLogLimit = 200
	MaxLogLimit     = 1000
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	ErrUnknownEventType = errors.New("unknown event type")
	ErrInvalidLimit     = fmt.Errorf("limit must be between 1 and %d", MaxLogLimit)
)

// LogFilter selects navigator events by time range and type. List returns
// at most Limit of the newest matches, oldest first; zero Limit means
// DefaultLogLimit.
type LogFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Types []string  // empty means every type
	Limit int
}

type EventLogService struct {
	events repository.EventRepo
}

func NewEventLogService(events repository.EventRepo) *EventLogService {
	return &EventLogService{events: events}
}

// List returns the events matching f, oldest first.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.RobotEvent, error) {
	q, err := f.query()
	if err != nil {
		return nil, err
	}
	return s.events.List(ctx, q)
}

// query validates f and turns it into a repository query with UTC bounds,
// canonical type names and a concrete limit.
func (f LogFilter) query() (repository.EventQuery, error) {
	q := repository.EventQuery{From: toUTC(f.From), To: toUTC(f.To), Limit: f.Limit}
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return repository.EventQuery{}, ErrInvalidTimeRange
	}

	switch {
	case q.Limit == 0:
		q.Limit = DefaultLogLimit
	case q.Limit < 0 || q.Limit > MaxLogLimit:
		return repository.EventQuery{}, fmt.Errorf("%w: got %d", ErrInvalidLimit, q.Limit)
	}

	seen := make(map[string]bool, len(f.Types))
	for _, t := range f.Types {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		if !models.IsEventType(t) {
			return repository.EventQuery{}, fmt.Errorf("%w: %q", ErrUnknownEventType, t)
		}
		seen[t] = true
		q.Types = append(q.Types, t)
	}
	return q, nil
}
