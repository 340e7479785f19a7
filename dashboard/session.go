// Package dashboard applies user actions to one session's state: mutate,
// recompute the weekly cache, persist.
package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fittrack-dashboard/insights"
	"fittrack-dashboard/meals"
	"fittrack-dashboard/metrics"
	"fittrack-dashboard/models"
	"fittrack-dashboard/state"
)

var (
	ErrInvalidActivity = errors.New("invalid activity")
	ErrInvalidMeal     = meals.ErrInvalidMeal
)

// NewID returns a fresh activity id.
func NewID() string {
	return "id-" + uuid.NewString()
}

// ActivityInput is a user-submitted activity before it gets an id and date.
type ActivityInput struct {
	Name     string        `json:"name"`
	Period   models.Period `json:"period"`
	Duration int           `json:"duration"`
	Calories int           `json:"calories"`
}

// Options tweak a Session; zero values pick production behavior.
type Options struct {
	Now     func() time.Time
	NewID   func() string
	Log     *zap.Logger
	Metrics *metrics.Metrics
}

// Session is the explicit state handle for one browser session. All methods
// are safe for concurrent use; each runs to completion under the lock.
type Session struct {
	mu      sync.Mutex
	store   *state.Store
	state   *models.AppState
	now     func() time.Time
	newID   func() string
	log     *zap.Logger
	metrics *metrics.Metrics
}

// Open loads the session's state and persists it straight away.
func Open(store *state.Store, opts Options) *Session {
	s := &Session{
		store:   store,
		now:     opts.Now,
		newID:   opts.NewID,
		log:     opts.Log,
		metrics: opts.Metrics,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = NewID
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.state = store.Load()
	store.Save(s.state)
	return s
}

// Snapshot returns a deep copy of the current state for rendering.
func (s *Session) Snapshot() *models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// AddActivity validates in, dates it today and prepends it.
func (s *Session) AddActivity(in ActivityInput) (models.ActivityRecord, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Period == "" {
		in.Period = models.Morning
	}
	switch {
	case in.Name == "":
		return models.ActivityRecord{}, fmt.Errorf("%w: name is required", ErrInvalidActivity)
	case in.Duration <= 0:
		return models.ActivityRecord{}, fmt.Errorf("%w: duration must be positive", ErrInvalidActivity)
	case in.Calories <= 0:
		return models.ActivityRecord{}, fmt.Errorf("%w: calories must be positive", ErrInvalidActivity)
	case !in.Period.Valid():
		return models.ActivityRecord{}, fmt.Errorf("%w: unknown period %q", ErrInvalidActivity, in.Period)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := models.ActivityRecord{
		ID:       s.uniqueID(),
		Name:     in.Name,
		Period:   in.Period,
		Duration: in.Duration,
		Calories: in.Calories,
		Date:     s.now().Format(models.DateLayout),
	}
	s.state.Activity = append([]models.ActivityRecord{rec}, s.state.Activity...)
	s.commitActivity("add_activity")
	return rec, nil
}

func (s *Session) uniqueID() string {
	for {
		id := s.newID()
		taken := false
		for _, a := range s.state.Activity {
			if a.ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
	}
}

// DeleteActivity removes the record with id, keeping the others in order.
// It reports whether a record was removed.
func (s *Session) DeleteActivity(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]models.ActivityRecord, 0, len(s.state.Activity))
	for _, a := range s.state.Activity {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	removed := len(kept) != len(s.state.Activity)
	s.state.Activity = kept
	s.commitActivity("delete_activity")
	return removed
}

func (s *Session) commitActivity(op string) {
	if !insights.RecalcWeekly(s.state, s.now().Location()) {
		s.log.Debug("weekly cache kept, no dated activity")
	}
	s.store.Save(s.state)
	s.metrics.Mutation(op)
}

func (s *Session) AddMeal(slot models.Slot, name string, calories int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := meals.Add(&s.state.Meals, slot, name, calories); err != nil {
		return err
	}
	s.store.Save(s.state)
	s.metrics.Mutation("add_meal")
	return nil
}

// RemoveMeal deletes one entry; an out-of-range index is a no-op.
func (s *Session) RemoveMeal(slot models.Slot, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !meals.Remove(&s.state.Meals, slot, index) {
		return false
	}
	s.store.Save(s.state)
	s.metrics.Mutation("remove_meal")
	return true
}

// Reset discards every edit and restores the default snapshot.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.store.Reset()
	s.metrics.Mutation("reset")
}

// ExportFilename names a summary download for the given day.
func ExportFilename(prefix string, day time.Time) string {
	return fmt.Sprintf("%s-summary-%s.json", prefix, day.Format(models.DateLayout))
}

// Export serializes the full state as indented JSON.
func (s *Session) Export(prefix string) (filename string, body []byte, err error) {
	snap := s.Snapshot()
	body, err = json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("export state: %w", err)
	}
	return ExportFilename(prefix, s.now()), body, nil
}
