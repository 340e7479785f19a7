// Package state persists one AppState document in a session-scoped
// key-value store. It is the only code that reads or writes that store.
package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"fittrack-dashboard/metrics"
	"fittrack-dashboard/models"
	"fittrack-dashboard/storage"
)

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "fittrack.v4"

type Store struct {
	kv       storage.KV
	key      string
	defaults *models.Defaults
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func NewStore(kv storage.KV, key string, defaults *models.Defaults, log *zap.Logger, m *metrics.Metrics) *Store {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: kv, key: key, defaults: defaults, log: log, metrics: m}
}

// Load returns the stored state, or a fresh copy of the defaults when nothing
// usable is stored. Failures are logged and never returned.
func (s *Store) Load() *models.AppState {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.fail("load", err)
		return s.defaults.State()
	}
	if !ok || raw == "" {
		return s.defaults.State()
	}

	st, err := decode(raw)
	if err != nil {
		s.fail("load", err)
		return s.defaults.State()
	}
	return st
}

// Save writes st under the store key. A failed write leaves the caller's
// in-memory state authoritative.
func (s *Store) Save(st *models.AppState) {
	data, err := json.Marshal(st)
	if err != nil {
		s.fail("save", err)
		return
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		s.fail("save", err)
	}
}

// Reset clears the stored entry and persists a fresh copy of the defaults.
func (s *Store) Reset() *models.AppState {
	if err := s.kv.Delete(s.key); err != nil {
		s.fail("reset", err)
	}
	st := s.defaults.State()
	s.Save(st)
	return st
}

func (s *Store) fail(op string, err error) {
	s.log.Error("session storage failure", zap.String("op", op), zap.String("key", s.key), zap.Error(err))
	s.metrics.StorageError(op)
}

// document mirrors AppState with the required sections as pointers, so a
// missing section can be told apart from a zero one.
type document struct {
	Overview *models.Overview        `json:"overview"`
	Activity []models.ActivityRecord `json:"activity"`
	Meals    *models.MealPlan        `json:"meals"`
	Weekly   *models.Weekly          `json:"weekly"`
}

func decode(raw string) (*models.AppState, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode state: trailing data after document")
	}
	var missing []error
	if doc.Overview == nil {
		missing = append(missing, errors.New("missing overview"))
	}
	if doc.Meals == nil {
		missing = append(missing, errors.New("missing meals"))
	}
	if doc.Weekly == nil {
		missing = append(missing, errors.New("missing weekly"))
	}
	if err := errors.Join(missing...); err != nil {
		return nil, fmt.Errorf("invalid state: %w", err)
	}

	st := &models.AppState{
		Overview: *doc.Overview,
		Activity: doc.Activity,
		Meals:    *doc.Meals,
		Weekly:   *doc.Weekly,
	}
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("invalid state: %w", err)
	}
	return st, nil
}
