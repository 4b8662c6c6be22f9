// Package activity owns the date-keyed activity buckets and their durable
// snapshot.
package activity

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lunaday/internal/storage"
)

// Key is the storage key holding the whole store.
const Key = "lunaday.activities"

const timeLayout = "15:04"

// Activity is a free-text entry attached to one day. It is never mutated
// after creation.
type Activity struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Time        string `json:"time,omitempty"`
	Description string `json:"description,omitempty"`
	Date        Date   `json:"date"`
}

// ValidationError reports a draft field that cannot be stored.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("activity: %s %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the uuid v7 id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithLogger attaches a logger; the default discards.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// Store maps days to ordered activity buckets. Every mutation rewrites the
// full snapshot under Key. Not safe for concurrent use; the UI event loop is
// the only writer.
type Store struct {
	kv      storage.KV
	log     *zap.Logger
	newID   func() string
	buckets map[Date][]Activity
}

// Open builds a store over kv and restores the persisted snapshot. A nil kv
// keeps everything in memory.
func Open(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:      kv,
		log:     zap.NewNop(),
		newID:   newID,
		buckets: make(map[Date][]Activity),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Load()
	return s
}

// newID returns a time-ordered uuid; successive ids from one process sort in
// creation order.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Load replaces the in-memory buckets with the persisted snapshot. Missing or
// unreadable data leaves the store empty.
func (s *Store) Load() {
	s.buckets = make(map[Date][]Activity)
	if s.kv == nil {
		return
	}
	data, err := s.kv.Get(Key)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Debug("no persisted activities")
		return
	}
	if err != nil {
		s.log.Warn("read activities failed, starting empty", zap.Error(err))
		return
	}
	buckets, err := Unmarshal(data)
	if err != nil {
		s.log.Warn("persisted activities corrupt, starting empty", zap.Error(err))
		return
	}
	s.buckets = buckets
	s.log.Info("activities loaded", zap.Int("dates", len(buckets)))
}

// ValidateDraft checks the user-entered fields of a new activity: a non-blank
// title and an optional HH:MM time.
func ValidateDraft(title, at string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if at = strings.TrimSpace(at); at != "" {
		if _, err := time.Parse(timeLayout, at); err != nil {
			return &ValidationError{Field: "time", Reason: "must be HH:MM"}
		}
	}
	return nil
}

// Add validates the draft, appends it to the day's bucket and persists.
func (s *Store) Add(d Date, title, at, description string) (Activity, error) {
	title, at = strings.TrimSpace(title), strings.TrimSpace(at)
	if err := ValidateDraft(title, at); err != nil {
		return Activity{}, err
	}
	if d.IsZero() {
		return Activity{}, &ValidationError{Field: "date", Reason: "must be set"}
	}
	if !d.Valid() {
		return Activity{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("%s is not a calendar day", d)}
	}

	a := Activity{
		ID:          s.newID(),
		Title:       title,
		Time:        at,
		Description: strings.TrimSpace(description),
		Date:        d,
	}
	s.buckets[d] = append(s.buckets[d], a)
	s.log.Info("activity added", zap.Stringer("date", d), zap.String("id", a.ID))
	s.persist()
	return a, nil
}

// Remove deletes the activity with id from the day's bucket. Unknown ids are
// ignored; the snapshot is rewritten either way.
func (s *Store) Remove(d Date, id string) {
	bucket := s.buckets[d]
	kept := bucket[:0:0]
	for _, a := range bucket {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	switch {
	case len(kept) == len(bucket):
		s.log.Debug("remove: no such activity", zap.Stringer("date", d), zap.String("id", id))
	case len(kept) == 0:
		delete(s.buckets, d)
		s.log.Info("activity removed", zap.Stringer("date", d), zap.String("id", id))
	default:
		s.buckets[d] = kept
		s.log.Info("activity removed", zap.Stringer("date", d), zap.String("id", id))
	}
	s.persist()
}

// ActivitiesFor returns a copy of the day's bucket in insertion order, never nil.
func (s *Store) ActivitiesFor(d Date) []Activity {
	bucket := s.buckets[d]
	out := make([]Activity, len(bucket))
	copy(out, bucket)
	return out
}

// Has reports whether the day has at least one activity.
func (s *Store) Has(d Date) bool { return len(s.buckets[d]) > 0 }

// Find looks an activity up by id across all days.
func (s *Store) Find(id string) (Activity, bool) {
	for _, bucket := range s.buckets {
		for _, a := range bucket {
			if a.ID == id {
				return a, true
			}
		}
	}
	return Activity{}, false
}

// Dates lists the days holding activities in ascending order.
func (s *Store) Dates() []Date {
	dates := make([]Date, 0, len(s.buckets))
	for d, bucket := range s.buckets {
		if len(bucket) > 0 {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Snapshot returns a deep copy of all buckets.
func (s *Store) Snapshot() map[Date][]Activity {
	out := make(map[Date][]Activity, len(s.buckets))
	for d := range s.buckets {
		out[d] = s.ActivitiesFor(d)
	}
	return out
}

func (s *Store) persist() {
	if s.kv == nil {
		return
	}
	data, err := Marshal(s.buckets)
	if err != nil {
		s.log.Warn("encode activities failed", zap.Error(err))
		return
	}
	if err := s.kv.Put(Key, data); err != nil {
		s.log.Warn("persist activities failed", zap.Error(err))
	}
}

// Marshal encodes buckets as one JSON object keyed by YYYY-MM-DD.
func Marshal(buckets map[Date][]Activity) ([]byte, error) {
	return json.Marshal(buckets)
}

// Unmarshal decodes a snapshot written by Marshal. Activities are re-keyed to
// the bucket they were found under and empty buckets are dropped.
func Unmarshal(data []byte) (map[Date][]Activity, error) {
	var raw map[Date][]Activity
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("activity: decode snapshot: %w", err)
	}
	out := make(map[Date][]Activity, len(raw))
	for d, bucket := range raw {
		if len(bucket) == 0 {
			continue
		}
		for i := range bucket {
			bucket[i].Date = d
		}
		out[d] = bucket
	}
	return out, nil
}
