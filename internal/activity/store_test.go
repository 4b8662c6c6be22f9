package activity

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"lunaday/internal/storage"
)

type memoryKV struct {
	data    map[string][]byte
	puts    int
	failPut bool
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (m *memoryKV) Get(key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return v, nil
}

func (m *memoryKV) Put(key string, value []byte) error {
	m.puts++
	if m.failPut {
		return errors.New("disk full")
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memoryKV) Close() error { return nil }

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("act-%d", n)
	})
}

var march15 = Date{Year: 2024, Month: 3, Day: 15}

func TestAddMeetingThenDelete(t *testing.T) {
	s := Open(newMemoryKV(), sequentialIDs())

	a, err := s.Add(march15, "Meeting", "09:00", "")
	require.NoError(t, err)

	got := s.ActivitiesFor(mustParse(t, "2024-03-15"))
	require.Len(t, got, 1)
	require.Equal(t, "Meeting", got[0].Title)
	require.Equal(t, "09:00", got[0].Time)
	require.Equal(t, march15, got[0].Date)

	s.Remove(march15, a.ID)
	require.Empty(t, s.ActivitiesFor(march15))
	require.NotNil(t, s.ActivitiesFor(march15))
}

func TestAddGrowsBucketByOne(t *testing.T) {
	s := Open(nil, sequentialIDs())
	for i := 0; i < 3; i++ {
		before := len(s.ActivitiesFor(march15))
		a, err := s.Add(march15, fmt.Sprintf("item %d", i), "", "note")
		require.NoError(t, err)

		after := s.ActivitiesFor(march15)
		require.Len(t, after, before+1)
		require.Equal(t, a, after[len(after)-1])
		require.Equal(t, "note", a.Description)
	}
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	s := Open(nil, sequentialIDs())
	for _, title := range []string{"c", "a", "b"} {
		_, err := s.Add(march15, title, "", "")
		require.NoError(t, err)
	}
	var titles []string
	for _, a := range s.ActivitiesFor(march15) {
		titles = append(titles, a.Title)
	}
	require.Equal(t, []string{"c", "a", "b"}, titles)
}

func TestAddValidation(t *testing.T) {
	kv := newMemoryKV()
	s := Open(kv, sequentialIDs())

	tests := []struct {
		name  string
		date  Date
		title string
		at    string
		field string
	}{
		{"empty title", march15, "", "", "title"},
		{"whitespace title", march15, "   \t", "", "title"},
		{"bad time", march15, "Lunch", "12h30", "time"},
		{"out of range time", march15, "Lunch", "25:00", "time"},
		{"zero date", Date{}, "Lunch", "", "date"},
		{"leap day in common year", Date{Year: 2025, Month: 2, Day: 29}, "Lunch", "", "date"},
		{"day past month end", Date{Year: 2024, Month: 4, Day: 31}, "Lunch", "", "date"},
		{"month 13", Date{Year: 2024, Month: 13, Day: 1}, "Lunch", "", "date"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Add(tc.date, tc.title, tc.at, "")
			require.True(t, IsValidation(err))
			var v *ValidationError
			require.ErrorAs(t, err, &v)
			require.Equal(t, tc.field, v.Field)
		})
	}
	require.Empty(t, s.ActivitiesFor(march15))
	require.Zero(t, kv.puts)
}

func TestInvalidDateKeepsSnapshotLoadable(t *testing.T) {
	kv := newMemoryKV()
	s := Open(kv, sequentialIDs())
	jan20 := Date{Year: 2025, Month: 1, Day: 20}
	_, err := s.Add(jan20, "Dentist", "", "")
	require.NoError(t, err)

	_, err = s.Add(Date{Year: 2025, Month: 2, Day: 29}, "Ghost", "", "")
	require.True(t, IsValidation(err))

	reopened := Open(kv, sequentialIDs())
	require.Len(t, reopened.ActivitiesFor(jan20), 1)
	require.Equal(t, []Date{jan20}, reopened.Dates())
}

func TestDateValid(t *testing.T) {
	require.True(t, Date{Year: 2024, Month: 2, Day: 29}.Valid())
	require.False(t, Date{Year: 2025, Month: 2, Day: 29}.Valid())
	require.False(t, Date{}.Valid())
}

func TestAddTrimsFields(t *testing.T) {
	s := Open(nil, sequentialIDs())
	a, err := s.Add(march15, "  Yoga ", " 07:30 ", "  mat  ")
	require.NoError(t, err)
	require.Equal(t, "Yoga", a.Title)
	require.Equal(t, "07:30", a.Time)
	require.Equal(t, "mat", a.Description)
}

func TestRemoveUnknownIDLeavesBucket(t *testing.T) {
	s := Open(nil, sequentialIDs())
	_, err := s.Add(march15, "Meeting", "", "")
	require.NoError(t, err)
	before := s.ActivitiesFor(march15)

	s.Remove(march15, "missing")
	require.Equal(t, before, s.ActivitiesFor(march15))

	s.Remove(Date{Year: 1999, Month: 1, Day: 1}, "missing")
	require.Equal(t, before, s.ActivitiesFor(march15))
}

func TestRemoveOnlyTargetsID(t *testing.T) {
	s := Open(nil, sequentialIDs())
	a, _ := s.Add(march15, "one", "", "")
	b, _ := s.Add(march15, "two", "", "")
	c, _ := s.Add(march15, "three", "", "")

	s.Remove(march15, b.ID)
	require.Equal(t, []Activity{a, c}, s.ActivitiesFor(march15))
	_, ok := s.Find(b.ID)
	require.False(t, ok)
}

func TestActivitiesForReturnsCopy(t *testing.T) {
	s := Open(nil, sequentialIDs())
	_, _ = s.Add(march15, "one", "", "")

	got := s.ActivitiesFor(march15)
	got[0].Title = "mutated"
	require.Equal(t, "one", s.ActivitiesFor(march15)[0].Title)
}

func TestEveryMutationPersists(t *testing.T) {
	kv := newMemoryKV()
	s := Open(kv, sequentialIDs())

	a, _ := s.Add(march15, "one", "", "")
	require.Equal(t, 1, kv.puts)
	s.Remove(march15, "nope")
	require.Equal(t, 2, kv.puts)
	s.Remove(march15, a.ID)
	require.Equal(t, 3, kv.puts)

	reopened := Open(kv)
	require.Empty(t, reopened.Dates())
}

func TestRoundTripThroughKV(t *testing.T) {
	kv := newMemoryKV()
	s := Open(kv, sequentialIDs())
	april := Date{Year: 2024, Month: 4, Day: 1}
	_, _ = s.Add(march15, "Meeting", "09:00", "room 4")
	_, _ = s.Add(march15, "Lunch", "", "")
	_, _ = s.Add(april, "Rent", "", "")

	reopened := Open(kv)
	require.Equal(t, s.Snapshot(), reopened.Snapshot())
	require.Equal(t, []Date{march15, april}, reopened.Dates())
}

func TestMarshalUnmarshalEqual(t *testing.T) {
	in := map[Date][]Activity{
		march15: {
			{ID: "1", Title: "a", Time: "08:00", Date: march15},
			{ID: "2", Title: "b", Description: "x", Date: march15},
		},
	}
	data, err := Marshal(in)
	require.NoError(t, err)
	require.Contains(t, string(data), `"2024-03-15"`)

	out, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestUnmarshalRekeysActivities(t *testing.T) {
	out, err := Unmarshal([]byte(`{"2024-03-15":[{"id":"1","title":"a","date":"2020-01-01"}],"2024-03-16":[]}`))
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, march15, out[march15][0].Date)
}

func TestLoadFallsBackToEmpty(t *testing.T) {
	for name, payload := range map[string]string{
		"not json":   "{{{",
		"bad key":    `{"yesterday":[{"id":"1","title":"a"}]}`,
		"wrong type": `["2024-03-15"]`,
	} {
		t.Run(name, func(t *testing.T) {
			kv := newMemoryKV()
			kv.data[Key] = []byte(payload)

			core, logs := observer.New(zapcore.WarnLevel)
			s := Open(kv, WithLogger(zap.New(core)))
			require.Empty(t, s.Dates())
			require.Equal(t, 1, logs.FilterMessage("persisted activities corrupt, starting empty").Len())

			_, err := s.Add(march15, "fresh", "", "")
			require.NoError(t, err)
		})
	}
}

func TestPersistFailureIsNotSurfaced(t *testing.T) {
	kv := newMemoryKV()
	kv.failPut = true
	core, logs := observer.New(zapcore.WarnLevel)
	s := Open(kv, WithLogger(zap.New(core)))

	a, err := s.Add(march15, "Meeting", "", "")
	require.NoError(t, err)
	require.Equal(t, []Activity{a}, s.ActivitiesFor(march15))
	require.Equal(t, 1, logs.FilterMessage("persist activities failed").Len())
}

func TestDefaultIDsAreUniqueAndOrdered(t *testing.T) {
	s := Open(nil)
	var prev string
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		a, err := s.Add(march15, "x", "", "")
		require.NoError(t, err)
		require.False(t, seen[a.ID])
		seen[a.ID] = true
		require.Greater(t, a.ID, prev)
		prev = a.ID
	}
}

func TestStoreOverSQLite(t *testing.T) {
	kv, err := storage.Open(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	defer kv.Close()

	s := Open(kv)
	a, err := s.Add(march15, "Meeting", "09:00", "")
	require.NoError(t, err)

	reopened := Open(kv)
	got, ok := reopened.Find(a.ID)
	require.True(t, ok)
	require.Equal(t, a, got)
}

func mustParse(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}
