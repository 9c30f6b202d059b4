package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{in: "low", want: PriorityLow},
		{in: "Medium", want: PriorityMedium},
		{in: " HIGH ", want: PriorityHigh},
		{in: "urgent", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPriority)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriorityNextCycles(t *testing.T) {
	p := PriorityLow
	p = p.Next()
	assert.Equal(t, PriorityMedium, p)
	p = p.Next()
	assert.Equal(t, PriorityHigh, p)
	p = p.Next()
	assert.Equal(t, PriorityLow, p)
}

func TestDraftValidate(t *testing.T) {
	assert.ErrorIs(t, Draft{Title: "   "}.Validate(), ErrEmptyTitle)
	assert.ErrorIs(t, Draft{Title: "x", Priority: "urgent"}.Validate(), ErrInvalidPriority)
	assert.NoError(t, Draft{Title: "Buy milk"}.Validate())

	d := Draft{Title: "  Buy milk  "}.Normalized()
	assert.Equal(t, "Buy milk", d.Title)
	assert.Equal(t, DefaultPriority, d.Priority)
}

func TestPatchApply(t *testing.T) {
	created := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	due := Date{Year: 2026, Month: time.March, Day: 3}
	task := Task{
		ID:        "t1",
		UserID:    "u1",
		Title:     "Old",
		Priority:  PriorityLow,
		DueDate:   &due,
		CreatedAt: created,
		UpdatedAt: created,
	}

	title := "New"
	high := PriorityHigh
	later := created.Add(time.Hour)
	got := Patch{Title: &title, Priority: &high, ClearDueDate: true}.Apply(task, later)

	assert.Equal(t, "t1", got.ID)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, PriorityHigh, got.Priority)
	assert.Nil(t, got.DueDate)
	assert.Equal(t, later, got.UpdatedAt)

	// updated-at never moves backwards
	earlier := created.Add(-time.Hour)
	got = CompletedPatch(true).Apply(task, earlier)
	assert.True(t, got.Completed)
	assert.Equal(t, created, got.UpdatedAt)
}

func TestPatchValidate(t *testing.T) {
	empty := " "
	assert.ErrorIs(t, Patch{Title: &empty}.Validate(), ErrEmptyTitle)
	bad := Priority("urgent")
	assert.ErrorIs(t, Patch{Priority: &bad}.Validate(), ErrInvalidPriority)
	assert.NoError(t, CompletedPatch(false).Validate())
	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, CompletedPatch(true).IsEmpty())
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2026, Month: time.October, Day: 19}, d)
	assert.Equal(t, "2026-10-19", d.String())

	_, err = ParseDate("19/10/2026")
	assert.Error(t, err)

	yesterday := d.AddDays(-1)
	assert.Equal(t, "2026-10-18", yesterday.String())
	assert.True(t, yesterday.Before(d))
	assert.True(t, d.After(yesterday))
	assert.False(t, d.Before(d))
	assert.Equal(t, "2026-11-01", d.AddDays(13).String())

	// the calendar day comes from the time's own location
	tokyo := time.FixedZone("JST", 9*60*60)
	late := time.Date(2026, 10, 19, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-10-20", DateOf(late.In(tokyo)).String())
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2026-02-28"))
	assert.Equal(t, "2026-02-28", d.String())

	require.NoError(t, d.Scan([]byte("2026-03-01")))
	assert.Equal(t, "2026-03-01", d.String())

	require.NoError(t, d.Scan(time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-04-05", d.String())

	assert.Error(t, d.Scan(42))

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2026-04-05", v)
}
