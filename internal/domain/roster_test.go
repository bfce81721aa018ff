package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestRosterPeriod_Validate(t *testing.T) {
	r := RosterPeriod{ID: 1, Name: "March", StartDate: fixedNow, EndDate: fixedNow.AddDate(0, 0, 30), Status: RosterDraft}
	require.NoError(t, r.Validate())
	assert.Equal(t, IntID(1), r.Key())

	bad := r
	bad.EndDate = fixedNow.AddDate(0, 0, -1)
	require.ErrorIs(t, bad.Validate(), ErrValidation)

	bad = r
	bad.Status = "pending"
	require.ErrorIs(t, bad.Validate(), ErrValidation)
}

func TestRosterPeriod_Contains(t *testing.T) {
	r := RosterPeriod{StartDate: fixedNow, EndDate: fixedNow.AddDate(0, 0, 6)}
	assert.True(t, r.Contains(fixedNow))
	assert.True(t, r.Contains(fixedNow.AddDate(0, 0, 6)))
	assert.False(t, r.Contains(fixedNow.AddDate(0, 0, 7)))
	assert.False(t, r.Contains(fixedNow.Add(-time.Second)))
}

func TestCurrentRoster(t *testing.T) {
	day := func(m time.Month, d int) time.Time { return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC) }
	rosters := []RosterPeriod{
		{ID: 3, Name: "April", StartDate: day(4, 1), EndDate: day(4, 30), Status: RosterDraft},
		{ID: 1, Name: "March (old)", StartDate: day(3, 1), EndDate: day(3, 31), Status: RosterArchived},
		{ID: 2, Name: "March", StartDate: day(3, 1), EndDate: day(3, 31), Status: RosterPublished},
	}

	got, ok := CurrentRoster(rosters, time.Date(2026, 3, 31, 18, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, int64(2), got.ID)

	_, ok = CurrentRoster(rosters, day(5, 1))
	assert.False(t, ok)
}
