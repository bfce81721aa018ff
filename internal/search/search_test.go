package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

func fixtures() []domain.Notification {
	return []domain.Notification{
		{ID: 1, Title: "Roster published", Message: "The March roster is live.", Type: domain.TypeRosterPublished, SenderID: 2},
		{ID: 2, Title: "Leave request", Message: "Requesting leave on the 14th.", Type: domain.TypeLeaveRequest, SenderID: 3, IsStarred: true},
		{ID: 3, Title: "Shift swap", Message: "Sam and Riley swapped Friday nights.", Type: domain.TypeShiftChanged, SenderID: 2, IsRead: true},
	}
}

func ids(items []domain.Notification) []int64 {
	out := make([]int64, 0, len(items))
	for _, n := range items {
		out = append(out, n.ID)
	}
	return out
}

func TestSubstringProvider(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		query string
		want  []int64
	}{
		{"empty query matches all", nil, "", []int64{1, 2, 3}},
		{"case insensitive by default", nil, "roster", []int64{1}},
		{"message field", nil, "friday", []int64{3}},
		{"case sensitive", []Option{WithCaseInsensitive(false)}, "roster", []int64{1}},
		{"case sensitive miss", []Option{WithCaseInsensitive(false)}, "ROSTER", []int64{}},
		{"type field only", []Option{WithFields(FieldType)}, "leave", []int64{2}},
		{"no match", nil, "payroll", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(fixtures(), tt.query, NewSubstringProvider(tt.opts...))
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSenderNames(t *testing.T) {
	users := []domain.User{
		{ID: domain.IntID(2), Name: "Morgan Manager"},
		{ID: domain.IntID(3), Name: "Sam Staff"},
		{ID: domain.NewTempID(), Name: "Pending"},
	}
	names := SenderNamesFrom(users)
	require.Len(t, names, 2)

	p := NewSubstringProvider(WithFields(FieldSender), WithSenderNames(names))
	assert.Equal(t, []int64{1, 3}, ids(Filter(fixtures(), "morgan", p)))
	assert.Equal(t, []int64{2}, ids(Filter(fixtures(), "3", p)))
}

func TestRegexProvider(t *testing.T) {
	p := NewRegexProvider()
	assert.Equal(t, []int64{1, 3}, ids(Filter(fixtures(), `^(roster|shift)`, p)))
	assert.Empty(t, Filter(fixtures(), `([`, p))

	rp := p.(*RegexProvider)
	_, err := rp.Compile(`([`)
	require.Error(t, err)
	first, err := rp.Compile(`leave`)
	require.NoError(t, err)
	second, err := rp.Compile(`leave`)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestTokenProvider(t *testing.T) {
	p := NewTokenProvider()

	tests := []struct {
		query string
		want  []int64
	}{
		{"roster live", []int64{1}},
		{"roster payroll", []int64{}},
		{"unread", []int64{1, 2}},
		{"read", []int64{3}},
		{"read unread", []int64{1, 2, 3}},
		{"starred", []int64{2}},
		{"starred leave", []int64{2}},
		{"   ", []int64{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(fixtures(), tt.query, p)))
		})
	}
}

func TestNew(t *testing.T) {
	for _, kind := range []string{"", "substring", "regex", "token"} {
		p, err := New(kind)
		require.NoError(t, err)
		assert.NotEmpty(t, p.Name())
	}
	_, err := New("fuzzy")
	require.Error(t, err)
}

func TestFilterNilProvider(t *testing.T) {
	items := fixtures()
	assert.Len(t, Filter(items, "anything", nil), 3)
}
