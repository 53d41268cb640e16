package connpass

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywords(t *testing.T) {
	cases := map[string][]string{
		"a, b ,c":   {"a", "b", "c"},
		"go":        {"go"},
		" python ":  {"python"},
		"a,,b,":     {"a", "", "b"},
		",a":        {"", "a"},
		"a,,":       {"a"},
		"":          {""},
		" , ":       {"", ""},
		",":         {},
		"東京, 大阪": {"東京", "大阪"},
	}
	for in, want := range cases {
		assert.Equal(t, want, SearchFilters{Keyword: ptr(in)}.Keywords(), "keyword %q", in)
	}
	assert.Nil(t, SearchFilters{}.Keywords())
}

func TestValuesSendsEveryKeywordSegment(t *testing.T) {
	cases := map[string][]string{
		"":     {""},
		",a":   {"", "a"},
		"a,,b": {"a", "", "b"},
	}
	for in, want := range cases {
		assert.Equal(t, url.Values{"keyword": want}, SearchFilters{Keyword: ptr(in)}.Values(), "keyword %q", in)
	}
}

func TestValuesOnlyPresentFields(t *testing.T) {
	assert.Empty(t, SearchFilters{}.Values())

	assert.Equal(t, url.Values{"is_joinable": {"true"}}, SearchFilters{IsJoinable: ptr(true)}.Values())
	assert.Equal(t, url.Values{"is_joinable": {"false"}}, SearchFilters{IsJoinable: ptr(false)}.Values())
	assert.Equal(t, url.Values{"prefecture": {""}}, SearchFilters{Prefecture: ptr("")}.Values())
	assert.Equal(t, url.Values{"start": {"0"}}, SearchFilters{Start: ptr(0)}.Values())
}

func TestUnmarshalFilters(t *testing.T) {
	var f SearchFilters
	require.NoError(t, json.Unmarshal([]byte(`{
		"eventId": 364,
		"keyword": "go, mcp",
		"ym": "202501",
		"ymd": 20250125,
		"order": "2",
		"start": 1,
		"count": " 20 ",
		"prefecture": "東京都",
		"isJoinable": "true",
		"unknown": {"ignored": true}
	}`), &f))

	assert.Equal(t, SearchFilters{
		EventID:      ptr(364),
		Keyword:      ptr("go, mcp"),
		YearMonth:    ptr(202501),
		YearMonthDay: ptr(20250125),
		Order:        ptr(OrderOldest),
		Start:        ptr(1),
		Count:        ptr(20),
		Prefecture:   ptr("東京都"),
		IsJoinable:   ptr(true),
	}, f)
}

func TestUnmarshalFiltersNullsAreAbsent(t *testing.T) {
	f := SearchFilters{Count: ptr(3)}
	require.NoError(t, json.Unmarshal([]byte(`{"eventId":null,"keyword":null,"isJoinable":null}`), &f))
	assert.Equal(t, SearchFilters{}, f)
	assert.Empty(t, f.Values())
}

func TestUnmarshalFiltersCoercesScalars(t *testing.T) {
	var f SearchFilters
	require.NoError(t, json.Unmarshal([]byte(`{"keyword": 2025, "isJoinable": false}`), &f))
	assert.Equal(t, "2025", *f.Keyword)
	assert.False(t, *f.IsJoinable)
}

func TestUnmarshalFiltersKeepsLargeIntegersExact(t *testing.T) {
	var f SearchFilters
	require.NoError(t, json.Unmarshal([]byte(`{"eventId": 9007199254740993, "start": 2.0, "count": 1e2}`), &f))
	assert.Equal(t, url.Values{
		"event_id": {"9007199254740993"},
		"start":    {"2"},
		"count":    {"100"},
	}, f.Values())

	var fromString SearchFilters
	require.NoError(t, json.Unmarshal([]byte(`{"eventId": "9007199254740993"}`), &fromString))
	assert.Equal(t, f.EventID, fromString.EventID)
}

func TestUnmarshalFiltersRejectsBadValues(t *testing.T) {
	for _, body := range []string{
		`{"count": "ten"}`,
		`{"count": 1.5}`,
		`{"eventId": 1e20}`,
		`{"eventId": 99999999999999999999}`,
		`{"eventId": "99999999999999999999"}`,
		`{"eventId": -1e300}`,
		`{"order": true}`,
		`{"ym": "0x10"}`,
		`{"isJoinable": "maybe"}`,
		`{"keyword": ["a", "b"]}`,
		`{"prefecture": {"name": "東京都"}}`,
		`[1, 2]`,
	} {
		var f SearchFilters
		assert.Error(t, json.Unmarshal([]byte(body), &f), body)
	}
}
