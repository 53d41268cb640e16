package connpass

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"connpass-mcp/internal/json"
)

// Sort orders accepted by the order filter.
const (
	OrderNewest           = 1
	OrderOldest           = 2
	OrderMostParticipants = 3
)

// SearchFilters are the optional arguments of a search. A nil field is left
// out of the upstream request entirely; the API treats unset and zero differently.
type SearchFilters struct {
	EventID      *int    `json:"eventId,omitempty" description:"Event ID to search for (optional)"`
	Keyword      *string `json:"keyword,omitempty" description:"Keywords to search for in event titles and descriptions (optional). You can specify multiple keywords by separating them with a comma."`
	YearMonth    *int    `json:"ym,omitempty" description:"Year and month in YYYYMM format, e.g., 202501 for January 2025 (optional)"`
	YearMonthDay *int    `json:"ymd,omitempty" description:"Specific date in YYYYMMDD format, e.g., 20250125 for January 25, 2025 (optional)"`
	Order        *int    `json:"order,omitempty" jsonschema:"enum=1,enum=2,enum=3" description:"Sort order: 1 for newest first, 2 for oldest first, 3 for most participants (optional, default: 1)"`
	Start        *int    `json:"start,omitempty" description:"Starting position for pagination (optional, default: 1)"`
	Count        *int    `json:"count,omitempty" description:"Number of events to return (optional, default: 10, max: 100)"`
	Prefecture   *string `json:"prefecture,omitempty" description:"Prefecture or 'オンライン' (online) to filter by (optional). Example: '東京都', '大阪府', 'オンライン'"`
	IsJoinable   *bool   `json:"isJoinable,omitempty" description:"Whether to filter for events that are joinable (have capacity and are not full) (optional)"`
}

// Keywords splits Keyword on commas and trims each segment. Leading and
// interior empty segments are kept; trailing empty segments are dropped, so
// "a,,b," yields a, "", b and "" yields a single empty keyword.
func (f SearchFilters) Keywords() []string {
	if f.Keyword == nil {
		return nil
	}
	parts := strings.Split(*f.Keyword, ",")
	if len(parts) > 1 {
		for len(parts) > 0 && parts[len(parts)-1] == "" {
			parts = parts[:len(parts)-1]
		}
	}
	out := make([]string, len(parts))
	for i, k := range parts {
		out[i] = strings.TrimSpace(k)
	}
	return out
}

// Values renders the present filters with the upstream parameter names.
func (f SearchFilters) Values() url.Values {
	q := url.Values{}
	addInt := func(name string, v *int) {
		if v != nil {
			q.Set(name, strconv.Itoa(*v))
		}
	}

	addInt("event_id", f.EventID)
	for _, k := range f.Keywords() {
		q.Add("keyword", k)
	}
	addInt("ym", f.YearMonth)
	addInt("ymd", f.YearMonthDay)
	addInt("order", f.Order)
	addInt("start", f.Start)
	addInt("count", f.Count)
	if f.Prefecture != nil {
		q.Set("prefecture", *f.Prefecture)
	}
	if f.IsJoinable != nil {
		q.Set("is_joinable", strconv.FormatBool(*f.IsJoinable))
	}
	return q
}

// UnmarshalJSON accepts numbers and booleans sent as strings, which LLM-driven
// hosts do often. JSON null leaves a field unset; unknown keys are ignored.
func (f *SearchFilters) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.UnmarshalStrict(data, &raw); err != nil {
		return err
	}

	var out SearchFilters
	ints := map[string]**int{
		"eventId": &out.EventID,
		"ym":      &out.YearMonth,
		"ymd":     &out.YearMonthDay,
		"order":   &out.Order,
		"start":   &out.Start,
		"count":   &out.Count,
	}
	strs := map[string]**string{
		"keyword":    &out.Keyword,
		"prefecture": &out.Prefecture,
	}

	for key, v := range raw {
		if v == nil {
			continue
		}
		switch {
		case ints[key] != nil:
			n, err := toInt(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*ints[key] = &n
		case strs[key] != nil:
			s, err := toString(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*strs[key] = &s
		case key == "isJoinable":
			b, err := cast.ToBoolE(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			out.IsJoinable = &b
		}
	}

	*f = out
	return nil
}

// maxExactFloat is the largest magnitude a float64 holds without losing integers.
const maxExactFloat = 1 << 53

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case json.Number:
		if i, err := strconv.Atoi(string(n)); err == nil {
			return i, nil
		}
		// 2.0 and 1e3 are integers too, as long as no digits are lost.
		f, err := strconv.ParseFloat(string(n), 64)
		if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactFloat {
			return 0, fmt.Errorf("%q is not an integer", string(n))
		}
		return int(f), nil
	case string:
		// Not cast: it parses with base 0, reading "0x10" as 16.
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", n)
		}
		return i, nil
	case bool:
		return 0, fmt.Errorf("boolean %v is not an integer", n)
	}
	return cast.ToIntE(v)
}

func toString(v any) (string, error) {
	switch v.(type) {
	case map[string]any, []any:
		return "", fmt.Errorf("expected a string, got %T", v)
	}
	return cast.ToStringE(v)
}
