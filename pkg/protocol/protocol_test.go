package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDUnmarshal(t *testing.T) {
	cases := []struct {
		in     string
		want   interface{}
		str    string
		isZero bool
	}{
		{in: `null`, want: nil, str: "", isZero: true},
		{in: `"abc-1"`, want: "abc-1", str: "abc-1"},
		{in: `""`, want: "", str: ""},
		{in: `7`, want: float64(7), str: "7"},
		{in: `-2.5`, want: float64(-2.5), str: "-2.5"},
	}
	for _, tc := range cases {
		var id RequestID
		require.NoError(t, json.Unmarshal([]byte(tc.in), &id), tc.in)
		assert.Equal(t, tc.want, id.Value(), tc.in)
		assert.Equal(t, tc.str, id.String(), tc.in)
		assert.Equal(t, tc.isZero, id.IsZero(), tc.in)
	}
}

func TestRequestIDUnmarshalRejectsOtherTypes(t *testing.T) {
	for _, in := range []string{`true`, `{}`, `[1]`} {
		var id RequestID
		assert.Error(t, json.Unmarshal([]byte(in), &id), in)
	}
}

func TestRequestIDMarshal(t *testing.T) {
	for _, tc := range []struct {
		id   RequestID
		want string
	}{
		{RequestID{}, `null`},
		{NewRequestID("abc-1"), `"abc-1"`},
		{NewNumericRequestID(42), `42`},
	} {
		b, err := json.Marshal(tc.id)
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(b))
	}
}

func TestRequestIDRoundTripInResponse(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":"x","method":"ping"}`), &req))

	b, err := json.Marshal(Response{JSONRPC: JSONRPCVersion, ID: req.ID, Result: json.RawMessage(`{}`)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":"x","result":{}}`, string(b))
}
