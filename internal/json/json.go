// Package json is a drop-in for encoding/json backed by json-iterator.
package json

import (
	stdjson "encoding/json"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// strict matches object keys exactly and decodes numbers held in interface
// values as Number, keeping every digit.
var strict = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
	CaseSensitive:          true,
}.Froze()

var (
	Marshal    = json.Marshal
	Unmarshal  = json.Unmarshal
	NewDecoder = json.NewDecoder
	NewEncoder = json.NewEncoder
	Valid      = json.Valid

	UnmarshalStrict = strict.Unmarshal
)

type (
	RawMessage = jsoniter.RawMessage
	Number     = stdjson.Number
)
