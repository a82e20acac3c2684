package mitre

import (
	"bytes"
	"encoding/json"
)

// Record is the part of a CVE JSON 5 record used in a release report.
type Record struct {
	Title    string
	Affected []Affected
}

// Affected describes one product of containers.cna.affected. Only the first
// entry of its versions list is kept.
type Affected struct {
	Product    string
	MinVersion string
	MaxVersion string
}

type cveRecord struct {
	Containers *struct {
		Cna *cna `json:"cna"`
	} `json:"containers"`
}

type cna struct {
	Title    nullableString   `json:"title"`
	Affected *json.RawMessage `json:"affected"`
}

type affected struct {
	Product  nullableString `json:"product"`
	Versions []version      `json:"versions"`
}

type version struct {
	Version  nullableString `json:"version"`
	LessThan nullableString `json:"lessThan"`
}

// nullableString tells a missing field (Value == nil, Null == false) from an
// explicit JSON null.
type nullableString struct {
	Value *string
	Null  bool
}

func (s *nullableString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		s.Null = true
		return nil
	}
	return json.Unmarshal(b, &s.Value)
}

func (s nullableString) or(def string) string {
	if s.Value == nil {
		return def
	}
	return *s.Value
}
