package repository

import (
	"database/sql"
	"encoding/json"
)

// MySQL JSON columns come back as []byte; these helpers keep the
// (de)serialisation in one place so every repository treats NULL and
// empty arrays alike.

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// encodeNullableJSON stores a nil pointer or nil slice as SQL NULL.
func encodeNullableJSON(v any, isNil bool) (sql.NullString, error) {
	if isNil {
		return sql.NullString{}, nil
	}
	s, err := encodeJSON(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: s, Valid: true}, nil
}

func decodeJSON(raw []byte, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// stringsOrEmpty and idsOrEmpty make sure a column never holds JSON null.
func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func idsOrEmpty(s []int64) []int64 {
	if s == nil {
		return []int64{}
	}
	return s
}
