package repositories

import (
	"database/sql"
	"encoding/json"
	"strings"
)

// decodeStringList reads a JSON array column. NULL and blank values decode
// to an empty list.
func decodeStringList(raw sql.NullString) ([]string, error) {
	if !raw.Valid {
		return []string{}, nil
	}

	data := strings.TrimSpace(raw.String)
	if data == "" {
		return []string{}, nil
	}

	var out []string
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func encodeStringList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
