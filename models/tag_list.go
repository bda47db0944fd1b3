package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// legacyTagSeparator joins tags in rows written before tags were stored as JSON.
const legacyTagSeparator = ","

// TagList is an ordered list of tags stored as a JSON array in one text column.
type TagList []string

// Value implements driver.Valuer.
func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		t = TagList{}
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner. Values that are not a JSON array are read as
// comma-joined legacy rows.
func (t *TagList) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*t = TagList{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("tag list: unsupported column type %T", src)
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		*t = TagList{}
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var tags []string
		if err := json.Unmarshal([]byte(trimmed), &tags); err == nil {
			*t = TagList(tags)
			return nil
		}
	}
	*t = TagList(strings.Split(raw, legacyTagSeparator))
	return nil
}

// MarshalJSON always emits an array, never null.
func (t TagList) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}
