package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// The column types below serialize to JSON text so the same entities work on
// both the sqlite and postgres drivers.

func scanBytes(value interface{}) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New(fmt.Sprint("failed to unmarshal JSON value:", value))
	}
}

// JSON is a free-form object column, used for message metadata.
type JSON map[string]interface{}

func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSON) Scan(value interface{}) error {
	bytes, err := scanBytes(value)
	if err != nil {
		return err
	}
	if bytes == nil {
		*j = nil
		return nil
	}
	result := map[string]interface{}{}
	err = json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// StringSlice is an ordered list of strings stored as a JSON array.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	return json.Marshal([]string(s))
}

func (s *StringSlice) Scan(value interface{}) error {
	bytes, err := scanBytes(value)
	if err != nil {
		return err
	}
	if bytes == nil {
		*s = nil
		return nil
	}
	return json.Unmarshal(bytes, (*[]string)(s))
}

// Int64Slice is an ordered list of user ids stored as a JSON array.
type Int64Slice []int64

func (s Int64Slice) Value() (driver.Value, error) {
	return json.Marshal([]int64(s))
}

func (s *Int64Slice) Scan(value interface{}) error {
	bytes, err := scanBytes(value)
	if err != nil {
		return err
	}
	if bytes == nil {
		*s = nil
		return nil
	}
	return json.Unmarshal(bytes, (*[]int64)(s))
}

func (s Int64Slice) Contains(id int64) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Int64Set is a grow-only set of user ids stored as a JSON array. Used for
// message read receipts: ids are added, never removed.
type Int64Set []int64

func (s Int64Set) Value() (driver.Value, error) {
	return json.Marshal([]int64(s))
}

func (s *Int64Set) Scan(value interface{}) error {
	bytes, err := scanBytes(value)
	if err != nil {
		return err
	}
	if bytes == nil {
		*s = nil
		return nil
	}
	return json.Unmarshal(bytes, (*[]int64)(s))
}

func (s Int64Set) Contains(id int64) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Add returns the set with id included. Adding an existing id is a no-op.
func (s Int64Set) Add(id int64) Int64Set {
	if s.Contains(id) {
		return s
	}
	return append(s, id)
}

// CountMap maps a user id to a non-negative counter, stored as a JSON object.
type CountMap map[int64]int

func (m CountMap) Value() (driver.Value, error) {
	if m == nil {
		m = CountMap{}
	}
	return json.Marshal(map[int64]int(m))
}

func (m *CountMap) Scan(value interface{}) error {
	bytes, err := scanBytes(value)
	if err != nil {
		return err
	}
	if bytes == nil {
		*m = CountMap{}
		return nil
	}
	result := map[int64]int{}
	err = json.Unmarshal(bytes, &result)
	*m = CountMap(result)
	return err
}

// BoolMap maps a goal key to its completion state, stored as a JSON object.
type BoolMap map[string]bool

func (m BoolMap) Value() (driver.Value, error) {
	if m == nil {
		m = BoolMap{}
	}
	return json.Marshal(map[string]bool(m))
}

func (m *BoolMap) Scan(value interface{}) error {
	bytes, err := scanBytes(value)
	if err != nil {
		return err
	}
	if bytes == nil {
		*m = BoolMap{}
		return nil
	}
	result := map[string]bool{}
	err = json.Unmarshal(bytes, &result)
	*m = BoolMap(result)
	return err
}
