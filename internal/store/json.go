package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON stores a value in a TEXT column.
type JSON[T any] struct {
	Val T
}

func (j JSON[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.Val)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j *JSON[T]) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		var zero T
		j.Val = zero
		return nil
	case string:
		return json.Unmarshal([]byte(v), &j.Val)
	case []byte:
		return json.Unmarshal(v, &j.Val)
	default:
		return fmt.Errorf("cannot scan %T into a JSON column", src)
	}
}
