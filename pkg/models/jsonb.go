package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringList is a jsonb-backed string slice
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("unsupported type for StringList")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, l)
}

func (StringList) GormDataType() string {
	return "jsonb"
}

// Contains reports whether the list holds the given value
func (l StringList) Contains(v string) bool {
	for _, s := range l {
		if s == v {
			return true
		}
	}
	return false
}

// AttributeBag is a jsonb-backed map for channel-specific extension data
// (ASIN, MLB item id, Shopify handle and similar adapter-owned fields)
type AttributeBag map[string]string

func (b AttributeBag) Value() (driver.Value, error) {
	if b == nil {
		b = AttributeBag{}
	}
	return json.Marshal(b)
}

func (b *AttributeBag) Scan(value interface{}) error {
	if value == nil {
		*b = AttributeBag{}
		return nil
	}
	raw, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("unsupported type for AttributeBag")
		}
		raw = []byte(s)
	}
	return json.Unmarshal(raw, b)
}

func (AttributeBag) GormDataType() string {
	return "jsonb"
}
