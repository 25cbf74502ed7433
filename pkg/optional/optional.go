// Package optional содержит обёртку для полей частичного обновления,
// которая отличает «поле не передано» от «поле передано с нулевым значением».
package optional

import (
	"bytes"
	"encoding/json"
)

// Value хранит значение и признак его наличия.
// JSON null и отсутствие ключа одинаково означают «не задано».
type Value[T any] struct {
	value T
	set   bool
}

// Of возвращает заданное значение.
func Of[T any](v T) Value[T] {
	return Value[T]{value: v, set: true}
}

// None возвращает пустое значение.
func None[T any]() Value[T] {
	return Value[T]{}
}

// IsSet сообщает, было ли значение передано.
func (v Value[T]) IsSet() bool {
	return v.set
}

// Get возвращает значение и признак наличия.
func (v Value[T]) Get() (T, bool) {
	return v.value, v.set
}

// OrElse возвращает значение либо def, если оно не задано.
func (v Value[T]) OrElse(def T) T {
	if !v.set {
		return def
	}

	return v.value
}

func (v *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Value[T]{}
		return nil
	}

	var val T
	if err := json.Unmarshal(data, &val); err != nil {
		return err
	}

	*v = Of(val)
	return nil
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}

	return json.Marshal(v.value)
}
