// Package models defines flattened report records and inferred
// columns.
package models

import (
	"bytes"
	"encoding/json"
)

// Context keys every record carries ahead of its row data.
const (
	KeyCompany    = "company"
	KeyProject    = "project"
	KeySupervisor = "supervisor"
	KeyExcel      = "excel"
	KeySheetName  = "sheetName"
)

// ContextKeys lists the context keys in record order.
var ContextKeys = []string{KeyCompany, KeyProject, KeySupervisor, KeyExcel, KeySheetName}

// Record is one flattened report row of display strings. Keys keep the
// order they were first set in and JSON output follows that order.
type Record struct {
	keys   []string
	values map[string]string
}

func NewRecord() *Record {
	return &Record{values: map[string]string{}}
}

// Set stores value under key, appending key on first use.
func (r *Record) Set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Get returns the value of key, or "" when unset.
func (r *Record) Get(key string) string {
	return r.values[key]
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

func (r *Record) Len() int {
	return len(r.keys)
}

func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
