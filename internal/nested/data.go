package nested

import (
	"encoding/json"
	"fmt"
	"strings"
)

// field is a single keyed entry. Exactly one of Value or Child is meaningful:
// a non-nil Child marks the entry as an element.
type field struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
	Child *Data  `json:"child,omitempty"`
}

// Data is an ordered collection of scalar and element entries.
type Data struct {
	fields []field
}

// New creates a Data from alternating key/value pairs. A trailing key without
// a value is ignored.
func New(pairs ...string) *Data {
	d := &Data{}
	for i := 0; i+1 < len(pairs); i += 2 {
		d.Add(pairs[i], pairs[i+1])
	}
	return d
}

// Find returns the first scalar entry stored under key, or "" when absent.
func (d *Data) Find(key string) string {
	return d.FindOr(key, "")
}

// FindOr returns the first scalar entry stored under key, or def when absent.
func (d *Data) FindOr(key, def string) string {
	if d == nil {
		return def
	}
	for _, f := range d.fields {
		if f.Key == key && f.Child == nil {
			return f.Value
		}
	}
	return def
}

// Has reports whether any entry, scalar or element, is stored under key.
func (d *Data) Has(key string) bool {
	if d == nil {
		return false
	}
	for _, f := range d.fields {
		if f.Key == key {
			return true
		}
	}
	return false
}

// FindAll returns every element stored under key in document order.
func (d *Data) FindAll(key string) []*Data {
	if d == nil {
		return nil
	}
	var out []*Data
	for _, f := range d.fields {
		if f.Key == key && f.Child != nil {
			out = append(out, f.Child)
		}
	}
	return out
}

// FindValues returns every scalar stored under key in document order.
func (d *Data) FindValues(key string) []string {
	if d == nil {
		return nil
	}
	var out []string
	for _, f := range d.fields {
		if f.Key == key && f.Child == nil {
			out = append(out, f.Value)
		}
	}
	return out
}

// Child returns the first element stored under key, or nil.
func (d *Data) Child(key string) *Data {
	if all := d.FindAll(key); len(all) > 0 {
		return all[0]
	}
	return nil
}

// Count returns how many entries of any kind are stored under key.
func (d *Data) Count(key string) int {
	if d == nil {
		return 0
	}
	n := 0
	for _, f := range d.fields {
		if f.Key == key {
			n++
		}
	}
	return n
}

// Keys returns the distinct keys in order of first appearance.
func (d *Data) Keys() []string {
	if d == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var keys []string
	for _, f := range d.fields {
		if _, ok := seen[f.Key]; ok {
			continue
		}
		seen[f.Key] = struct{}{}
		keys = append(keys, f.Key)
	}
	return keys
}

// Add appends a scalar entry.
func (d *Data) Add(key, value string) *Data {
	d.fields = append(d.fields, field{Key: key, Value: value})
	return d
}

// AddChild appends an element entry. A nil child is stored as an empty element.
func (d *Data) AddChild(key string, child *Data) *Data {
	if child == nil {
		child = &Data{}
	}
	d.fields = append(d.fields, field{Key: key, Child: child})
	return d
}

// Set replaces the scalar entries under key with a single value. The value
// takes the position of the first existing scalar, or is appended.
func (d *Data) Set(key, value string) *Data {
	out := d.fields[:0:0]
	placed := false
	for _, f := range d.fields {
		if f.Key == key && f.Child == nil {
			if !placed {
				out = append(out, field{Key: key, Value: value})
				placed = true
			}
			continue
		}
		out = append(out, f)
	}
	if !placed {
		out = append(out, field{Key: key, Value: value})
	}
	d.fields = out
	return d
}

// Delete removes every entry stored under key.
func (d *Data) Delete(key string) *Data {
	out := d.fields[:0:0]
	for _, f := range d.fields {
		if f.Key != key {
			out = append(out, f)
		}
	}
	d.fields = out
	return d
}

// Len returns the number of entries.
func (d *Data) Len() int {
	if d == nil {
		return 0
	}
	return len(d.fields)
}

// Clone returns a deep copy.
func (d *Data) Clone() *Data {
	if d == nil {
		return nil
	}
	c := &Data{fields: make([]field, len(d.fields))}
	for i, f := range d.fields {
		c.fields[i] = field{Key: f.Key, Value: f.Value, Child: f.Child.Clone()}
	}
	return c
}

// Equal reports whether two values hold the same entries in the same order.
func (d *Data) Equal(o *Data) bool {
	if d.Len() != o.Len() {
		return false
	}
	for i := 0; i < d.Len(); i++ {
		a, b := d.fields[i], o.fields[i]
		if a.Key != b.Key || a.Value != b.Value || (a.Child == nil) != (b.Child == nil) {
			return false
		}
		if a.Child != nil && !a.Child.Equal(b.Child) {
			return false
		}
	}
	return true
}

// String renders the data in a compact, human-readable form for logs and
// test failure messages.
func (d *Data) String() string {
	var sb strings.Builder
	d.write(&sb)
	return sb.String()
}

func (d *Data) write(sb *strings.Builder) {
	sb.WriteByte('{')
	for i, f := range d.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Key)
		sb.WriteString(": ")
		if f.Child != nil {
			f.Child.write(sb)
		} else {
			fmt.Fprintf(sb, "%q", f.Value)
		}
	}
	sb.WriteByte('}')
}

// MarshalJSON encodes the entries as an ordered JSON array.
func (d *Data) MarshalJSON() ([]byte, error) {
	if d.fields == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d.fields)
}

// UnmarshalJSON decodes the ordered JSON array written by MarshalJSON.
func (d *Data) UnmarshalJSON(b []byte) error {
	var fields []field
	if err := json.Unmarshal(b, &fields); err != nil {
		return fmt.Errorf("nested: %w", err)
	}
	d.fields = fields
	return nil
}
