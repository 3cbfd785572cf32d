package doclai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Member is one key/value pair of a mapping.
type Member struct {
	Key   string
	Value Value
}

// Value is a node of a JSON-compatible document tree.
//
// Exactly one variant is meaningful, selected by Kind. Mappings keep their
// members in insertion order and numbers keep their literal text, so a
// decoded document re-encodes to the same shape it was read from.
type Value struct {
	kind    Kind
	boolean bool
	number  json.Number
	text    string
	items   []Value
	members []Member
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Number returns a number value holding the literal n.
func Number(n json.Number) Value { return Value{kind: KindNumber, number: n} }

// Int returns a number value for i.
func Int(i int64) Value { return Number(json.Number(strconv.FormatInt(i, 10))) }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Sequence returns a sequence holding items in order.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, items: append([]Value(nil), items...)}
}

// Mapping returns a mapping holding members in order.
func Mapping(members ...Member) Value {
	return Value{kind: KindMapping, members: append([]Member(nil), members...)}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v and whether v is a boolean.
func (v Value) AsBool() (bool, bool) { return v.boolean, v.kind == KindBool }

// AsNumber returns the number literal held by v and whether v is a number.
func (v Value) AsNumber() (json.Number, bool) { return v.number, v.kind == KindNumber }

// AsString returns the string held by v and whether v is a string.
func (v Value) AsString() (string, bool) { return v.text, v.kind == KindString }

// Items returns the elements of a sequence. The slice must not be modified.
func (v Value) Items() []Value { return v.items }

// Members returns the members of a mapping in order. The slice must not be modified.
func (v Value) Members() []Member { return v.members }

// Len returns the number of elements of a sequence or members of a mapping.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return len(v.members)
	}
	return 0
}

// Get returns the value stored under key in a mapping.
func (v Value) Get(key string) (Value, bool) {
	if i := v.indexOf(key); i >= 0 {
		return v.members[i].Value, true
	}
	return Value{}, false
}

func (v Value) indexOf(key string) int {
	if v.kind != KindMapping {
		return -1
	}
	for i := range v.members {
		if v.members[i].Key == key {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of v sharing no slices with it.
func (v Value) Clone() Value {
	out := v
	switch v.kind {
	case KindSequence:
		out.items = make([]Value, len(v.items))
		for i := range v.items {
			out.items[i] = v.items[i].Clone()
		}
	case KindMapping:
		out.members = make([]Member, len(v.members))
		for i, m := range v.members {
			out.members[i] = Member{Key: m.Key, Value: m.Value.Clone()}
		}
	}
	return out
}

// Equal reports whether v and o have the same shape, key order and leaf values.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolean == o.boolean
	case KindNumber:
		return v.number == o.number
	case KindString:
		return v.text == o.text
	case KindSequence:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.members) != len(o.members) {
			return false
		}
		for i := range v.members {
			if v.members[i].Key != o.members[i].Key || !v.members[i].Value.Equal(o.members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// At returns a pointer to the node addressed by addr inside v.
// It never creates structure; a segment that does not resolve is an AddressError.
func (v *Value) At(addr Address) (*Value, error) {
	cur := v
	for i, seg := range addr {
		switch {
		case seg.IsIndex():
			if cur.kind != KindSequence || seg.Index < 0 || seg.Index >= len(cur.items) {
				return nil, &AddressError{Address: addr, Depth: i}
			}
			cur = &cur.items[seg.Index]
		default:
			j := cur.indexOf(seg.Key)
			if j < 0 {
				return nil, &AddressError{Address: addr, Depth: i}
			}
			cur = &cur.members[j].Value
		}
	}
	return cur, nil
}

// MarshalJSON encodes v with mapping keys in insertion order.
// HTML characters are written as-is rather than \u-escaped.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.boolean))
	case KindNumber:
		if v.number == "" {
			buf.WriteString("0")
		} else {
			buf.WriteString(v.number.String())
		}
	case KindString:
		return encodeString(buf, v.text)
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMapping:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode value of %s", v.kind)
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// UnmarshalJSON decodes data into v, keeping mapping keys in document order.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseJSON decodes a single JSON document into a Value.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{kind: KindSequence, items: items}, nil
		case '{':
			out := Value{kind: KindMapping, members: []Member{}}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("unexpected object key %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				out.set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return out, nil
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

// set stores val under key, replacing an existing member in place.
func (v *Value) set(key string, val Value) {
	if i := v.indexOf(key); i >= 0 {
		v.members[i].Value = val
		return
	}
	v.members = append(v.members, Member{Key: key, Value: val})
}

// FromGo converts plain Go data (as produced by encoding/json into any) to a Value.
// Go maps have no order, so their keys are sorted.
func FromGo(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t.Clone(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case int32:
		return Int(int64(t)), nil
	case float64:
		return Number(json.Number(strconv.FormatFloat(t, 'g', -1, 64))), nil
	case float32:
		return Number(json.Number(strconv.FormatFloat(float64(t), 'g', -1, 32))), nil
	case []string:
		items := make([]Value, len(t))
		for i, s := range t {
			items[i] = String(s)
		}
		return Value{kind: KindSequence, items: items}, nil
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			item, err := FromGo(e)
			if err != nil {
				return Value{}, err
			}
			items[i] = item
		}
		return Value{kind: KindSequence, items: items}, nil
	case map[string]string:
		keys := sortedKeys(t)
		members := make([]Member, len(keys))
		for i, k := range keys {
			members[i] = Member{Key: k, Value: String(t[k])}
		}
		return Value{kind: KindMapping, members: members}, nil
	case map[string]any:
		keys := sortedKeys(t)
		members := make([]Member, len(keys))
		for i, k := range keys {
			val, err := FromGo(t[k])
			if err != nil {
				return Value{}, err
			}
			members[i] = Member{Key: k, Value: val}
		}
		return Value{kind: KindMapping, members: members}, nil
	}
	return Value{}, fmt.Errorf("unsupported Go type %T", x)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
