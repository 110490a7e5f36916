// Package document converts JSON documents to and from stripper.Value so
// that key order and number formatting survive a sanitize round trip.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aleister1102/urlstripper/internal/common"
	"github.com/aleister1102/urlstripper/internal/stripper"
	"github.com/tidwall/gjson"
)

var bufferPool = common.NewBufferPool(4<<10, 1<<20)

// ErrInvalidJSON is returned for input that is not a single JSON value.
var ErrInvalidJSON = errors.New("invalid JSON document")

// ParseJSON decodes data into a Value tree. Objects become Maps in document
// order (duplicate keys are kept), arrays become Sequences, strings become
// Text. Numbers, booleans and null become Opaque values holding their raw
// JSON token, so they are written back byte for byte.
func ParseJSON(data []byte) (stripper.Value, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) stripper.Value {
	switch {
	case r.IsObject():
		m := stripper.Map{}
		r.ForEach(func(key, value gjson.Result) bool {
			m = append(m, stripper.Entry{Key: key.String(), Value: fromResult(value)})
			return true
		})
		return m
	case r.IsArray():
		seq := stripper.Sequence{}
		r.ForEach(func(_, value gjson.Result) bool {
			seq = append(seq, fromResult(value))
			return true
		})
		return seq
	case r.Type == gjson.String:
		return stripper.Text(r.String())
	default:
		return stripper.Opaque{V: json.RawMessage(r.Raw)}
	}
}

// EncodeJSON writes v as compact JSON. HTML characters in strings are not
// escaped so that markup stays readable.
func EncodeJSON(v stripper.Value) ([]byte, error) {
	buf := bufferPool.Get()
	defer bufferPool.Put(buf)

	if err := encode(buf, v); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

// EncodeJSONIndent is EncodeJSON with indentation.
func EncodeJSONIndent(v stripper.Value, indent string) ([]byte, error) {
	compact, err := EncodeJSON(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", indent); err != nil {
		return nil, fmt.Errorf("failed to indent JSON: %w", err)
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v stripper.Value) error {
	switch tv := v.(type) {
	case nil:
		buf.WriteString("null")
	case stripper.Text:
		return encodeScalar(buf, string(tv))
	case stripper.Sequence:
		buf.WriteByte('[')
		for i, item := range tv {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case stripper.Map:
		buf.WriteByte('{')
		for i, e := range tv {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeScalar(buf, e.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encode(buf, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case stripper.Opaque:
		if raw, ok := tv.V.(json.RawMessage); ok {
			buf.Write(raw)
			return nil
		}
		return encodeScalar(buf, tv.V)
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
	return nil
}

func encodeScalar(buf *bytes.Buffer, v any) error {
	tmp := bufferPool.Get()
	defer bufferPool.Put(tmp)

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %T: %w", v, err)
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
