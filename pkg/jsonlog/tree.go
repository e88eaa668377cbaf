package jsonlog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type nodeKind uint8

const (
	kindNull nodeKind = iota
	kindBool
	kindNumber
	kindString
	kindArray
	kindObject
)

// node is a parsed JSON value. Objects keep their members in document order
// so that a sanitized body re-serializes in the order it arrived.
type node struct {
	kind nodeKind
	// text is the string value for kindString and the literal for
	// kindNumber and kindBool.
	text   string
	items  []*node
	fields []field
}

type field struct {
	key   string
	value *node
}

// segment is one piece of a body: a parsed JSON value, or raw text that is
// copied through as-is.
type segment struct {
	value *node
	raw   []byte
}

// jsonSpace is the whitespace allowed between JSON values.
const jsonSpace = " \t\r\n"

// parseValues parses data as a sequence of top-level JSON values, such as an
// NDJSON body. Whitespace between values is kept as raw segments. Parsing
// stops at the first value that fails to parse and the rest of data becomes
// the final raw segment. It fails only when data does not start with a value.
func parseValues(data []byte) ([]segment, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	first, err := decodeNode(dec)
	if err != nil {
		return nil, err
	}
	segments := []segment{{value: first}}

	for {
		rest := data[dec.InputOffset():]
		gap := len(rest) - len(bytes.TrimLeft(rest, jsonSpace))
		if gap == len(rest) {
			return segments, nil
		}
		next, err := decodeNode(dec)
		if err != nil {
			return append(segments, segment{raw: rest}), nil
		}
		segments = append(segments, segment{raw: rest[:gap]}, segment{value: next})
	}
}

func decodeNode(dec *json.Decoder) (*node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", rune(v))
		}
	case string:
		return &node{kind: kindString, text: v}, nil
	case json.Number:
		return &node{kind: kindNumber, text: v.String()}, nil
	case bool:
		if v {
			return &node{kind: kindBool, text: "true"}, nil
		}
		return &node{kind: kindBool, text: "false"}, nil
	case nil:
		return &node{kind: kindNull}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeObject(dec *json.Decoder) (*node, error) {
	n := &node{kind: kindObject}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %T, not string", tok)
		}
		value, err := decodeNode(dec)
		if err != nil {
			return nil, err
		}
		n.fields = append(n.fields, field{key: key, value: value})
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

func decodeArray(dec *json.Decoder) (*node, error) {
	n := &node{kind: kindArray}
	for dec.More() {
		item, err := decodeNode(dec)
		if err != nil {
			return nil, err
		}
		n.items = append(n.items, item)
	}
	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *node) writeTo(buf *bytes.Buffer) error {
	switch n.kind {
	case kindNull:
		buf.WriteString("null")
	case kindBool, kindNumber:
		buf.WriteString(n.text)
	case kindString:
		return writeString(buf, n.text)
	case kindArray:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeTo(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case kindObject:
		buf.WriteByte('{')
		for i, f := range n.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, f.key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := f.value.writeTo(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown node kind %d", n.kind)
	}
	return nil
}

// writeString appends s as a JSON string without HTML escaping.
func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}
