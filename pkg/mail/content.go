package mail

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

const binaryTag = "!!binary"

// Content is attachment data. It decodes from either text or binary forms:
//
//   - a plain string is taken as the raw bytes
//   - {"base64": "..."} is decoded from standard base64
//   - {"type": "Buffer", "data": [...]} is read byte by byte
//   - in YAML, a !!binary scalar is decoded from base64
//
// Valid UTF-8 content encodes back to a plain string, anything else to the
// base64 form, so a request survives an encode/decode cycle unchanged.
type Content []byte

// contentObject is the object form of Content.
type contentObject struct {
	Base64 *string `json:"base64,omitempty" yaml:"base64,omitempty"`
	Type   string  `json:"type,omitempty" yaml:"type,omitempty"`
	Data   []int   `json:"data,omitempty" yaml:"data,omitempty"`
}

func (o contentObject) bytes() (Content, error) {
	switch {
	case o.Base64 != nil:
		b, err := base64.StdEncoding.DecodeString(*o.Base64)
		if err != nil {
			return nil, fmt.Errorf("content: invalid base64: %w", err)
		}
		return Content(b), nil
	case o.Type == "Buffer":
		b := make([]byte, len(o.Data))
		for i, v := range o.Data {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("content: byte %d out of range: %d", i, v)
			}
			b[i] = byte(v)
		}
		return Content(b), nil
	default:
		return nil, fmt.Errorf("content: object needs either base64 or type Buffer")
	}
}

func (c Content) object() contentObject {
	s := base64.StdEncoding.EncodeToString(c)
	return contentObject{Base64: &s}
}

// MarshalJSON implements json.Marshaler.
func (c Content) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	if utf8.Valid(c) {
		return json.Marshal(string(c))
	}
	return json.Marshal(c.object())
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Content(s)
		return nil
	}

	var o contentObject
	if err := json.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	b, err := o.bytes()
	if err != nil {
		return err
	}
	*c = b
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Content) MarshalYAML() (any, error) {
	if c == nil {
		return nil, nil
	}
	if utf8.Valid(c) {
		return string(c), nil
	}
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   binaryTag,
		Value: base64.StdEncoding.EncodeToString(c),
	}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Content) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			*c = nil
		case binaryTag:
			b, err := base64.StdEncoding.DecodeString(node.Value)
			if err != nil {
				return fmt.Errorf("content: invalid !!binary at line %d: %w", node.Line, err)
			}
			*c = Content(b)
		default:
			*c = Content(node.Value)
		}
		return nil
	case yaml.MappingNode:
		var o contentObject
		if err := node.Decode(&o); err != nil {
			return err
		}
		b, err := o.bytes()
		if err != nil {
			return err
		}
		*c = b
		return nil
	default:
		return fmt.Errorf("content: unsupported yaml node at line %d", node.Line)
	}
}
