package component

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Props is a prop bag that remembers insertion order. Its JSON form lists
// keys in that order, which keeps rendered output byte-stable.
//
// A nil *Props behaves as an empty bag.
type Props struct {
	keys   []string
	values map[string]interface{}
}

// NewProps creates an empty prop bag.
func NewProps() *Props {
	return &Props{values: make(map[string]interface{})}
}

// PropsFromMap builds a prop bag from m. Go maps carry no order, so keys
// are inserted in sorted order.
func PropsFromMap(m map[string]interface{}) *Props {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := NewProps()
	for _, k := range keys {
		p.Set(k, m[k])
	}
	return p
}

// Set inserts or replaces key. Replacing keeps the key's original position.
func (p *Props) Set(key string, value interface{}) *Props {
	if p.values == nil {
		p.values = make(map[string]interface{})
	}
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
	return p
}

// Get returns the value stored under key.
func (p *Props) Get(key string) (interface{}, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[key]
	return v, ok
}

// Len returns the number of props.
func (p *Props) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the keys in insertion order.
func (p *Props) Keys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, len(p.keys))
	copy(keys, p.keys)
	return keys
}

// Clone returns a shallow copy.
func (p *Props) Clone() *Props {
	c := NewProps()
	if p == nil {
		return c
	}
	for _, k := range p.keys {
		c.Set(k, p.values[k])
	}
	return c
}

// MarshalJSON encodes the props as a JSON object in insertion order.
func (p *Props) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if p != nil {
		for i, k := range p.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')

			value, err := json.Marshal(p.values[k])
			if err != nil {
				return nil, fmt.Errorf("prop %q: %w", k, err)
			}
			buf.Write(value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order at every level.
// Nested objects become *Props and numbers stay json.Number.
func (p *Props) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("props must be a JSON object, got %v", tok)
	}

	decoded, err := decodeJSONObject(dec)
	if err != nil {
		return err
	}
	*p = *decoded
	return nil
}

func decodeJSONObject(dec *json.Decoder) (*Props, error) {
	p := NewProps()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		value, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		p.Set(key, value)
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeJSONValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		return decodeJSONObject(dec)
	case '[':
		items := make([]interface{}, 0)
		for dec.More() {
			item, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}

// UnmarshalYAML decodes a YAML mapping, keeping key order at every level.
func (p *Props) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("props must be a YAML mapping (line %d)", node.Line)
	}

	decoded, err := decodeYAMLMapping(node)
	if err != nil {
		return err
	}
	*p = *decoded
	return nil
}

func decodeYAMLMapping(node *yaml.Node) (*Props, error) {
	p := NewProps()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value, err := decodeYAMLValue(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("prop %q: %w", key, err)
		}
		p.Set(key, value)
	}
	return p, nil
}

func decodeYAMLValue(node *yaml.Node) (interface{}, error) {
	switch node.Kind {
	case yaml.MappingNode:
		return decodeYAMLMapping(node)
	case yaml.SequenceNode:
		items := make([]interface{}, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := decodeYAMLValue(child)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case yaml.AliasNode:
		return decodeYAMLValue(node.Alias)
	default:
		var v interface{}
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}
