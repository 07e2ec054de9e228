package component

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testProps() *Props {
	return NewProps().
		Set("number", 1).
		Set("array", NewProps().Set("a", "b")).
		Set("quoted_text", `This has "quotes"`).
		Set("null", nil)
}

func TestKebabCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"AComponent", "a-component"},
		{"Foo", "foo"},
		{"foo", "foo"},
		{"fooBar", "foo-bar"},
		{"FooBarBaz", "foo-bar-baz"},
		{"my component", "my-component"},
		{"  spaced   out  Name ", "spaced-out-name"},
		{"HTMLParser", "h-t-m-l-parser"},
		{"foo-bar", "foo-bar"},
		{"Foo-Bar", "foo--bar"},
		{"Widget2", "widget2"},
		{"über widget", "über-widget"},
		{"list ıtem", "listıtem"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, KebabCase(tt.input))
		})
	}
}

func TestComponentTagName(t *testing.T) {
	c := New("AComponent", testProps())

	assert.Equal(t, "AComponent", c.Name())
	assert.Equal(t, "a-component", c.TagName())
}

func TestPropsJSONKeepsInsertionOrder(t *testing.T) {
	c := New("AComponent", testProps())

	raw, err := c.PropsJSON(false)
	require.NoError(t, err)
	assert.Equal(t, `{"number":1,"array":{"a":"b"},"quoted_text":"This has \"quotes\"","null":null}`, raw)
}

func TestPropsJSONEscaped(t *testing.T) {
	c := New("AComponent", testProps())

	escaped, err := c.PropsJSON(true)
	require.NoError(t, err)
	assert.Equal(t,
		`{&quot;number&quot;:1,&quot;array&quot;:{&quot;a&quot;:&quot;b&quot;},&quot;quoted_text&quot;:&quot;This has \&quot;quotes\&quot;&quot;,&quot;null&quot;:null}`,
		escaped)
}

func TestPropsJSONHTMLSafe(t *testing.T) {
	c := New("Foo", NewProps().Set("html", "</script><b>&"))

	raw, err := c.PropsJSON(false)
	require.NoError(t, err)
	assert.Equal(t, `{"html":"\u003c/script\u003e\u003cb\u003e\u0026"}`, raw)
}

func TestPropsJSONUnsupportedValue(t *testing.T) {
	c := New("Foo", NewProps().Set("ch", make(chan int)))

	_, err := c.PropsJSON(false)
	assert.Error(t, err)
}

func TestEmptyProps(t *testing.T) {
	for name, props := range map[string]*Props{"nil": nil, "empty": NewProps()} {
		t.Run(name, func(t *testing.T) {
			c := New("Foo", props)
			assert.False(t, c.HasProps())
			raw, err := c.PropsJSON(false)
			require.NoError(t, err)
			assert.Equal(t, "{}", raw)
		})
	}
}

func TestNewCopiesProps(t *testing.T) {
	props := NewProps().Set("a", 1)
	c := New("Foo", props)

	props.Set("b", 2)

	assert.Equal(t, 1, c.Props().Len())
	assert.Equal(t, 2, props.Len())
}

func TestPropsSetKeepsPosition(t *testing.T) {
	p := NewProps().Set("a", 1).Set("b", 2).Set("a", 3)

	assert.Equal(t, []string{"a", "b"}, p.Keys())
	v, ok := p.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestPropsFromMapSortsKeys(t *testing.T) {
	p := PropsFromMap(map[string]interface{}{"zeta": 1, "alpha": 2, "mid": 3})

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, p.Keys())
}

func TestPropsUnmarshalJSONKeepsOrder(t *testing.T) {
	input := `{"zeta":1,"alpha":{"y":true,"x":[1,{"q":null,"p":"s"}]},"big":12345678901234567890}`

	var p Props
	require.NoError(t, json.Unmarshal([]byte(input), &p))

	assert.Equal(t, []string{"zeta", "alpha", "big"}, p.Keys())

	out, err := json.Marshal(&p)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}

func TestPropsUnmarshalJSONRejectsNonObject(t *testing.T) {
	var p Props
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &p))
	assert.Error(t, json.Unmarshal([]byte(`"str"`), &p))
}

func TestPropsUnmarshalYAMLKeepsOrder(t *testing.T) {
	input := `
title: Hello
count: 3
nested:
  second: b
  first: a
tags: [x, y]
`
	var p Props
	require.NoError(t, yaml.Unmarshal([]byte(input), &p))

	assert.Equal(t, []string{"title", "count", "nested", "tags"}, p.Keys())

	out, err := json.Marshal(&p)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Hello","count":3,"nested":{"second":"b","first":"a"},"tags":["x","y"]}`, string(out))
}

func TestPropsUnmarshalYAMLRejectsSequence(t *testing.T) {
	var p Props
	assert.Error(t, yaml.Unmarshal([]byte("- a\n- b\n"), &p))
}
