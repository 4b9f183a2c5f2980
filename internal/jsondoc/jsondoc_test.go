package jsondoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_KeepsKeyOrder(t *testing.T) {
	v, err := Parse([]byte(`{"zeta": 1, "alpha": {"y": true, "b": null}, "mid": [3, "x"]}`))
	require.NoError(t, err)
	require.Equal(t, KindObject, v.Kind())

	var keys []string
	for _, m := range v.Members() {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)

	alpha, ok := v.Get("alpha")
	require.True(t, ok)
	inner := alpha.Members()
	require.Len(t, inner, 2)
	assert.Equal(t, "y", inner[0].Key)
	assert.Equal(t, KindNull, inner[1].Value.Kind())

	mid, _ := v.Get("mid")
	assert.Equal(t, 2, mid.Len())
	first, _ := mid.Index(0)
	assert.Equal(t, "3", first.NumberLiteral())
}

func TestDecode_NumbersKeepLiteral(t *testing.T) {
	v, err := Parse([]byte(`[1.50, 1e3, -0, 12345678901234567890]`))
	require.NoError(t, err)

	var lits []string
	for _, item := range v.Items() {
		lits = append(lits, Literal(item))
	}
	assert.Equal(t, []string{"1.50", "1e3", "-0", "12345678901234567890"}, lits)
}

func TestDecode_TopLevelNull(t *testing.T) {
	v, err := Parse([]byte(" null "))
	require.NoError(t, err)
	assert.Equal(t, KindNull, v.Kind())
}

func TestDecode_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"whitespace":       " \n\t",
		"trailing":         `{"a":1} {"b":2}`,
		"broken":           `{"a":`,
		"missing comma":    `[1 2]`,
		"missing colon":    `{"a" 1}`,
		"mismatched close": `[}`,
		"wrong close":      `{"a":1]`,
		"members no comma": `{"a":1 "b":2}`,
		"trailing comma":   `[1,2,]`,
		"bare word":        `nope`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid JSON")
		})
	}
}

func TestFormat_PrettyPrintsInOrder(t *testing.T) {
	v := MustParse(`{"b":[1,2],"a":"<x>"}`)

	out, err := Format(v)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": [\n    1,\n    2\n  ],\n  \"a\": \"<x>\"\n}", out)

	compact, err := Compact(v)
	require.NoError(t, err)
	assert.Equal(t, `{"b":[1,2],"a":"<x>"}`, compact)
}

func TestQuote_NoHTMLEscaping(t *testing.T) {
	assert.Equal(t, `"a<b"`, Quote("a<b"))
	assert.Equal(t, `"x & <y>"`, Quote("x & <y>"))
	assert.Equal(t, `"tab\tquote\""`, Quote("tab\tquote\""))

	v := MustParse(`{"a<b":"x & <y>","list":["<>"]}`)
	compact, err := Compact(v)
	require.NoError(t, err)
	assert.Equal(t, `{"a<b":"x & <y>","list":["<>"]}`, compact)

	pretty, err := Format(v)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a<b\": \"x & <y>\",\n  \"list\": [\n    \"<>\"\n  ]\n}", pretty)
}

func TestFormat_EmptyContainers(t *testing.T) {
	out, err := Format(MustParse(`{"o":{},"a":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"o\": {},\n  \"a\": []\n}", out)
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, "null", Literal(Null()))
	assert.Equal(t, "true", Literal(Bool(true)))
	assert.Equal(t, `"a\"b"`, Literal(String(`a"b`)))
	assert.Equal(t, "[]", Literal(Array()))
	assert.Equal(t, "{}", Literal(Object()))
}

func TestFromNative(t *testing.T) {
	v := FromNative(map[string]any{
		"b":    []any{1.5, "x", nil},
		"a":    true,
		"func": func() {},
	})
	require.Equal(t, KindObject, v.Kind())

	members := v.Members()
	require.Len(t, members, 3)
	assert.Equal(t, "a", members[0].Key)
	assert.Equal(t, "b", members[1].Key)
	assert.Equal(t, "func", members[2].Key)
	assert.Equal(t, KindString, members[2].Value.Kind(), "unknown shapes become string leaves")

	b := members[1].Value
	assert.Equal(t, "1.5", b.Items()[0].NumberLiteral())
	assert.Equal(t, KindNull, b.Items()[2].Kind())
}

func TestPath_Notations(t *testing.T) {
	p := Path{}
	assert.Equal(t, "$", p.String())
	assert.Equal(t, ".", p.JQ())

	p = p.Append(KeySegment("users")).Append(IndexSegment(0)).Append(KeySegment("first name"))
	assert.Equal(t, `$.users[0]["first name"]`, p.String())
	assert.Equal(t, `.users[0]["first name"]`, p.JQ())

	assert.Equal(t, `{users,0,"first name"}`, p.PostgreSQLPath())

	p = Path{}.Append(IndexSegment(2))
	assert.Equal(t, "$[2]", p.String())
	assert.Equal(t, ".[2]", p.JQ())
	assert.Equal(t, "{2}", p.PostgreSQLPath())

	assert.Equal(t, "{}", Path{}.PostgreSQLPath())
	assert.Equal(t, `{"a\\\"b",""}`, Path{}.Append(KeySegment(`a\"b`)).Append(KeySegment("")).PostgreSQLPath())
}

func TestValueAt(t *testing.T) {
	v := MustParse(`{"users":[{"name":"ada"}]}`)

	got, err := v.At(Path{}.Append(KeySegment("users")).Append(IndexSegment(0)).Append(KeySegment("name")))
	require.NoError(t, err)
	assert.Equal(t, "ada", got.StringValue())

	_, err = v.At(Path{}.Append(KeySegment("users")).Append(IndexSegment(3)))
	assert.ErrorContains(t, err, "out of bounds")

	_, err = v.At(Path{}.Append(KeySegment("missing")))
	assert.ErrorContains(t, err, "not found")
}

func TestIsJSON(t *testing.T) {
	assert.True(t, IsJSON(` {"a":1} `))
	assert.True(t, IsJSON("42"))
	assert.False(t, IsJSON(""))
	assert.False(t, IsJSON("{nope"))
}

func TestTruncate(t *testing.T) {
	long := `{"key":"` + strings.Repeat("x", 50) + `"}`
	out := Truncate(long, 20)
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.LessOrEqual(t, len(out), 20)
	assert.Equal(t, "short", Truncate("short", 20))
}
