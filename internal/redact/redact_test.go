package redact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonkit/internal/parser"
	"github.com/mcncl/jsonkit/internal/value"
)

func parse(t *testing.T, s string) value.Value {
	t.Helper()
	v, err := parser.ParseString(s)
	require.NoError(t, err)
	return v
}

func TestMask_TopLevelMember(t *testing.T) {
	original := parse(t, `{"authPass":"secret"}`)

	masked := Mask(original, Names("authPass"), DefaultPlaceholder)

	assert.Equal(t, `{"authPass":"*****"}`, masked.String())
	assert.Equal(t, `{"authPass":"secret"}`, original.String())
}

func TestMask_Nested(t *testing.T) {
	original := parse(t, `{
		service: 'billing',
		auth: {user: 'svc', token: 't-0'},
		endpoints: [{url: 'a', token: 't-1'}, {url: 'b'}, 'token'],
		token: {nested: 'whole subtree goes'}
	}`)

	masked := Mask(original, Names("token"), "x")

	assert.Equal(t,
		`{"service":"billing","auth":{"user":"svc","token":"x"},"endpoints":[{"url":"a","token":"x"},{"url":"b"},"token"],"token":"x"}`,
		masked.String())
}

func TestMask_PreservesOrderAndKinds(t *testing.T) {
	original := parse(t, `{a: 1, secret: [1, 2], b: null}`)
	masked := Mask(original, Names("secret"), DefaultPlaceholder)

	assert.Equal(t, []string{"a", "secret", "b"}, value.PropertyNames(masked))
	s, err := value.StringValue(value.GetPropertyOr(masked, "secret", nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultPlaceholder, s)
}

func TestMask_NoMatchSharesInput(t *testing.T) {
	original := parse(t, `{a: {b: [1, {c: 2}]}}`)
	masked := Mask(original, Names("zzz"), DefaultPlaceholder)
	assert.Same(t, original, masked)

	assert.Same(t, original, Mask(original, nil, DefaultPlaceholder))
}

func TestMask_Scalars(t *testing.T) {
	for _, v := range []value.Value{value.OfNull(), value.OfString("token"), value.OfNumber(1), value.EmptyArray()} {
		assert.Equal(t, v, Mask(v, Names("token"), DefaultPlaceholder))
	}
}

func TestMatcherFunc(t *testing.T) {
	caseInsensitive := MatcherFunc(func(name string) bool {
		return strings.EqualFold(name, "password")
	})

	masked := Mask(parse(t, `[{Password: 1}, {PASSWORD: 2}, {pass: 3}]`), caseInsensitive, "?")
	assert.Equal(t, `[{"Password":"?"},{"PASSWORD":"?"},{"pass":3}]`, masked.String())
}
