package filter

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/search?filters%5Bcolor%5D=red&filters%5Bsize%5D=xl&filters%5Bcolor%5D=blue", nil)

	filters := FromRequest(r)

	require.Len(t, filters, 2)
	assert.Equal(t, Filter{Name: "color", Values: []string{"red", "blue"}}, filters[0])
	assert.Equal(t, Filter{Name: "size", Values: []string{"xl"}}, filters[1])
}

func TestFromRequestArraySyntax(t *testing.T) {
	r := httptest.NewRequest("GET", "/search?filters%5Bcolor%5D%5B%5D=red", nil)

	filters := FromRequest(r)

	require.Len(t, filters, 1)
	assert.Equal(t, "color", filters[0].Name)
}

func TestFromRequestIgnoresOtherParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/search?q=mug&page=2&filters%5B%5D=x&filters=y", nil)

	assert.Nil(t, FromRequest(r))
}

func TestFromRequestSkipsEmptyValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/search?filters%5Bcolor%5D=", nil)

	assert.Nil(t, FromRequest(r))
}

func TestContextRoundTrip(t *testing.T) {
	filters := []Filter{{Name: "color", Values: []string{"red"}}}
	ctx := WithFilters(context.Background(), filters)

	assert.Equal(t, filters, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
}

func TestSelected(t *testing.T) {
	filters := []Filter{
		{Name: "color", Values: []string{"red", "blue"}},
		{Name: "size", Values: []string{"xl"}},
	}

	assert.True(t, Selected(filters, "color", "blue"))
	assert.False(t, Selected(filters, "color", "green"))
	assert.False(t, Selected(filters, "material", "wood"))
	assert.False(t, Selected(nil, "color", "red"))
}
