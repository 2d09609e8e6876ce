package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilterFromQuery(t *testing.T) {
	values, err := url.ParseQuery("search=станок&filter[status]=New&filter[kind]=Preventive&limit=10&page=3")
	assert.NoError(t, err)

	filter := ParseFilterFromQuery(values)

	assert.Equal(t, "станок", filter.Search)
	assert.Equal(t, "New", filter.Filter["status"])
	assert.Equal(t, "Preventive", filter.Filter["kind"])
	assert.Equal(t, 10, filter.Limit)
	assert.Equal(t, 3, filter.Page)
	assert.Equal(t, 20, filter.Offset)
}

func TestParseFilterDefaults(t *testing.T) {
	filter := ParseFilterFromQuery(url.Values{})

	assert.Equal(t, DefaultLimit, filter.Limit)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 0, filter.Offset)
	assert.Empty(t, filter.Filter)
}

func TestParseFilterLimitCap(t *testing.T) {
	values, _ := url.ParseQuery("limit=100000")
	filter := ParseFilterFromQuery(values)
	assert.Equal(t, MaxLimit, filter.Limit)
}
