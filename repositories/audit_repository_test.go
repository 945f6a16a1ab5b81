package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRangeQuery(t *testing.T) {
	assert.Nil(t, dateRangeQuery(nil, nil))

	loc := time.UTC
	start := time.Date(2026, 3, 10, 14, 30, 0, 0, loc)
	end := time.Date(2026, 3, 12, 9, 0, 0, 0, loc)

	q := dateRangeQuery(&start, &end)
	require.NotNil(t, q)

	// Times collapse to midnight; the end bound covers the whole end day.
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, loc), q["$gte"])
	assert.Equal(t, time.Date(2026, 3, 13, 0, 0, 0, 0, loc), q["$lt"])
}

func TestDateRangeQuery_OpenEnded(t *testing.T) {
	loc := time.UTC
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)

	q := dateRangeQuery(&start, nil)
	require.NotNil(t, q)
	assert.Contains(t, q, "$gte")
	assert.NotContains(t, q, "$lt")

	q = dateRangeQuery(nil, &start)
	require.NotNil(t, q)
	assert.NotContains(t, q, "$gte")
	assert.Contains(t, q, "$lt")
}

func TestRegexEscape(t *testing.T) {
	assert.Equal(t, "withdraw_approve", regexEscape("withdraw_approve"))
	assert.Equal(t, `a\.b\*c`, regexEscape("a.b*c"))
	assert.Equal(t, `\(x\)\[y\]\{z\}`, regexEscape("(x)[y]{z}"))
}
