package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQuery_Normalize(t *testing.T) {
	q := ListQuery{}.Normalize()
	assert.Equal(t, int64(DefaultPageSize), q.Limit)
	assert.Equal(t, "createdAt", q.SortField)
	assert.True(t, q.SortDesc)

	q = ListQuery{Limit: 5000, Offset: -3, SortField: "name"}.Normalize()
	assert.Equal(t, int64(MaxPageSize), q.Limit)
	assert.Equal(t, int64(0), q.Offset)
	assert.Equal(t, "name", q.SortField)
	assert.False(t, q.SortDesc)
}
