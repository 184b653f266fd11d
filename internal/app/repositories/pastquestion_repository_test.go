package repositories

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListQueryAllOwners(t *testing.T) {
	r := NewPastQuestionRepository(nil)

	query, args, err := r.buildListQuery(nil)
	require.NoError(t, err)

	assert.Contains(t, query, "FROM past_questions pq")
	assert.Contains(t, query, "LEFT JOIN users u ON u.id = pq.teacher_id")
	assert.Contains(t, query, "pq.needs_cleanup = $1")
	assert.True(t, strings.HasSuffix(query, "ORDER BY pq.created_at DESC, pq.id DESC"), query)
	assert.NotContains(t, query, "teacher_id =")
	assert.Equal(t, []interface{}{false}, args)
}

func TestBuildListQueryScopedToOwner(t *testing.T) {
	r := NewPastQuestionRepository(nil)
	owner := "5f0c7a4e-3b1d-4c55-9a0e-1c2d3e4f5a6b"

	query, args, err := r.buildListQuery(&owner)
	require.NoError(t, err)

	assert.Contains(t, query, "pq.teacher_id = $2")
	assert.Equal(t, []interface{}{false, owner}, args)
}
