package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/changhyun152521/tbc-sub001/models"
)

func uintPtr(v uint) *uint { return &v }

func classes(ids ...uint) []models.ClassGroup {
	out := make([]models.ClassGroup, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.ClassGroup{ID: id})
	}
	return out
}

func TestResolveNoMemberships(t *testing.T) {
	got := resolveFrom(models.Student{ID: 1}, nil, nil)
	assert.Nil(t, got)

	got = resolveFrom(models.Student{ID: 1}, nil, uintPtr(3))
	assert.Nil(t, got)
}

func TestResolvePreferredHonoredWhenMember(t *testing.T) {
	got := resolveFrom(models.Student{ID: 1}, classes(2, 5, 9), uintPtr(5))
	require.NotNil(t, got)
	assert.Equal(t, uint(5), got.ID)
}

func TestResolvePreferredIgnoredWhenNotMember(t *testing.T) {
	student := models.Student{ID: 1, PrimaryClassID: uintPtr(9)}
	got := resolveFrom(student, classes(2, 9), uintPtr(77))
	require.NotNil(t, got)
	// falls through to the primary class, not the bogus preference
	assert.Equal(t, uint(9), got.ID)
}

func TestResolvePrimaryClassWins(t *testing.T) {
	student := models.Student{ID: 1, PrimaryClassID: uintPtr(5)}
	got := resolveFrom(student, classes(2, 5, 9), nil)
	require.NotNil(t, got)
	assert.Equal(t, uint(5), got.ID)
}

func TestResolveStalePrimaryFallsBack(t *testing.T) {
	// primary points at a class the student no longer belongs to
	student := models.Student{ID: 1, PrimaryClassID: uintPtr(50)}
	got := resolveFrom(student, classes(2, 9), nil)
	require.NotNil(t, got)
	assert.Equal(t, uint(2), got.ID)
}

func TestResolveDefaultIsLowestClassID(t *testing.T) {
	got := resolveFrom(models.Student{ID: 1}, classes(3, 8), nil)
	require.NotNil(t, got)
	assert.Equal(t, uint(3), got.ID)
}
