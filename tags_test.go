package slacklog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUnion(t *testing.T) {
	got := Normalize(TagList{"a", "b"}, []string{"b", "c"})
	assert.Equal(t, TagList{"a", "b", "c"}, got)
}

func TestNormalizeMappingForm(t *testing.T) {
	got := Normalize(TagMap{"a": true, "b": false, "c": true}, nil)
	assert.Equal(t, TagList{"a", "c"}, got)
}

func TestNormalizeEmptyInputs(t *testing.T) {
	assert.Equal(t, TagList{}, Normalize(nil, nil))
	assert.Equal(t, TagList{}, Normalize(TagList{}, nil))
	assert.Equal(t, TagList{"svc"}, Normalize(nil, []string{"svc"}))
}

func TestNormalizeCollapsesDuplicates(t *testing.T) {
	got := Normalize(TagList{"a", "a", "b"}, []string{"a"})
	assert.Equal(t, TagList{"a", "b"}, got)
}

func TestNormalizeIsCaseSensitive(t *testing.T) {
	got := Normalize(TagList{"Error"}, []string{"error"})
	assert.Equal(t, TagList{"Error", "error"}, got)
}

func TestTagListIntersects(t *testing.T) {
	tags := TagList{"error", "db"}

	assert.True(t, tags.Intersects([]string{"error"}))
	assert.True(t, tags.Intersects([]string{"warning", "db"}))
	assert.False(t, tags.Intersects([]string{"warning"}))
	assert.False(t, tags.Intersects(nil))
}

func TestTagListJoin(t *testing.T) {
	assert.Equal(t, "error, svc", TagList{"error", "svc"}.Join(", "))
	assert.Equal(t, "", TagList{}.Join(", "))
}
