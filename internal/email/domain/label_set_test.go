package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelSetWithAndWithout(t *testing.T) {
	s := LabelSet{"inbox"}

	s = s.With("starred")
	assert.Equal(t, LabelSet{"inbox", "starred"}, s)

	s = s.With("starred")
	assert.Equal(t, LabelSet{"inbox", "starred"}, s, "With must not duplicate")

	s = s.Without("inbox")
	assert.Equal(t, LabelSet{"starred"}, s)

	s = s.Without("missing")
	assert.Equal(t, LabelSet{"starred"}, s)
}

func TestLabelSetUnionKeepsLocalOnly(t *testing.T) {
	local := LabelSet{"inbox", "project-x"}
	remote := LabelSet{"inbox", "starred"}

	assert.Equal(t, LabelSet{"inbox", "project-x", "starred"}, local.Union(remote))
}

func TestLabelSetDiffIsMinimal(t *testing.T) {
	current := LabelSet{"inbox", "starred", "work"}
	prev := LabelSet{"inbox", "unread", "work"}

	added, removed := current.Diff(prev)

	assert.Equal(t, LabelSet{"starred"}, added)
	assert.Equal(t, LabelSet{"unread"}, removed)
}

func TestLabelSetDiffNoChanges(t *testing.T) {
	s := LabelSet{"inbox", "starred"}

	added, removed := s.Diff(LabelSet{"starred", "inbox"})

	assert.Empty(t, added)
	assert.Empty(t, removed)
}

func TestLabelSetValueAndScanRoundTrip(t *testing.T) {
	v, err := LabelSet{"inbox", "starred"}.Value()
	require.NoError(t, err)

	var out LabelSet
	require.NoError(t, out.Scan(v))
	assert.Equal(t, LabelSet{"inbox", "starred"}, out)
}

func TestLabelSetScanNil(t *testing.T) {
	var out LabelSet
	require.NoError(t, out.Scan(nil))
	assert.Empty(t, out)
}

func TestLabelSetNilValueIsEmptyArray(t *testing.T) {
	var s LabelSet
	v, err := s.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}
