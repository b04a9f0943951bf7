package treeset_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flier/reusedist/pkg/treeset"
)

func TestReportOK(t *testing.T) {
	t.Parallel()

	ok := treeset.Report{BSTOrdered: true, HeapOrdered: true, NoRedRed: true, BlackHeightUniform: true, ParentLinksConsistent: true}
	assert.True(t, ok.OK())
	assert.Equal(t, "Report{ok}", ok.String())

	bad := ok
	bad.BSTOrdered = false
	assert.False(t, bad.OK())
	assert.Contains(t, bad.String(), "bst=false")
}

func TestAsCorrupt(t *testing.T) {
	t.Parallel()

	_, ok := treeset.AsCorrupt(nil)
	assert.False(t, ok)

	_, ok = treeset.AsCorrupt(errors.New("boom"))
	assert.False(t, ok)

	wrapped := treeset.NewErrCorrupt("cycle detected while traversing")
	got, ok := treeset.AsCorrupt(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "cycle detected while traversing", got.Reason)
	assert.Equal(t, "reusedist: ordered set corrupted: cycle detected while traversing", got.Error())
	assert.Contains(t, got.Stack, "TestAsCorrupt")
}
