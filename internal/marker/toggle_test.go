package marker

import (
	"errors"
	"testing"

	"github.com/woozymasta/parkmap/internal/parking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleBeforeRenderKeepsState(t *testing.T) {
	c := NewController(newFakeSurface(), NewResolver(nil))
	toggle := NewToggle(c, parking.Private, false)

	visible, err := toggle.Toggle()

	var notInit *NotInitializedError
	require.True(t, errors.As(err, &notInit))
	assert.False(t, visible)
	assert.False(t, toggle.Visible())
}

func TestToggleSync(t *testing.T) {
	surface := newFakeSurface()
	c := NewController(surface, NewResolver(nil))
	toggle := NewToggle(c, parking.Paid, true)
	assert.Equal(t, parking.Paid, toggle.Category())

	require.NoError(t, c.RenderAll(sampleRecords()))
	assert.False(t, c.Visible(parking.Paid))

	require.NoError(t, toggle.Sync())
	assert.True(t, c.Visible(parking.Paid))
	require.Len(t, c.Cluster(parking.Paid).Members, 1)
	assert.Equal(t, "B", c.Cluster(parking.Paid).Members[0].Record.Name)
}

func TestToggleSet(t *testing.T) {
	surface := newFakeSurface()
	c := NewController(surface, NewResolver(nil))
	require.NoError(t, c.RenderAll(sampleRecords()))
	toggle := NewToggle(c, parking.Free, false)

	require.NoError(t, toggle.Set(true))
	require.NoError(t, toggle.Set(true))
	assert.True(t, toggle.Visible())
	assert.Len(t, surface.attachedClusters(), 1)

	require.NoError(t, toggle.Set(false))
	assert.False(t, toggle.Visible())
	assert.Empty(t, surface.attachedClusters())
}
