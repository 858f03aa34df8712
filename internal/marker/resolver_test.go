package marker

import (
	"errors"
	"testing"

	"github.com/woozymasta/parkmap/internal/parking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKnownLabels(t *testing.T) {
	r := NewResolver(nil)

	tests := []struct {
		label    string
		category parking.Category
		icon     IconHandle
	}{
		{label: "prywatny", category: parking.Private, icon: "prywatnyznacznik"},
		{label: "platny", category: parking.Paid, icon: "platnyznacznik"},
		{label: "darmowy", category: parking.Free, icon: "darmowyznacznik"},
	}

	icons := make(map[IconHandle]bool)
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			s, err := r.Resolve(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.category, s.Category)
			assert.Equal(t, tt.icon, s.Icon)

			again, err := r.Resolve(tt.label)
			require.NoError(t, err)
			assert.Equal(t, s, again)
		})
		icons[tt.icon] = true
	}
	assert.Len(t, icons, 3)
}

func TestResolveUnknownLabel(t *testing.T) {
	r := NewResolver(nil)

	for _, label := range []string{"unknown", "", "Prywatny", "platny "} {
		_, err := r.Resolve(label)

		var unknown *UnknownCategoryError
		require.True(t, errors.As(err, &unknown), label)
		assert.Equal(t, label, unknown.Label)
	}
}

func TestResolverIconOverrides(t *testing.T) {
	r := NewResolver(map[parking.Category]IconHandle{
		parking.Paid:        "meter",
		parking.Free:        "",
		parking.Category(9): "ignored",
	})

	s, err := r.Resolve(LabelPaid)
	require.NoError(t, err)
	assert.Equal(t, IconHandle("meter"), s.Icon)
	assert.Equal(t, IconHandle("darmowyznacznik"), r.Icon(parking.Free))

	icons := r.Icons()
	assert.Len(t, icons, 3)
	icons[parking.Private] = "mutated"
	assert.Equal(t, IconHandle("prywatnyznacznik"), r.Icon(parking.Private))
}
