package marker

import "github.com/woozymasta/parkmap/internal/parking"

// Kind labels used by the dataset.
const (
	LabelPrivate = "prywatny"
	LabelPaid    = "platny"
	LabelFree    = "darmowy"
)

var labelCategories = map[string]parking.Category{
	LabelPrivate: parking.Private,
	LabelPaid:    parking.Paid,
	LabelFree:    parking.Free,
}

// DefaultIcons maps each category to its stock marker image.
var DefaultIcons = map[parking.Category]IconHandle{
	parking.Private: "prywatnyznacznik",
	parking.Paid:    "platnyznacznik",
	parking.Free:    "darmowyznacznik",
}

// Style is the visual treatment of a record.
type Style struct {
	Icon     IconHandle
	Category parking.Category
}

// Resolver maps dataset kind labels to marker styles.
type Resolver struct {
	styles map[string]Style
	icons  map[parking.Category]IconHandle
}

// NewResolver builds a resolver. Categories missing from icons use DefaultIcons.
func NewResolver(icons map[parking.Category]IconHandle) *Resolver {
	r := &Resolver{
		styles: make(map[string]Style, len(labelCategories)),
		icons:  make(map[parking.Category]IconHandle, len(DefaultIcons)),
	}

	for c, icon := range DefaultIcons {
		r.icons[c] = icon
	}
	for c, icon := range icons {
		if c.Valid() && icon != "" {
			r.icons[c] = icon
		}
	}

	for label, c := range labelCategories {
		r.styles[label] = Style{Category: c, Icon: r.icons[c]}
	}

	return r
}

// Resolve returns the style for a kind label. Labels match exactly.
func (r *Resolver) Resolve(label string) (Style, error) {
	s, ok := r.styles[label]
	if !ok {
		return Style{}, &UnknownCategoryError{Label: label}
	}
	return s, nil
}

// Icon returns the icon handle of a category.
func (r *Resolver) Icon(c parking.Category) IconHandle {
	return r.icons[c]
}

// Icons returns a copy of the category to icon mapping.
func (r *Resolver) Icons() map[parking.Category]IconHandle {
	out := make(map[parking.Category]IconHandle, len(r.icons))
	for c, icon := range r.icons {
		out[c] = icon
	}
	return out
}
