package listview

import "codeberg.org/snonux/palabra/internal/words"

// PageSize is the initial window and the growth step
const PageSize = 30

// View is a growing window over a derived list
type View struct {
	items []words.Entry
	ids   []string
	limit int
}

// NewView creates an empty view
func NewView() *View {
	return &View{limit: PageSize}
}

// SetItems replaces the derived list. When the result differs from the
// previous one in length or id sequence the window shrinks back to PageSize.
func (v *View) SetItems(items []words.Entry) {
	ids := make([]string, len(items))
	for i, e := range items {
		ids[i] = e.ID
	}
	if !sameIDs(v.ids, ids) {
		v.limit = PageSize
	}
	v.items = items
	v.ids = ids
}

// Visible returns the currently shown prefix
func (v *View) Visible() []words.Entry {
	if v.limit >= len(v.items) {
		return v.items
	}
	return v.items[:v.limit]
}

// Total is the size of the full derived list
func (v *View) Total() int {
	return len(v.items)
}

// HasMore reports whether items beyond the window exist
func (v *View) HasMore() bool {
	return v.limit < len(v.items)
}

// ReachedEnd is called once the last visible item has been shown and
// grows the window by PageSize if there is more. It reports whether the
// window grew.
func (v *View) ReachedEnd() bool {
	if !v.HasMore() {
		return false
	}
	v.limit += PageSize
	return true
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
