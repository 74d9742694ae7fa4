// Package listview is the filter/paginate engine shared by the beneficiary
// and user list screens. It operates purely over an in-memory slice supplied
// by the caller; fetching is someone else's job.
package listview

// Filter keeps the items for which pred(item, criteria) is true. Callers
// treat blank criteria fields as wildcards inside their predicate.
func Filter[T, C any](items []T, criteria C, pred func(T, C) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it, criteria) {
			out = append(out, it)
		}
	}
	return out
}

// Paginate slices one page out of filtered items. pageCount is never zero:
// an empty result still renders one empty page.
func Paginate[T any](items []T, pageSize, pageIndex int) (page []T, pageCount int) {
	if pageSize <= 0 {
		pageSize = 10
	}
	pageCount = (len(items) + pageSize - 1) / pageSize
	if pageCount < 1 {
		pageCount = 1
	}
	if pageIndex < 0 || pageIndex >= pageCount {
		return nil, pageCount
	}
	start := pageIndex * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], pageCount
}

// View keeps filter criteria and the page cursor together for one screen.
// Changing criteria does not move the cursor by itself; the reset to page 0
// happens on the next Page call, once the filtered length actually leaves the
// cursor out of range. Resetting inside SetCriteria would snap the user back
// on every keystroke while they are still typing.
type View[T, C any] struct {
	items     []T
	pred      func(T, C) bool
	criteria  C
	pageSize  int
	pageIndex int
	filtered  []T
}

func NewView[T, C any](items []T, pred func(T, C) bool, pageSize int) *View[T, C] {
	if pageSize <= 0 {
		pageSize = 10
	}
	v := &View[T, C]{items: items, pred: pred, pageSize: pageSize}
	v.refilter()
	return v
}

func (v *View[T, C]) refilter() {
	v.filtered = Filter(v.items, v.criteria, v.pred)
}

// SetItems replaces the backing list (e.g. after a reload).
func (v *View[T, C]) SetItems(items []T) {
	v.items = items
	v.refilter()
}

// SetCriteria updates the filter and recomputes the filtered list.
func (v *View[T, C]) SetCriteria(c C) {
	v.criteria = c
	v.refilter()
}

// SetPageIndex moves the cursor; out-of-range values are corrected on Page.
func (v *View[T, C]) SetPageIndex(i int) { v.pageIndex = i }

func (v *View[T, C]) PageIndex() int { return v.pageIndex }

// Filtered exposes the full filtered list (exports, counts).
func (v *View[T, C]) Filtered() []T { return v.filtered }

// Page is the render pass: it resets the cursor to 0 when filtering left it
// beyond the last page, then returns the current page and the page count.
func (v *View[T, C]) Page() ([]T, int) {
	_, pageCount := Paginate(v.filtered, v.pageSize, 0)
	if v.pageIndex >= pageCount {
		v.pageIndex = 0
	}
	return Paginate(v.filtered, v.pageSize, v.pageIndex)
}
