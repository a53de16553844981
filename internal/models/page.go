package models

// Page is a from/size window over a sorted result set.
//
// The window is aligned to page boundaries: page index is From/Size, so a From that
// is not a multiple of Size starts at the beginning of the page containing it.
type Page struct {
	From int
	Size int
}

func (p Page) Valid() bool {
	return p.From >= 0 && p.Size > 0
}

func (p Page) Index() int {
	return p.From / p.Size
}

func (p Page) Offset() int {
	return p.Index() * p.Size
}
