package core

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 20

// Page describes one page of a list.
type Page struct {
	Number int // 1-based
	Size   int
	Total  int // items across all pages
	Pages  int
	Start  int // slice bounds of the page
	End    int
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.Pages }
func (p Page) Prev() int     { return p.Number - 1 }
func (p Page) Next() int     { return p.Number + 1 }

// Paginate computes the bounds of page among total items. Out of range pages are clamped.
func Paginate(total, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	} else if page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	return Page{Number: page, Size: size, Total: total, Pages: pages, Start: start, End: end}
}
