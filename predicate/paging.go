/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package predicate

// Paging wraps a predicate with an ordering and a page cursor. Maps evaluating
// a Paging predicate filter with the inner predicate, sort with the comparator
// and return only the current page.
type Paging struct {
	inner      Predicate
	comparator Comparator
	pageSize   int
	page       int
}

// NewPaging creates a paging predicate positioned on the first page. A nil
// inner predicate matches everything; pageSize <= 0 disables slicing so the
// predicate only orders results.
func NewPaging(inner Predicate, comparator Comparator, pageSize int) *Paging {
	return &Paging{inner: inner, comparator: comparator, pageSize: pageSize}
}

// Apply evaluates the inner predicate.
func (p *Paging) Apply(entry Entry) bool {
	return p.inner == nil || p.inner.Apply(entry)
}

// NextPage advances the cursor by one page.
func (p *Paging) NextPage() {
	p.page++
}

// PreviousPage moves the cursor back one page, stopping at the first page.
func (p *Paging) PreviousPage() {
	if p.page > 0 {
		p.page--
	}
}

// SetPage positions the cursor on page (0-based). Negative pages clamp to 0.
func (p *Paging) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	p.page = page
}

// Page returns the current 0-based page.
func (p *Paging) Page() int { return p.page }

// PageSize returns the configured page size.
func (p *Paging) PageSize() int { return p.pageSize }

// Inner returns the wrapped predicate.
func (p *Paging) Inner() Predicate { return p.inner }

// Comparator returns the ordering, if any.
func (p *Paging) Comparator() Comparator { return p.comparator }

// bounds returns the half-open slice range of the current page over n results.
func (p *Paging) bounds(n int) (int, int) {
	if p.pageSize <= 0 {
		return 0, n
	}
	start := p.page * p.pageSize
	if start > n {
		start = n
	}
	end := start + p.pageSize
	if end > n {
		end = n
	}
	return start, end
}
