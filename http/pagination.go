package http

import (
	"context"
	"iter"
	"net/http"
)

// DefaultPageSize is the number of items requested per page.
const DefaultPageSize = 50

// Page is one bounded batch of results.
type Page[T any] struct {
	Items      []T
	NextOffset int
	HasMore    bool
}

// PageFetcher fetches up to limit items starting at offset.
type PageFetcher[T any] func(ctx context.Context, offset, limit int) (Page[T], error)

// PageOptions bounds a paginated read.
type PageOptions struct {
	// PageSize is the number of items requested per page. Defaults to DefaultPageSize.
	PageSize int

	// Limit caps the total number of items yielded. Zero means no cap.
	Limit int
}

func (o PageOptions) pageSize() int {
	if o.PageSize <= 0 {
		return DefaultPageSize
	}
	return o.PageSize
}

// PageIterator provides iteration over paginated API results.
// It lazily fetches pages as needed and is not safe for concurrent use.
type PageIterator[T any] struct {
	fetch    PageFetcher[T]
	opts     PageOptions
	offset   int
	buffer   []T
	done     bool
	err      error
	fetched  int
	requests int
}

// NewPageIterator creates a new iterator with the given fetch function.
func NewPageIterator[T any](fetch PageFetcher[T], opts PageOptions) *PageIterator[T] {
	return &PageIterator[T]{
		fetch: fetch,
		opts:  opts,
	}
}

// Next returns the next item from the iterator.
// Returns the item, true if an item was returned, and any error.
// When iteration is complete, returns (zero, false, nil).
func (p *PageIterator[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	if p.err != nil {
		return zero, false, p.err
	}
	if p.opts.Limit > 0 && p.fetched >= p.opts.Limit {
		return zero, false, nil
	}

	if len(p.buffer) == 0 && !p.done {
		if err := p.fill(ctx); err != nil {
			return zero, false, err
		}
	}

	if len(p.buffer) == 0 {
		return zero, false, nil
	}

	item := p.buffer[0]
	p.buffer = p.buffer[1:]
	p.fetched++

	return item, true, nil
}

func (p *PageIterator[T]) fill(ctx context.Context) error {
	size := p.opts.pageSize()
	if p.opts.Limit > 0 {
		size = min(size, p.opts.Limit-p.fetched)
	}

	page, err := p.fetch(ctx, p.offset, size)
	p.requests++
	if err != nil {
		p.err = err
		return err
	}

	p.buffer = page.Items
	p.done = !page.HasMore || len(page.Items) < size

	if page.NextOffset > p.offset {
		p.offset = page.NextOffset
	} else {
		p.offset += len(p.buffer)
	}
	return nil
}

// All collects all items from the iterator into a slice.
// The result is never nil on success.
func (p *PageIterator[T]) All(ctx context.Context) ([]T, error) {
	all := make([]T, 0)
	for {
		item, ok, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		all = append(all, item)
	}
	return all, nil
}

// Err returns any error that occurred during iteration.
func (p *PageIterator[T]) Err() error {
	return p.err
}

// Fetched returns the number of items yielded so far.
func (p *PageIterator[T]) Fetched() int {
	return p.fetched
}

// Requests returns the number of pages requested so far.
func (p *PageIterator[T]) Requests() int {
	return p.requests
}

// Reset resets the iterator to the beginning.
// Any buffered items are discarded.
func (p *PageIterator[T]) Reset() {
	p.offset = 0
	p.buffer = nil
	p.done = false
	p.err = nil
	p.fetched = 0
	p.requests = 0
}

// Take returns up to n items from the iterator.
func (p *PageIterator[T]) Take(ctx context.Context, n int) ([]T, error) {
	items := make([]T, 0, n)
	for len(items) < n {
		item, ok, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		items = append(items, item)
	}
	return items, nil
}

// ForEach calls fn for each item in the iterator.
// If fn returns an error, iteration stops and that error is returned.
func (p *PageIterator[T]) ForEach(ctx context.Context, fn func(T) error) error {
	for {
		item, ok, err := p.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(item); err != nil {
			return err
		}
	}
}

// Paginate returns a lazy sequence over all pages produced by fetch.
// Each range over the sequence starts again from offset 0. A fetch error is
// yielded once and ends the sequence; items yielded before it stay valid.
func Paginate[T any](ctx context.Context, fetch PageFetcher[T], opts PageOptions) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		it := NewPageIterator(fetch, opts)
		for {
			item, ok, err := it.Next(ctx)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok {
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

// Collect drains a sequence into a slice. The result is never nil on success.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	items := make([]T, 0)
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// ListFetcher returns a PageFetcher for a YouTrack collection endpoint that
// answers with a bare JSON array and accepts $skip/$top.
func ListFetcher[T any](t *Transport, path string, params Params) PageFetcher[T] {
	return func(ctx context.Context, offset, limit int) (Page[T], error) {
		req := NewRequest(http.MethodGet, path)
		for k, v := range params {
			req.With(k, v)
		}
		req.With("$skip", offset).With("$top", limit)

		var items []T
		if err := t.Do(ctx, req, &items); err != nil {
			return Page[T]{}, err
		}
		if items == nil {
			items = []T{}
		}

		return Page[T]{
			Items:      items,
			NextOffset: offset + len(items),
			HasMore:    len(items) >= limit,
		}, nil
	}
}
