package client

import (
	"context"
	"fmt"
	"iter"

	"github.com/desertthunder/spotx/models"
)

// NextPage fetches the page following p. It returns nil and no error on the last page.
func NextPage[T any](ctx context.Context, c *Client, p *models.Paging[T]) (*models.Paging[T], error) {
	if !p.HasNext() {
		return nil, nil
	}
	return fetchPage[T](ctx, c, *p.Next)
}

// PreviousPage fetches the page preceding p. It returns nil and no error on the first page.
func PreviousPage[T any](ctx context.Context, c *Client, p *models.Paging[T]) (*models.Paging[T], error) {
	if !p.HasPrevious() {
		return nil, nil
	}
	return fetchPage[T](ctx, c, *p.Previous)
}

func fetchPage[T any](ctx context.Context, c *Client, link string) (*models.Paging[T], error) {
	var page models.Paging[T]
	if err := c.get(ctx, link, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Iterator walks the items of a paged listing, fetching each following page on demand.
//
// It is forward-only and cannot be restarted. An Iterator is not safe for concurrent use.
type Iterator[T any] struct {
	c       *Client
	page    *models.Paging[T]
	idx     int
	seen    int
	fetches int
	item    T
	err     error
	done    bool
}

// Iterate starts an iterator at the first item of first.
func Iterate[T any](c *Client, first *models.Paging[T]) *Iterator[T] {
	return &Iterator[T]{c: c, page: first, idx: -1, done: first == nil}
}

// Next advances to the next item, fetching the following page when the current one is exhausted.
// It returns false at the end of the listing or after an error.
func (it *Iterator[T]) Next(ctx context.Context) bool {
	if it.done {
		return false
	}

	it.idx++
	for it.idx >= len(it.page.Items) {
		if !it.page.HasNext() || it.reachedTotal() {
			it.done = true
			return false
		}

		next, err := fetchPage[T](ctx, it.c, *it.page.Next)
		it.fetches++
		if err != nil {
			it.err = fmt.Errorf("fetching page %d: %w", it.fetches+1, err)
			it.done = true
			return false
		}
		it.page, it.idx = next, 0
	}

	it.item = it.page.Items[it.idx]
	it.seen++
	return true
}

// reachedTotal reports whether the server's total has already been yielded.
func (it *Iterator[T]) reachedTotal() bool {
	return it.page.Total > 0 && it.seen >= it.page.Total
}

// Item returns the current item. It is only meaningful after Next returned true.
func (it *Iterator[T]) Item() T {
	return it.item
}

// Err returns the error that stopped the iteration, if any.
func (it *Iterator[T]) Err() error {
	return it.err
}

// Fetches returns the number of pages requested so far, not counting the first.
func (it *Iterator[T]) Fetches() int {
	return it.fetches
}

// All adapts the iterator to a range-over-func sequence.
// An error is yielded once with the zero item and ends the sequence.
func (it *Iterator[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for it.Next(ctx) {
			if !yield(it.Item(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

// Collect drains the iterator into a slice.
func Collect[T any](ctx context.Context, it *Iterator[T]) ([]T, error) {
	var items []T
	for item, err := range it.All(ctx) {
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}
