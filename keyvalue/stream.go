/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package keyvalue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/storagemodels"
	"go.uber.org/zap"
)

// Stream pages through the results of q and sends them on the returned
// channel, which is closed when the results are exhausted, the context is
// cancelled or an error stops the stream. q.Offset and q.Rows bound the whole
// stream; each page fetches PageSize rows.
func (t *Template) Stream(ctx context.Context, q *Query, keyspace string, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[any] {
	options := storagemodels.Apply(opts...)
	resultCh := make(chan storagemodels.StreamResult[any], options.BufferSize)

	go t.streamWorker(ctx, q.Clone(), keyspace, options, resultCh)

	return resultCh
}

func (t *Template) streamWorker(
	ctx context.Context,
	q *Query,
	keyspace string,
	options storagemodels.StreamOptions,
	resultCh chan<- storagemodels.StreamResult[any],
) {
	defer close(resultCh)

	logger := t.log(ctx, keyspace)

	var itemIndex int64
	var pageNumber int
	startTime := time.Now()
	var errs []error
	var mu sync.Mutex

	pageSize := options.PageSize
	page := q.Offset / pageSize
	skip := q.Offset % pageSize
	remaining := q.Rows
	failedPages := 0

	reportProgress := func(offset int) {
		if options.ProgressHandler == nil {
			return
		}
		mu.Lock()
		progress := storagemodels.StreamProgress{
			ItemsProcessed: itemIndex,
			PagesProcessed: pageNumber,
			Offset:         offset,
			Errors:         append([]error(nil), errs...),
			StartTime:      startTime,
		}
		mu.Unlock()

		if elapsed := time.Since(startTime).Seconds(); elapsed > 0 {
			progress.CurrentRate = float64(progress.ItemsProcessed) / elapsed
		}
		options.ProgressHandler(progress)
	}

	send := func(result storagemodels.StreamResult[any]) bool {
		select {
		case <-ctx.Done():
			return false
		case resultCh <- result:
			return true
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pageQuery := q.Clone()
		pageQuery.Offset = page * pageSize
		pageQuery.Rows = pageSize

		items, err := t.findWithRetry(ctx, pageQuery, keyspace, options)
		if err != nil {
			meta := storagemodels.StreamMeta{Index: itemIndex, PageNumber: pageNumber, Timestamp: time.Now()}
			failedPages++
			if options.ErrorHandler == nil || !options.ErrorHandler(err) || failedPages > options.MaxRetries {
				logger.Warn("stream stopped", zap.Error(err), zap.Int("page", page))
				send(storagemodels.StreamResult[any]{Error: fmt.Errorf("query failed: %w", err), Meta: meta})
				return
			}

			// skip the failed page; consecutive failures beyond MaxRetries stop the stream
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			page++
			skip = 0
			continue
		}

		failedPages = 0
		pageNumber++
		full := len(items) == pageSize

		if skip > 0 {
			if skip > len(items) {
				skip = len(items)
			}
			items = items[skip:]
			skip = 0
		}

		for _, item := range items {
			if q.Rows > 0 && remaining == 0 {
				break
			}
			result := storagemodels.StreamResult[any]{
				Item: item,
				Meta: storagemodels.StreamMeta{Index: itemIndex, PageNumber: pageNumber, Timestamp: time.Now()},
			}
			if !send(result) {
				return
			}
			mu.Lock()
			itemIndex++
			mu.Unlock()
			remaining--
		}

		page++
		if !full || (q.Rows > 0 && remaining <= 0) {
			break
		}
		reportProgress(page * pageSize)
	}

	reportProgress(-1)
	logger.Debug("stream finished", zap.Int64("items", itemIndex), zap.Int("pages", pageNumber))
}

// findWithRetry runs one page query, retrying transient failures with a
// linearly growing backoff.
func (t *Template) findWithRetry(ctx context.Context, q *Query, keyspace string, options storagemodels.StreamOptions) ([]any, error) {
	var lastErr error

	for attempt := 0; attempt <= options.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		items, err := t.adapter.Find(ctx, q, keyspace)
		if err == nil {
			return items, nil
		}

		lastErr = err
		if !errors.IsTransient(err) {
			return nil, err
		}

		if attempt < options.MaxRetries {
			backoff := time.Duration(attempt+1) * options.RetryBackoff
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("query failed after %d retries: %w", options.MaxRetries, lastErr)
}
