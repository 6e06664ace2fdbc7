/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"testing"
	"time"
)

func TestApply(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		opts := Apply()
		if opts.PageSize != 100 || opts.BufferSize != 100 || opts.MaxRetries != 3 || opts.RetryBackoff != time.Second {
			t.Fatalf("Unexpected defaults: %+v", opts)
		}
	})

	t.Run("Overrides", func(t *testing.T) {
		called := false
		opts := Apply(
			WithPageSize(5),
			WithBufferSize(1),
			WithMaxRetries(0),
			WithRetryBackoff(time.Millisecond),
			WithErrorHandler(func(error) bool { called = true; return true }),
		)
		if opts.PageSize != 5 || opts.BufferSize != 1 || opts.MaxRetries != 0 || opts.RetryBackoff != time.Millisecond {
			t.Fatalf("Options not applied: %+v", opts)
		}
		opts.ErrorHandler(nil)
		if !called {
			t.Fatal("Expected error handler to be set")
		}
	})

	t.Run("InvalidPageSize", func(t *testing.T) {
		if opts := Apply(WithPageSize(0)); opts.PageSize != 100 {
			t.Fatalf("Expected default page size, got %d", opts.PageSize)
		}
	})
}
