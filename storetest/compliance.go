// Package storetest provides a conformance suite run against any Store
// configuration, whether backed by a real cluster or the in-memory Conn.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/lstoll/cqlstore"
)

// Run runs a standard suite of tests against a Store to ensure it behaves
// correctly according to the store contract.
//
// The cleanup function should reset the backing table to a clean state
// (e.g., truncate it). It will be called before each test.
func Run(t *testing.T, store *cqlstore.Store, cleanup func()) {
	if cleanup != nil {
		cleanup()
		t.Cleanup(cleanup)
	}

	t.Run("SetGetDestroy", func(t *testing.T) {
		if cleanup != nil {
			cleanup()
		}

		ctx := context.Background()
		id := uuid.NewString()
		sess := cqlstore.NewSession()
		sess.Values["user"] = "u-1"
		sess.Values["visits"] = float64(3)

		if err := store.Set(ctx, id, sess); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		got, err := store.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got == nil {
			t.Fatal("Get() = nil, want session")
		}
		if diff := cmp.Diff(sess.Values, got.Values); diff != "" {
			t.Errorf("values mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(sess.Cookie, got.Cookie); diff != "" {
			t.Errorf("cookie mismatch (-want +got):\n%s", diff)
		}

		if err := store.Destroy(ctx, id); err != nil {
			t.Fatalf("Destroy() error = %v", err)
		}

		got, err = store.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != nil {
			t.Errorf("Get() after destroy = %+v, want nil", got)
		}
	})

	t.Run("GetNotFound", func(t *testing.T) {
		if cleanup != nil {
			cleanup()
		}

		got, err := store.Get(context.Background(), uuid.NewString())
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != nil {
			t.Errorf("Get() = %+v, want nil", got)
		}
	})

	t.Run("Upsert", func(t *testing.T) {
		if cleanup != nil {
			cleanup()
		}

		ctx := context.Background()
		id := uuid.NewString()

		first := cqlstore.NewSession()
		first.Values["state"] = "initial"
		if err := store.Set(ctx, id, first); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		second := cqlstore.NewSession()
		second.Values["state"] = "updated"
		if err := store.Set(ctx, id, second); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		got, err := store.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got == nil {
			t.Fatal("Get() = nil, want session")
		}
		if diff := cmp.Diff(second.Values, got.Values); diff != "" {
			t.Errorf("values mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("DestroyAbsent", func(t *testing.T) {
		if cleanup != nil {
			cleanup()
		}

		if err := store.Destroy(context.Background(), uuid.NewString()); err != nil {
			t.Fatalf("Destroy() error = %v", err)
		}
	})

	t.Run("ExpiredSession", func(t *testing.T) {
		if cleanup != nil {
			cleanup()
		}

		ctx := context.Background()
		id := uuid.NewString()
		sess := cqlstore.NewSession()
		sess.Values["state"] = "ephemeral"
		sess.Cookie["maxAge"] = float64(1000)

		if err := store.Set(ctx, id, sess); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		time.Sleep(2 * time.Second)

		got, err := store.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != nil {
			t.Errorf("Get() after expiry = %+v, want nil", got)
		}
	})
}
