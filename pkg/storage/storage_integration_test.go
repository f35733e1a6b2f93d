//go:build integration

package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func testRoundTrip(t *testing.T, b Backend) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := b.Save(ctx, seedSnapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(seedSnapshot().All(), got.All()); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestRedisBackend_Integration(t *testing.T) {
	url := os.Getenv("DEPCHECK_TEST_REDIS_URL")
	if url == "" {
		t.Skip("DEPCHECK_TEST_REDIS_URL not set")
	}
	b, err := NewRedisBackend(url, "deprecated-checker:test")
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	testRoundTrip(t, b)
}

func TestMongoBackend_Integration(t *testing.T) {
	uri := os.Getenv("DEPCHECK_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("DEPCHECK_TEST_MONGO_URI not set")
	}
	b, err := NewMongoBackend(context.Background(), uri, "deprecated_checker_test", "packages")
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	testRoundTrip(t, b)
}
