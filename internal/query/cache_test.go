package query

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fetchInt(t *testing.T, c *Cache, key string, calls *int, val int) int {
	t.Helper()
	got, err := Fetch(context.Background(), c, key, func(ctx context.Context) (int, error) {
		*calls++
		return val, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return got
}

func TestFetchCachesPerKey(t *testing.T) {
	c := NewCache(time.Minute)
	calls := 0

	if got := fetchInt(t, c, "k1", &calls, 7); got != 7 {
		t.Fatalf("got %d", got)
	}
	if got := fetchInt(t, c, "k1", &calls, 8); got != 7 {
		t.Fatalf("second fetch = %d, want cached 7", got)
	}
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}

	fetchInt(t, c, "k2", &calls, 9)
	if calls != 2 {
		t.Fatalf("distinct key reused cache, calls = %d", calls)
	}
}

func TestFetchErrorNotCached(t *testing.T) {
	c := NewCache(time.Minute)
	calls := 0
	boom := errors.New("down")

	_, err := Fetch(context.Background(), c, "k", func(ctx context.Context) (int, error) {
		calls++
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}

	if got := fetchInt(t, c, "k", &calls, 5); got != 5 {
		t.Fatalf("got %d", got)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, error result was cached", calls)
	}
}

func TestEntriesGoStale(t *testing.T) {
	c := NewCache(time.Minute)
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }
	calls := 0

	fetchInt(t, c, "k", &calls, 1)
	now = now.Add(59 * time.Second)
	fetchInt(t, c, "k", &calls, 2)
	if calls != 1 {
		t.Fatalf("fresh entry refetched, calls = %d", calls)
	}

	now = now.Add(2 * time.Second)
	if got := fetchInt(t, c, "k", &calls, 3); got != 3 {
		t.Fatalf("got %d, want refetched 3", got)
	}
	if calls != 2 {
		t.Fatalf("calls = %d", calls)
	}
}

func TestInvalidateExactAndPrefix(t *testing.T) {
	c := NewCache(0)
	calls := 0

	fetchInt(t, c, "quizzes:p0:s20", &calls, 1)
	fetchInt(t, c, "quizzes:p1:s20", &calls, 2)
	fetchInt(t, c, "quiz:q1", &calls, 3)
	fetchInt(t, c, "users:p0:s20", &calls, 4)

	c.Invalidate("quizzes:*", "quiz:q1")

	fetchInt(t, c, "quizzes:p0:s20", &calls, 1)
	fetchInt(t, c, "quizzes:p1:s20", &calls, 2)
	fetchInt(t, c, "quiz:q1", &calls, 3)
	fetchInt(t, c, "users:p0:s20", &calls, 4)

	// Three keys dropped and refetched; the users entry survived.
	if calls != 7 {
		t.Fatalf("calls = %d, want 7", calls)
	}
}
