package httpmiddleware

import (
	"testing"
	"time"
)

func TestTokenBucketExhaustion(t *testing.T) {
	l := NewSimpleTokenBucket(3, 3)
	now := time.Now()

	for i := 0; i < 3; i++ {
		if !l.allow("1.2.3.4", now) {
			t.Fatalf("request %d should pass", i)
		}
	}
	if l.allow("1.2.3.4", now) {
		t.Fatal("fourth request should be limited")
	}

	// A different client has its own bucket.
	if !l.allow("5.6.7.8", now) {
		t.Fatal("other client must not be affected")
	}
}

func TestTokenBucketRefill(t *testing.T) {
	l := NewSimpleTokenBucket(1, 60)
	now := time.Now()

	if !l.allow("1.2.3.4", now) {
		t.Fatal("first request should pass")
	}
	if l.allow("1.2.3.4", now) {
		t.Fatal("bucket should be empty")
	}
	if !l.allow("1.2.3.4", now.Add(2*time.Second)) {
		t.Fatal("bucket should refill after enough time")
	}
}
