package coordinator

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestLeaseAcquireAndRenew(t *testing.T) {
	l := NewLease(time.Minute)
	owner := uuid.New()

	if !l.Acquire(owner) {
		t.Fatal("first acquire must succeed")
	}
	if !l.Acquire(owner) {
		t.Error("renewal by the same owner must succeed")
	}

	holder, held := l.Holder()
	if !held || holder != owner {
		t.Errorf("holder = (%v, %v), want current owner", holder, held)
	}
}

func TestLeaseExcludesSecondWriter(t *testing.T) {
	l := NewLease(time.Minute)
	first := uuid.New()
	second := uuid.New()

	if !l.Acquire(first) {
		t.Fatal("first acquire must succeed")
	}
	if l.Acquire(second) {
		t.Error("second writer must not take an unexpired lease")
	}

	l.Release(first)
	if !l.Acquire(second) {
		t.Error("released lease must be acquirable")
	}
}

func TestLeaseExpiryAllowsTakeover(t *testing.T) {
	l := NewLease(20 * time.Millisecond)
	first := uuid.New()
	second := uuid.New()

	if !l.Acquire(first) {
		t.Fatal("first acquire must succeed")
	}
	time.Sleep(40 * time.Millisecond)

	if !l.Acquire(second) {
		t.Error("expired lease must be acquirable by another writer")
	}
	if l.Acquire(first) {
		t.Error("previous owner must not reclaim a lease now held by another")
	}
}

func TestLeaseReleaseByNonOwner(t *testing.T) {
	l := NewLease(time.Minute)
	owner := uuid.New()

	l.Acquire(owner)
	l.Release(uuid.New())

	if _, held := l.Holder(); !held {
		t.Error("release by a non-owner must not drop the lease")
	}
}
