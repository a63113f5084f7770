// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package errors_test

import (
	goerrors "errors"
	"testing"

	"github.com/grailbio/bitset/errors"
)

func TestError(t *testing.T) {
	e1 := errors.E(errors.OutOfRange, "bit 64 of 64")
	if got, want := e1.Error(), "bit 64 of 64: index out of range (fatal)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !errors.Is(errors.OutOfRange, e1) {
		t.Errorf("error %v should be OutOfRange", e1)
	}
	e2 := errors.E(errors.Invalid, "nil bitset")
	if got, want := e2.Error(), "nil bitset: invalid argument (fatal)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestErrorChaining(t *testing.T) {
	err := goerrors.New("word count overflows int")
	err = errors.E(errors.OOM, "allocating backing store", err)
	err = errors.E("cloning bitset", err)
	want := "cloning bitset: out of memory (retriable):\n\tallocating backing store: word count overflows int"
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !errors.Is(errors.OOM, err) {
		t.Errorf("error %v should inherit OOM through the chain", err)
	}
}

func TestIsRetriable(t *testing.T) {
	for _, c := range []struct {
		err       error
		retriable bool
	}{
		{errors.E(errors.OOM, "cannot grow"), true},
		{errors.E(errors.Invalid, "nil bitset"), false},
		{errors.E(errors.OutOfRange, "bit 10 of 8"), false},
		{errors.E("no idea"), false},
		{errors.E(errors.Retriable, "try again"), true},
		{goerrors.New("opaque"), false},
	} {
		if got, want := errors.IsRetriable(c.err), c.retriable; got != want {
			t.Errorf("error %v: got %v, want %v", c.err, got, want)
		}
	}
}

func TestIsKind(t *testing.T) {
	for k := errors.Other; k < errors.OOM+1; k++ {
		err := errors.E(k, "test")
		for k2 := errors.Other; k2 < errors.OOM+1; k2++ {
			// Other is indeterminate, never matched directly.
			want := k == k2 && k != errors.Other
			if got := errors.Is(k2, err); got != want {
				t.Errorf("Is(%v, E(%v)): got %v, want %v", k2, k, got, want)
			}
		}
	}
	if errors.Is(errors.Invalid, nil) {
		t.Error("nil error should not match any kind")
	}
}

func TestMatch(t *testing.T) {
	cause := goerrors.New("boom")
	err := errors.E(errors.Invalid, "freed bitset", cause)
	if !errors.Match(errors.E(errors.Invalid), err) {
		t.Error("kind-only template should match")
	}
	if !errors.Match(errors.E(errors.Invalid, "freed bitset", cause), err) {
		t.Error("full template should match")
	}
	if errors.Match(errors.E(errors.OOM), err) {
		t.Error("wrong kind should not match")
	}
	if errors.Match(errors.E(errors.Invalid, "other message"), err) {
		t.Error("wrong message should not match")
	}
}

func TestBadCall(t *testing.T) {
	err := errors.E(123.0)
	if !errors.Is(errors.Invalid, err) {
		t.Errorf("unrecognized argument should yield Invalid, got %v", err)
	}
}

func TestUnwrap(t *testing.T) {
	cause := goerrors.New("boom")
	err := errors.E(errors.Invalid, cause)
	if !goerrors.Is(err, cause) {
		t.Error("stdlib errors.Is should see through the chain")
	}
}
