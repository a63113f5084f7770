// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package bitset provides a fixed-length bit-vector container: a
// sequence of addressable boolean values packed into 64-bit words,
// with single-bit update and query, whole-set boolean algebra, bulk
// clear, duplication, and resize.  It's essentially a fixed-length,
// error-checked variant of github.com/willf/bitset, for callers that
// want the classic C bitset contract (explicit create/free/resize,
// strict index range checks) rather than a growable set.
//
// A Bitset is single-threaded by contract: no operation locks, and
// concurrent access from multiple goroutines, even for reads, must be
// serialized by the caller.
package bitset
