package main

import (
	"bytes"

	"github.com/lox/holdem/internal/fileutil"
	"github.com/lox/holdem/internal/phh"
	"github.com/lox/holdem/internal/table"
)

// handLog collects settled hands as a .phhs file. Hands are numbered in the
// order they arrive. Not safe for concurrent use.
type handLog struct {
	buf   bytes.Buffer
	hands int
	err   error
}

func (l *handLog) add(h table.HandResult) {
	if l.err != nil {
		return
	}
	l.hands++
	l.err = phh.EncodeSection(&l.buf, l.hands, phh.FromHand(h))
}

func (l *handLog) save(path string) error {
	if l.err != nil {
		return l.err
	}
	return fileutil.WriteFileAtomic(path, l.buf.Bytes(), 0o644)
}
