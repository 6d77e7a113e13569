package util

import (
	"strings"
	"testing"
)

func NewTestingLogger(tb testing.TB) *CommitLogger {
	return &CommitLogger{
		Committer: func(p []byte) {
			tb.Log(strings.TrimRight(string(p), "\n"))
		},
		buf: nil,
	}
}
