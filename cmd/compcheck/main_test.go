package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/matzehuels/compcheck/internal/cli"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{cli.ErrFindings, 1},
		{fmt.Errorf("check: %w", context.Canceled), 130},
		{errors.New("boom"), 2},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
