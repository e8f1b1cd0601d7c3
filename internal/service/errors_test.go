package service

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/receiptsplit/internal/ledger"
)

func TestToConnectError(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		name string
		err  error
		want connect.Code
	}{
		{"not found", fmt.Errorf("payer 3: %w", ledger.ErrNotFound), connect.CodeNotFound},
		{"itemized", fmt.Errorf("receipt 1: %w", ledger.ErrReceiptItemized), connect.CodeFailedPrecondition},
		{"store failure", errors.New("disk I/O error"), connect.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := toConnectError("AddReceipt", tt.err)
			if code := connect.CodeOf(err); code != tt.want {
				t.Errorf("code = %v, want %v", code, tt.want)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("expected %v to wrap %v", err, tt.err)
			}
		})
	}

	internal := toConnectError("AddReceipt", errors.New("disk I/O error"))
	if !strings.Contains(internal.Error(), "AddReceipt") {
		t.Errorf("expected operation in internal error, got %q", internal.Error())
	}
	if buf.Len() != 0 {
		t.Errorf("expected no log output from error mapping, got %q", buf.String())
	}
}
