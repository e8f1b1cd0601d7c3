package middleware

import (
	"context"
	"errors"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/protobuf/types/known/emptypb"
)

func TestMetricsInterceptor(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ok := func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&emptypb.Empty{}), nil
	}
	missing := func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("payer 9: not found"))
	}

	req := connect.NewRequest(&emptypb.Empty{})
	for range 2 {
		if _, err := m.Interceptor()(ok)(context.Background(), req); err != nil {
			t.Fatalf("interceptor returned error = %v", err)
		}
	}
	if _, err := m.Interceptor()(missing)(context.Background(), req); connect.CodeOf(err) != connect.CodeNotFound {
		t.Fatalf("interceptor error code = %v, want not_found", connect.CodeOf(err))
	}

	// A bare request has an empty procedure.
	if got := testutil.ToFloat64(m.requests.WithLabelValues("", "ok")); got != 2 {
		t.Errorf("ok requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("", "not_found")); got != 1 {
		t.Errorf("not_found requests = %v, want 1", got)
	}

	const want = `
# HELP receiptsplit_rpc_requests_total Number of RPCs handled, by procedure and result code.
# TYPE receiptsplit_rpc_requests_total counter
receiptsplit_rpc_requests_total{code="not_found",procedure=""} 1
receiptsplit_rpc_requests_total{code="ok",procedure=""} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "receiptsplit_rpc_requests_total"); err != nil {
		t.Error(err)
	}
}
