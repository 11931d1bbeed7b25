package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserver_Success(t *testing.T) {
	before := testutil.ToFloat64(QueryExecutionsTotal.WithLabelValues("valkey", "ok"))
	projected := testutil.ToFloat64(RecordsProjectedTotal)

	Observer{}.ObserveExecution("valkey", 5*time.Millisecond, 3, nil)

	if got := testutil.ToFloat64(QueryExecutionsTotal.WithLabelValues("valkey", "ok")); got != before+1 {
		t.Errorf("executions ok = %f, want %f", got, before+1)
	}
	if got := testutil.ToFloat64(RecordsProjectedTotal); got != projected+3 {
		t.Errorf("records projected = %f, want %f", got, projected+3)
	}
	if testutil.CollectAndCount(QueryDuration) == 0 {
		t.Error("expected query duration observations")
	}
}

func TestObserver_Error(t *testing.T) {
	before := testutil.ToFloat64(QueryExecutionsTotal.WithLabelValues("redis", "error"))
	projected := testutil.ToFloat64(RecordsProjectedTotal)

	Observer{}.ObserveExecution("redis", time.Millisecond, 0, errors.New("boom"))

	if got := testutil.ToFloat64(QueryExecutionsTotal.WithLabelValues("redis", "error")); got != before+1 {
		t.Errorf("executions error = %f, want %f", got, before+1)
	}
	if got := testutil.ToFloat64(RecordsProjectedTotal); got != projected {
		t.Errorf("failed executions must not count records, got %f", got)
	}
}

func TestRegister_Idempotent(t *testing.T) {
	Register()
	Register()
}
