package health

import (
	"context"
	"errors"
	"testing"
)

type mockChecker struct {
	err error
}

func (m *mockChecker) Ping(_ context.Context) error { return m.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockChecker{}, &mockChecker{})

	status, ok := svc.Check(context.Background())
	if !ok {
		t.Fatal("expected healthy")
	}
	if status.RecordStore != "ok" || status.SearchIndex != "ok" {
		t.Errorf("status = %+v", status)
	}
}

func TestCheck_IndexDown(t *testing.T) {
	svc := New(&mockChecker{}, &mockChecker{err: errors.New("connection refused")})

	status, ok := svc.Check(context.Background())
	if ok {
		t.Fatal("expected unhealthy")
	}
	if status.RecordStore != "ok" {
		t.Errorf("record store = %q, want ok", status.RecordStore)
	}
	if status.SearchIndex == "ok" {
		t.Error("expected search index error reported")
	}
}

func TestCheck_StoreDown(t *testing.T) {
	svc := New(&mockChecker{err: errors.New("dial timeout")}, &mockChecker{})

	_, ok := svc.Check(context.Background())
	if ok {
		t.Fatal("expected unhealthy")
	}
}
