package fib

import (
	"net"
	"testing"
)

type recordedCall struct {
	op      string
	dest    string
	nextHop string
}

type fakeInstaller struct {
	calls     []recordedCall
	failDests map[string]bool
}

func (f *fakeInstaller) Replace(dest *net.IPNet, nextHop net.IP) error {
	if f.failDests[dest.String()] {
		return errTest
	}
	f.calls = append(f.calls, recordedCall{op: "replace", dest: dest.String(), nextHop: nextHop.String()})
	return nil
}

func (f *fakeInstaller) Delete(dest *net.IPNet) error {
	f.calls = append(f.calls, recordedCall{op: "delete", dest: dest.String()})
	return nil
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("installer failure")

func TestApplyInstallsValidRoutes(t *testing.T) {
	installer := &fakeInstaller{}
	rc := NewReconciler(installer)

	installed := rc.Apply([]Route{
		{Dest: "10.0.1.0/24", NextHopIP: "10.0.0.1"},
		{Dest: "10.0.2.5", NextHopIP: "10.0.0.1"},
	})

	if installed != 2 {
		t.Fatalf("installed = %d, want 2", installed)
	}
	if len(installer.calls) != 2 {
		t.Fatalf("len(calls) = %d, want 2", len(installer.calls))
	}
}

func TestApplyRejectsInvalidDestinationsAndNextHops(t *testing.T) {
	installer := &fakeInstaller{}
	rc := NewReconciler(installer)

	installed := rc.Apply([]Route{
		{Dest: "not-an-ip", NextHopIP: "10.0.0.1"},
		{Dest: "10.0.1.0/24", NextHopIP: "not-an-ip"},
	})

	if installed != 0 {
		t.Fatalf("installed = %d, want 0", installed)
	}
	if len(installer.calls) != 0 {
		t.Fatalf("len(calls) = %d, want 0", len(installer.calls))
	}
}

func TestApplyWithdrawsStaleRoutes(t *testing.T) {
	installer := &fakeInstaller{}
	rc := NewReconciler(installer)

	rc.Apply([]Route{
		{Dest: "10.0.1.0/24", NextHopIP: "10.0.0.1"},
		{Dest: "10.0.2.0/24", NextHopIP: "10.0.0.1"},
	})

	installer.calls = nil
	rc.Apply([]Route{
		{Dest: "10.0.1.0/24", NextHopIP: "10.0.0.1"},
	})

	foundDelete := false
	for _, call := range installer.calls {
		if call.op == "delete" && call.dest == "10.0.2.0/24" {
			foundDelete = true
		}
		if call.op == "delete" && call.dest == "10.0.1.0/24" {
			t.Errorf("route still desired was deleted: %s", call.dest)
		}
	}
	if !foundDelete {
		t.Errorf("stale route 10.0.2.0/24 was not withdrawn, calls: %+v", installer.calls)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	installer := &fakeInstaller{}
	rc := NewReconciler(installer)

	routes := []Route{{Dest: "10.0.1.0/24", NextHopIP: "10.0.0.1"}}

	rc.Apply(routes)
	firstCallCount := len(installer.calls)

	rc.Apply(routes)
	secondCallCount := len(installer.calls) - firstCallCount

	if firstCallCount != secondCallCount {
		t.Errorf("second Apply issued %d calls, want %d (same as the first)", secondCallCount, firstCallCount)
	}
}
