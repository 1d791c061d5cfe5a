package status

import "testing"

func TestCanTransition_RiderHappyPath(t *testing.T) {
	steps := []struct {
		from, to Status
	}{
		{Assigned, PickedUp},
		{PickedUp, Delivering},
		{Delivering, Delivered},
	}
	for _, s := range steps {
		if !CanTransition(RoleRider, s.from, s.to) {
			t.Errorf("rider %s -> %s should be allowed", s.from, s.to)
		}
	}
}

func TestCanTransition_VendorPath(t *testing.T) {
	allowed := []struct {
		from, to Status
	}{
		{Pending, Accepted},
		{Pending, Rejected},
		{Accepted, Preparing},
		{Preparing, Ready},
		{Ready, Assigned},
	}
	for _, s := range allowed {
		if !CanTransition(RoleVendor, s.from, s.to) {
			t.Errorf("vendor %s -> %s should be allowed", s.from, s.to)
		}
	}
	if CanTransition(RoleVendor, Pending, Delivered) {
		t.Error("vendor must not jump pending -> delivered")
	}
}

func TestCanTransition_TerminalStatesAreFinal(t *testing.T) {
	for _, terminal := range []Status{Delivered, Cancelled, Failed, Rejected} {
		for _, role := range []Role{RoleUser, RoleVendor, RoleRider, RoleAdmin} {
			if CanTransition(role, terminal, Pending) {
				t.Errorf("%s must not leave terminal status %s", role, terminal)
			}
		}
	}
}

func TestCanTransition_RoleScoping(t *testing.T) {
	if CanTransition(RoleUser, Assigned, PickedUp) {
		t.Error("user must not perform rider transitions")
	}
	if CanTransition(RoleRider, Pending, Accepted) {
		t.Error("rider must not perform vendor transitions")
	}
}

func TestCanTransition_AdminForceExit(t *testing.T) {
	if !CanTransition(RoleAdmin, Delivering, Failed) {
		t.Error("admin should force-fail an in-flight order")
	}
	if !CanTransition(RoleAdmin, Preparing, Cancelled) {
		t.Error("admin should force-cancel a preparing order")
	}
	if CanTransition(RoleAdmin, Delivered, Cancelled) {
		t.Error("admin must not cancel a delivered order")
	}
}

func TestCanTransition_UnknownTargetRejected(t *testing.T) {
	if CanTransition(RoleAdmin, Pending, Status("shipped")) {
		t.Error("unknown status must be rejected")
	}
}

func TestNextStatuses(t *testing.T) {
	next := NextStatuses(RoleRider, Assigned)
	want := map[Status]bool{PickedUp: true, Failed: true}
	if len(next) != len(want) {
		t.Fatalf("rider next from assigned = %v", next)
	}
	for _, s := range next {
		if !want[s] {
			t.Fatalf("unexpected next status %s", s)
		}
	}
	if got := NextStatuses(RoleRider, Delivered); len(got) != 0 {
		t.Fatalf("terminal state should have no next statuses, got %v", got)
	}
}
