package status

// Status is the order lifecycle state. The vocabulary and the transition
// table below are the single source of truth consulted by every role's
// handlers; no handler hard-codes its own status checks.
type Status string

const (
	Pending             Status = "pending"
	PendingConfirmation Status = "pending_confirmation"
	Accepted            Status = "accepted"
	Rejected            Status = "rejected"
	Preparing           Status = "preparing"
	Ready               Status = "ready"
	Assigned            Status = "assigned"
	PickedUp            Status = "picked_up"
	Delivering          Status = "delivering"
	Delivered           Status = "delivered"
	Cancelled           Status = "cancelled"
	Failed              Status = "failed"
)

// Role identifies which actor is attempting a transition.
type Role string

const (
	RoleUser   Role = "user"
	RoleVendor Role = "vendor"
	RoleRider  Role = "rider"
	RoleAdmin  Role = "admin"
)

// Valid reports whether s belongs to the known vocabulary.
func (s Status) Valid() bool {
	switch s {
	case Pending, PendingConfirmation, Accepted, Rejected, Preparing, Ready,
		Assigned, PickedUp, Delivering, Delivered, Cancelled, Failed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s Status) Terminal() bool {
	switch s {
	case Delivered, Cancelled, Failed, Rejected:
		return true
	}
	return false
}

// transitions maps role -> current status -> allowed next statuses.
//
// Vendor path: pending -> accepted/rejected -> preparing -> ready.
// Rider path: assigned -> picked_up -> delivering -> delivered, with
// failed as a side-exit. Users may cancel before the rider picks up.
// Admins may additionally force cancellation or failure from any
// non-terminal state (handled in CanTransition, not listed here).
var transitions = map[Role]map[Status][]Status{
	RoleUser: {
		Pending:             {PendingConfirmation, Cancelled},
		PendingConfirmation: {Cancelled},
		Accepted:            {Cancelled},
		Assigned:            {Cancelled},
	},
	RoleVendor: {
		Pending:             {Accepted, Rejected},
		PendingConfirmation: {Accepted, Rejected, Assigned},
		Accepted:            {Preparing},
		Preparing:           {Ready},
		Ready:               {Assigned},
	},
	RoleRider: {
		Assigned:   {PickedUp, Failed},
		PickedUp:   {Delivering, Failed},
		Delivering: {Delivered, Failed},
	},
}

// CanTransition reports whether role may move an order from one status to
// another. Terminal states accept no transitions for any role.
func CanTransition(role Role, from, to Status) bool {
	if from.Terminal() || !to.Valid() {
		return false
	}
	if role == RoleAdmin {
		// Admins may drive any forward transition plus force-exit.
		if to == Cancelled || to == Failed {
			return true
		}
		for _, byRole := range transitions {
			for _, next := range byRole[from] {
				if next == to {
					return true
				}
			}
		}
		return false
	}
	for _, next := range transitions[role][from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses role may move an order to from the
// given state. Used by clients to decide which actions to render.
func NextStatuses(role Role, from Status) []Status {
	if from.Terminal() {
		return nil
	}
	if role == RoleAdmin {
		seen := map[Status]bool{}
		var out []Status
		for _, byRole := range transitions {
			for _, next := range byRole[from] {
				if !seen[next] {
					seen[next] = true
					out = append(out, next)
				}
			}
		}
		for _, forced := range []Status{Cancelled, Failed} {
			if !seen[forced] {
				seen[forced] = true
				out = append(out, forced)
			}
		}
		return out
	}
	next := transitions[role][from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}
