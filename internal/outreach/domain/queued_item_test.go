package domain

import "testing"

func TestCanTransition(t *testing.T) {
	all := []Status{StatusPendingApproval, StatusApproved, StatusRejected, StatusSent, StatusCancelled}
	legal := map[[2]Status]bool{
		{StatusPendingApproval, StatusApproved}:  true,
		{StatusPendingApproval, StatusRejected}:  true,
		{StatusPendingApproval, StatusCancelled}: true,
		{StatusApproved, StatusSent}:             true,
	}

	for _, from := range all {
		for _, to := range all {
			want := legal[[2]Status{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}
