// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package optimistic implements the single optimistic-update pattern the
// views share: apply a local change first, then make the backend call;
// reconcile to the server's authoritative value on success, restore the
// captured prior value on failure. The displayed state may therefore
// diverge from the server's for at most one failed round trip.
package optimistic

// Do runs an optimistic action whose backend call returns the
// authoritative new state (e.g. the like toggle's {totalLikes, hasLiked}).
// apply must assign a new value through the pointer rather than mutate
// shared backing storage in place — the pre-call value is captured by a
// shallow copy and must survive for rollback.
func Do[S any](state *S, apply func(*S), call func() (S, error)) error {
	prev := *state
	apply(state)

	authoritative, err := call()
	if err != nil {
		*state = prev
		return err
	}

	*state = authoritative
	return nil
}

// Try runs an optimistic action whose backend call confirms without
// returning state (e.g. a delete). The applied value is kept on success
// and rolled back on failure. The same shallow-copy caveat as Do applies.
func Try[S any](state *S, apply func(*S), call func() error) error {
	prev := *state
	apply(state)

	if err := call(); err != nil {
		*state = prev
		return err
	}
	return nil
}
