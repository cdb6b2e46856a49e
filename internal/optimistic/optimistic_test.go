// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package optimistic

import (
	"errors"
	"testing"

	"inkfeed/internal/models"
)

func flipLike(s *models.LikeState) {
	if s.HasLiked {
		s.HasLiked = false
		s.TotalLikes--
	} else {
		s.HasLiked = true
		s.TotalLikes++
	}
}

func TestDoReconcilesToAuthoritativeState(t *testing.T) {
	state := models.LikeState{TotalLikes: 3, HasLiked: false}

	// The server reports a different total than the local flip produced
	// (someone else liked in the meantime). The authoritative value wins.
	err := Do(&state, flipLike, func() (models.LikeState, error) {
		return models.LikeState{TotalLikes: 5, HasLiked: true}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if state.TotalLikes != 5 || !state.HasLiked {
		t.Errorf("state = %+v, want {5 true}", state)
	}
}

func TestDoRollsBackExactlyOnFailure(t *testing.T) {
	initial := models.LikeState{TotalLikes: 3, HasLiked: false}
	state := initial

	var applied models.LikeState
	wantErr := errors.New("backend down")
	err := Do(&state,
		func(s *models.LikeState) {
			flipLike(s)
			applied = *s
		},
		func() (models.LikeState, error) {
			return models.LikeState{}, wantErr
		},
	)

	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if applied.TotalLikes != 4 || !applied.HasLiked {
		t.Errorf("optimistic flip was not applied before the call: %+v", applied)
	}
	if state != initial {
		t.Errorf("state = %+v, want exact rollback to %+v", state, initial)
	}
}

func TestDoDoubleToggleConverges(t *testing.T) {
	// A like followed by an unlike must land back on the starting state
	// when the server confirms both, regardless of intermediate flips.
	server := models.LikeState{TotalLikes: 3, HasLiked: false}
	state := server

	toggle := func() error {
		return Do(&state, flipLike, func() (models.LikeState, error) {
			flipLike(&server)
			return server, nil
		})
	}

	if err := toggle(); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if state.TotalLikes != 4 || !state.HasLiked {
		t.Fatalf("after like: %+v, want {4 true}", state)
	}

	if err := toggle(); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if state.TotalLikes != 3 || state.HasLiked {
		t.Errorf("after unlike: %+v, want {3 false}", state)
	}
}

func TestTryKeepsAppliedValueOnSuccess(t *testing.T) {
	posts := []models.Post{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	err := Try(&posts,
		func(ps *[]models.Post) {
			kept := make([]models.Post, 0, len(*ps))
			for _, p := range *ps {
				if p.ID != "2" {
					kept = append(kept, p)
				}
			}
			*ps = kept
		},
		func() error { return nil },
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(posts) != 2 || posts[0].ID != "1" || posts[1].ID != "3" {
		t.Errorf("posts = %v, want post 2 removed", posts)
	}
}

func TestTryRollsBackOnFailure(t *testing.T) {
	posts := []models.Post{{ID: "1"}, {ID: "2"}}

	err := Try(&posts,
		func(ps *[]models.Post) {
			// Assign a fresh slice; the previous backing array must stay intact
			// for the rollback.
			*ps = []models.Post{(*ps)[0]}
		},
		func() error { return errors.New("forbidden") },
	)
	if err == nil {
		t.Fatal("expected an error")
	}

	if len(posts) != 2 || posts[0].ID != "1" || posts[1].ID != "2" {
		t.Errorf("posts = %v, want the original two entries restored", posts)
	}
}
