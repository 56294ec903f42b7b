package state_test

import (
	"testing"

	"github.com/goliatone/go-presentation"
	"github.com/goliatone/go-presentation/pkg/state"
)

func TestRefIdentifier(t *testing.T) {
	cases := []struct {
		name string
		ref  state.Ref
		want string
	}{
		{
			name: "system",
			ref:  state.Ref{Domain: "orders", Scope: presentation.NewScope("system", presentation.ScopePrioritySystem)},
			want: "system/orders",
		},
		{
			name: "user",
			ref: state.Ref{Domain: "orders", Scope: presentation.NewScope("user", presentation.ScopePriorityUser,
				presentation.WithScopeMetadata(map[string]any{"user_id": "u42"}))},
			want: "user/u42/orders",
		},
		{
			name: "team",
			ref: state.Ref{Domain: "orders", Scope: presentation.NewScope("team", presentation.ScopePriorityTeam,
				presentation.WithScopeMetadata(map[string]any{"team_id": "t7"}))},
			want: "team/t7/orders",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.ref.Identifier()
			if err != nil {
				t.Fatalf("identifier: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestRefIdentifierErrors(t *testing.T) {
	refs := []state.Ref{
		{Domain: "orders", Scope: presentation.NewScope("user", presentation.ScopePriorityUser)},
		{Domain: "orders", Scope: presentation.NewScope("user", presentation.ScopePriorityUser,
			presentation.WithScopeMetadata(map[string]any{"user_id": 42}))},
		{Domain: "orders", Scope: presentation.NewScope("global", 1)},
		{Scope: presentation.NewScope("system", presentation.ScopePrioritySystem)},
	}
	for _, ref := range refs {
		if _, err := ref.Identifier(); err == nil {
			t.Fatalf("expected error for %+v", ref)
		}
	}
}
