package presentation

const (
	// Recommended priorities for common layering patterns. Higher numbers win.
	ScopePrioritySystem = 100
	ScopePriorityTenant = 200
	ScopePriorityOrg    = 300
	ScopePriorityTeam   = 400
	ScopePriorityUser   = 500
)

// SystemTeamUser resolves the usual three-layer chain (system defaults, team
// override, personal override) into a State.
func SystemTeamUser(system, team, user ClassJSON, opts ...Option) (*State, error) {
	stack, err := NewStack(
		NewLayer(NewScope("user", ScopePriorityUser, WithScopeLabel("User")), user),
		NewLayer(NewScope("team", ScopePriorityTeam, WithScopeLabel("Team")), team),
		NewLayer(NewScope("system", ScopePrioritySystem, WithScopeLabel("System Defaults")), system),
	)
	if err != nil {
		return nil, err
	}
	return stack.Resolve(opts...)
}
