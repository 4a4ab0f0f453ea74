package auth

// Scopes granted to session tokens.
const (
	ScopeGoalsRead      = "goals:read"
	ScopeGoalsWrite     = "goals:write"
	ScopeFootprintWrite = "footprint:write"
	ScopeAdvice         = "advice:read"
)

// DefaultScopes are granted to every signed-in user.
var DefaultScopes = []string{ScopeGoalsRead, ScopeGoalsWrite, ScopeFootprintWrite, ScopeAdvice}
