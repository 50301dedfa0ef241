// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Operator access token required
)

// RouteSecurityConfig maps named HTTP routes to their required security level.
// Routes missing from the map require an access token.
var RouteSecurityConfig = map[string]SecurityLevel{
	"health":  SecurityPublic,
	"metrics": SecurityPublic,

	"panels.open":              SecurityAccess,
	"panels.get":               SecurityAccess,
	"panels.close":             SecurityAccess,
	"panels.patch":             SecurityAccess,
	"panels.references":        SecurityAccess,
	"panels.companions.add":    SecurityAccess,
	"panels.companions.remove": SecurityAccess,
	"panels.units.editor":      SecurityAccess,
	"panels.units.save":        SecurityAccess,
	"panels.guests.editor":     SecurityAccess,
	"panels.guests.save":       SecurityAccess,
	"panels.submit":            SecurityAccess,
	"submissions.get":          SecurityAccess,
}

// RouteSecurity returns the security level of a named route
func RouteSecurity(routeName string) SecurityLevel {
	if level, ok := RouteSecurityConfig[routeName]; ok {
		return level
	}
	return SecurityAccess
}
