package core

import "strings"

// Environment selects runtime behavior that differs between local runs and
// deployed instances, notably log output format and level.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

// IsProduction reports whether the environment corresponds to a deployed
// production instance.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment normalises the ENVIRONMENT variable into one of the known
// environments. Matching is case-insensitive because the value typically
// arrives from hand-edited .env files; anything unrecognised falls back to
// Development so a misconfigured instance still starts with verbose logs.
func ParseEnvironment(v string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(v))) {
	case Production:
		return Production
	case Staging:
		return Staging
	case Testing:
		return Testing
	default:
		return Development
	}
}
