package session

import "fmt"

// PermissionDeniedError indicates a required OS permission was refused.
type PermissionDeniedError struct {
	Permission string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("required permission '%s' not granted", e.Permission)
}

// PermissionGate asks the host for permissions and reports which were granted.
type PermissionGate interface {
	Request(permissions []string) map[string]bool
}

// StaticGate grants a fixed set of permissions.
type StaticGate map[string]bool

// NewStaticGate grants exactly the given permissions.
func NewStaticGate(granted []string) StaticGate {
	g := make(StaticGate, len(granted))
	for _, p := range granted {
		g[p] = true
	}
	return g
}

// Request implements PermissionGate.
func (g StaticGate) Request(permissions []string) map[string]bool {
	out := make(map[string]bool, len(permissions))
	for _, p := range permissions {
		out[p] = g[p]
	}
	return out
}

// checkPermissions fails on the first required permission that was not granted.
func checkPermissions(gate PermissionGate, required []string) error {
	if len(required) == 0 {
		return nil
	}

	granted := gate.Request(required)
	for _, p := range required {
		if !granted[p] {
			return &PermissionDeniedError{Permission: p}
		}
	}
	return nil
}
