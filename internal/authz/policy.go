// Package authz interprets an account's permission set against required
// capabilities. The model is deliberately flat: the set holds a
// capability if it contains that exact token, or if it contains the
// administrator token, which implies everything. There is no role
// hierarchy and no wildcard matching.
package authz

// Capability is a named permission an account may hold.
type Capability string

// The capabilities Streamgate knows about. Permission sets are free to
// carry tokens outside this list; unknown tokens simply never match.
const (
	// CapStream allows publishing a stream through the admission webhook.
	CapStream Capability = "CAN_STREAM"

	// CapRestream allows relaying a stream to external endpoints.
	CapRestream Capability = "CAN_RESTREAM"

	// CapAdmin implies every other capability and gates account
	// administration (listing accounts, editing others' permissions).
	CapAdmin Capability = "IS_ADMIN"
)

// HasCapability reports whether the permission set holds the given
// capability, either directly or through the administrator override.
// Membership is an exact token match: a permission string that merely
// contains "IS_ADMIN" as a substring grants nothing.
func HasCapability(permissions []string, cap Capability) bool {
	for _, p := range permissions {
		if p == string(cap) || p == string(CapAdmin) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the permission set holds the administrator
// capability.
func IsAdmin(permissions []string) bool {
	return HasCapability(permissions, CapAdmin)
}
