// Package reconcile implements the identity-key set difference at the
// core of every check.
package reconcile

// MemberRole is the composite membership key used by the IAM checks. A
// policy binding with N members expands to N keys.
type MemberRole struct {
	Member string
	Role   string
}

// BindingKeys flattens one policy binding into per-member keys.
func BindingKeys(role string, members []string) []MemberRole {
	keys := make([]MemberRole, 0, len(members))
	for _, m := range members {
		keys = append(keys, MemberRole{Member: m, Role: role})
	}
	return keys
}

// RecordSetKey is the quadruple key for DNS record sets: project scope,
// parent zone, record name and record type.
type RecordSetKey struct {
	Project string
	Zone    string
	Name    string
	Type    string
}
