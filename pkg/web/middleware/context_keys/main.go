package context_keys

type contextKey string

// OperatorContextKey carries the authenticated operator account name.
const OperatorContextKey contextKey = "operator"

// RoleContextKey carries the authenticated operator role.
const RoleContextKey contextKey = "role"
