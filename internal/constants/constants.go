package constants

// Context keys shared between middleware and handlers.
const (
	ContextKeyActor = "actor"
)

// Validation limits.
const (
	MinPasswordLength = 10
)

// Pagination defaults.
const (
	MinPage         = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Audit retrieval limits.
const (
	DefaultAuditLimit = 200
	MaxAuditLimit     = 500
)
