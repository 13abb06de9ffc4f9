package report

import "errors"

// Sentinel errors forming the report engine's failure taxonomy. Everything
// before job creation is surfaced synchronously to the API caller; everything
// after is captured by the executor and reflected only in the job's terminal
// status.
var (
	// ErrValidation marks missing or malformed request fields.
	ErrValidation = errors.New("validation error")

	// ErrAccessDenied marks a scope referencing a company the caller is not
	// an active member of.
	ErrAccessDenied = errors.New("access denied")

	// ErrEntitlementRequired marks a premium report type requested without
	// the advanced-reporting entitlement.
	ErrEntitlementRequired = errors.New("advanced reporting entitlement required")

	// ErrScopeNotFound marks aggregation failing to resolve the referenced
	// company or project. Surfaces as job FAILED, never as an HTTP error.
	ErrScopeNotFound = errors.New("report scope not found")

	// ErrRenderFailure marks a rendering backend error.
	ErrRenderFailure = errors.New("render failure")

	// ErrArtifactWrite marks a durable artifact storage failure.
	ErrArtifactWrite = errors.New("artifact write failure")

	// ErrInvalidSchedule marks a cron expression that fails to parse.
	ErrInvalidSchedule = errors.New("invalid schedule expression")

	// ErrNotFound marks a job that does not exist or is not visible to the
	// caller.
	ErrNotFound = errors.New("report not found")
)
