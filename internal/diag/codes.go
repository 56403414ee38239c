// Package diag provides the structured diagnostic type and error code
// taxonomy shared by every phase of the aster compiler.
package diag

// Error codes, grouped by the phase that raises them.
const (
	// Lexical/structural (PAR0xx): bad tokens, mismatched INDENT/DEDENT.
	ParBadToken    = "PAR001"
	ParUnbalanced  = "PAR002"
	ParUnexpected  = "PAR003"

	// Declaration parsing (PAR1xx).
	ParExpectType    = "PAR101"
	ParExpectKeyword = "PAR102"
	ParDuplicateDecl = "PAR103"
	ParBadLiteral    = "PAR104"

	// Resolver / module loading (RES0xx).
	ResLockfileSyntax = "RES001"
	ResUnresolvedDep   = "RES002"
	ResModuleNotFound  = "RES003"
	ResIOFailure       = "RES004"

	// Name resolution / typing (SEM0xx).
	SemUnknownIdent   = "SEM001"
	SemAmbiguousName  = "SEM002"
	SemTypeMismatch   = "SEM003"
	SemNotAssignable  = "SEM004"
	SemArityMismatch  = "SEM005"
	SemMissingReturn  = "SEM006"

	// noalloc analysis (NOALLOC0xx).
	NoallocViolation = "NOALLOC001"

	// Cache (CACHE0xx) — never fatal, logged only.
	CacheReadFailure  = "CACHE001"
	CacheWriteFailure = "CACHE002"
)

// Phase names used in Report.Phase.
const (
	PhaseResolve  = "resolve"
	PhaseParse    = "parse"
	PhaseSema     = "sema"
	PhaseCodegen  = "codegen"
	PhaseCache    = "cache"
)
