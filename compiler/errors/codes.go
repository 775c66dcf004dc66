// Package errors defines the compiler's structured diagnostic model: stable
// phase-coded error codes, rich error context, and an accumulator used by
// hosts to merge lexer/parser/codegen diagnostics into one sorted report.
package errors

// Code is a stable, enumerated diagnostic code. Codes never change meaning
// once shipped; new diagnoses get new codes.
type Code string

const (
	// E0xx — lexical anomalies.
	ErrUnterminatedString  Code = "E001"
	ErrInvalidNumericLiteral Code = "E002"
	ErrStrayCharacter      Code = "E003"
	ErrUnterminatedComment Code = "E004"
	ErrUnterminatedTemplate Code = "E005"

	// E1xx — unexpected token / expected-X.
	ErrUnexpectedToken   Code = "E100"
	ErrExpectedKeyword   Code = "E101"
	ErrExpectedPunct     Code = "E102"
	ErrExpectedIdentifier Code = "E103"
	ErrExpectedType      Code = "E104"
	ErrExpectedModule    Code = "E105"
	ErrExpectedString    Code = "E106"
	ErrExpectedColon     Code = "E107"
	ErrExpectedEqual     Code = "E108"
	ErrExpectedBrace     Code = "E109"
	ErrExpectedParen     Code = "E110"
	ErrExpectedBracket   Code = "E111"
	ErrExpectedAngle     Code = "E112"

	// E2xx — invalid construct start.
	ErrInvalidExStart      Code = "E200"
	ErrInvalidCaseStarter  Code = "E201"

	// E3xx — semantic conflict at parse time.
	ErrVerbModifierConflict Code = "E300"
	ErrAnnotationMisplaced  Code = "E301"
	ErrMixedLogicalNullish  Code = "E302"
	ErrNegativeEnumValue    Code = "E303"
	ErrInvalidAssignTarget  Code = "E304"

	// E4xx — pattern rejection.
	ErrJSRestSyntax     Code = "E400"
	ErrPythonRestSyntax Code = "E401"
	ErrTSTypeAnnotation Code = "E402"

	// E5xx — codegen, "not implemented for target."
	ErrCodegenUnsupportedNode Code = "E500"
	ErrCodegenUnsupportedOp   Code = "E501"
)

// Phase names the pipeline stage that raised a diagnostic.
type Phase string

const (
	PhaseLexer  Phase = "lexer"
	PhaseParser Phase = "parser"
	PhaseCodegen Phase = "codegen"
)
