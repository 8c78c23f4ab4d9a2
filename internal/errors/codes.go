package errors

// Error codes for the sleuth analyzer.
// These codes are used in diagnostics and documentation to provide
// consistent error identification across the toolchain.
//
// Error code ranges:
// E0100-E0199: Snippet parser errors
// E0200-E0299: Binder errors
// E0300-E0699: Reserved for future use
// E0700-E0799: IR lowering errors
// E0800-E0899: Warning codes

const (
	// E0100: Syntax errors from the snippet parser
	ErrorSyntax = "E0100"

	// E0200: Unknown declaration type
	ErrorUnknownType = "E0200"

	// E0201: Identifier with no matching declaration
	ErrorUndefinedVariable = "E0201"

	// E0202: Statement shape the binder cannot translate
	ErrorInvalidStatement = "E0202"

	// E0700: Expression construct the lowering engine rejects (ternary)
	ErrorUnsupportedConstruct = "E0700"

	// E0701: Internal-consistency violation during lowering
	ErrorLoweringInvariant = "E0701"

	// Warning codes

	// W0800: Detector finding: unchecked low-level call result
	WarningUncheckedCall = "W0800"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorSyntax:
		return "Source could not be parsed"
	case ErrorUnknownType:
		return "Declaration uses an unknown type"
	case ErrorUndefinedVariable:
		return "Identifier is used but not declared"
	case ErrorInvalidStatement:
		return "Statement cannot be translated for analysis"
	case ErrorUnsupportedConstruct:
		return "Expression construct is not convertible to IR"
	case ErrorLoweringInvariant:
		return "Internal consistency violation during IR lowering"
	case WarningUncheckedCall:
		return "The return value of a low-level call is not checked"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the code represents a warning rather than an error
func IsWarning(code string) bool {
	return code >= "E0800" && code < "E0900" || code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0100" && code < "E0200":
		return "Parser"
	case code >= "E0200" && code < "E0300":
		return "Binder"
	case code >= "E0700" && code < "E0800":
		return "IR Lowering"
	case code >= "E0800" && code < "E0900", code[0] == 'W':
		return "Warning"
	default:
		return "Unknown"
	}
}
