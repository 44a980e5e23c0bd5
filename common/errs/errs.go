package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested account, event or request does not exist.
	NotFound = ErrorKind("Not Found")

	// InvalidArgument is returned when an input is malformed (non-positive amount, bad percentages).
	InvalidArgument = ErrorKind("Invalid Argument")

	// AlreadyProcessed marks an idempotent short-circuit. Callers treat it as a successful no-op.
	AlreadyProcessed = ErrorKind("Already Processed")

	// PolicyViolation is returned when a withdrawal rule rejects a request.
	PolicyViolation = ErrorKind("Policy Violation")

	// Transient is returned when a commit lost a race and may succeed on retry.
	Transient = ErrorKind("Transient")

	Conflict           = ErrorKind("Conflict")
	Unsupported        = ErrorKind("Unsupported")
	Timeout            = ErrorKind("Timeout")
	SomethingWentWrong = ErrorKind("Something Went Wrong")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
