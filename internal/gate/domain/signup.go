package domain

// SignupState tracks a signup attempt through the orchestrator. Rejected is
// absorbing; a retry starts a fresh attempt at Requested.
type SignupState string

const (
	SignupRequested SignupState = "requested"
	SignupCodeSent  SignupState = "code_sent"
	SignupVerified  SignupState = "verified"
	SignupCompleted SignupState = "completed"
	SignupRejected  SignupState = "rejected"
)
