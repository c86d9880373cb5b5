package service

import "fmt"

// ErrorKind is the closed taxonomy of authentication-flow failures. Every
// error that crosses the flow boundary carries exactly one kind; handlers
// switch on it exhaustively and never see raw store or signing errors.
type ErrorKind string

const (
	KindValidation         ErrorKind = "VALIDATION"
	KindInvalidCredential  ErrorKind = "INVALID_CREDENTIAL"
	KindConflict           ErrorKind = "EMAIL_TAKEN"
	KindDelivery           ErrorKind = "DELIVERY_FAILED"
	KindPersistence        ErrorKind = "PERSISTENCE"
	KindNoPendingChallenge ErrorKind = "NO_PENDING_CODE"
	KindExpired            ErrorKind = "CODE_EXPIRED"
	KindMismatch           ErrorKind = "CODE_MISMATCH"
	KindInvalidOrExpired   ErrorKind = "INVALID_OR_EXPIRED_TOKEN"
	KindInternal           ErrorKind = "INTERNAL"
)

type FlowError struct {
	Kind ErrorKind
	msg  string
	err  error
}

func (e *FlowError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *FlowError) Unwrap() error { return e.err }

// Is makes two flow errors of the same kind match under errors.Is, so the
// exported sentinels below double as comparison targets.
func (e *FlowError) Is(target error) bool {
	t, ok := target.(*FlowError)
	return ok && t.Kind == e.Kind
}

func flowErr(kind ErrorKind, msg string) *FlowError {
	return &FlowError{Kind: kind, msg: msg}
}

func wrapFlowErr(kind ErrorKind, msg string, err error) *FlowError {
	return &FlowError{Kind: kind, msg: msg, err: err}
}

// Sentinels for the fixed-message kinds. InvalidCredential is deliberately
// undifferentiated between unknown email and wrong password.
var (
	ErrInvalidCredential = flowErr(KindInvalidCredential, "invalid email or password")
	ErrEmailTaken        = flowErr(KindConflict, "email is already registered")
	ErrDeliveryFailed    = flowErr(KindDelivery, "failed to send verification code")
	ErrNoPendingPasscode = flowErr(KindNoPendingChallenge, "no verification code found for this email")
	ErrPasscodeExpired   = flowErr(KindExpired, "verification code has expired")
	ErrPasscodeMismatch  = flowErr(KindMismatch, "invalid verification code")
	ErrSessionInvalid    = flowErr(KindInvalidOrExpired, "invalid or expired token")
)

func validationErr(format string, args ...any) *FlowError {
	return flowErr(KindValidation, fmt.Sprintf(format, args...))
}

func persistenceErr(msg string, err error) *FlowError {
	return wrapFlowErr(KindPersistence, msg, err)
}

// KindOf classifies any error into the taxonomy; everything unrecognized is
// internal and must be reported generically to callers.
func KindOf(err error) ErrorKind {
	var fe *FlowError
	if ok := asFlowError(err, &fe); ok {
		return fe.Kind
	}
	return KindInternal
}

func asFlowError(err error, target **FlowError) bool {
	for err != nil {
		if fe, ok := err.(*FlowError); ok {
			*target = fe
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
