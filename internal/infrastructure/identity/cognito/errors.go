package cognito

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
	"github.com/eightysix/analytics/internal/domain/shared"
)

type operation int

const (
	opRegister operation = iota
	opVerify
	opAuthenticate
	opReset
	opAdmin
)

// translate maps Cognito fault codes to domain errors. Codes not listed are
// wrapped unchanged and surface as internal errors.
func translate(err error, op operation) error {
	if err == nil {
		return nil
	}
	if isDeadline(err) {
		return fmt.Errorf("cognito: %w", err)
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("cognito: %w", err)
	}

	switch apiErr.ErrorCode() {
	case "UsernameExistsException", "AliasExistsException":
		return shared.ErrUniqueEmail
	case "InvalidParameterException", "InvalidPasswordException":
		return shared.NewValidationError().Add(fieldFor(op), apiErr.ErrorMessage()).OrNil()
	case "LimitExceededException", "TooManyRequestsException", "TooManyFailedAttemptsException":
		return shared.ErrLimitExceeded
	case "ExpiredCodeException", "CodeMismatchException":
		return shared.ErrVerificationCodeNotFound
	case "UserNotFoundException":
		if op == opAuthenticate {
			return shared.ErrIncorrectCredentials
		}
		if op == opVerify {
			return shared.ErrVerificationCodeNotFound
		}
		return shared.ErrUserNotFound
	case "NotAuthorizedException", "UserNotConfirmedException":
		if op == opAuthenticate {
			return shared.ErrIncorrectCredentials
		}
		return shared.ErrForbidden
	}
	return fmt.Errorf("cognito %s: %w", apiErr.ErrorCode(), err)
}

func fieldFor(op operation) string {
	switch op {
	case opVerify, opReset:
		return "code"
	default:
		return "password"
	}
}
