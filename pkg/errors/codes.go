package errors

import "strings"

// ErrorCode is a string representation of a specific error condition.
// Codes are prefixed by the module they belong to (COMMON, ENS, STR, GEO, ALN)
// so that logs and metrics can be grouped per module.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTimeout            ErrorCode = "COMMON_005"
	ErrCodeValidation         ErrorCode = "COMMON_006"
	ErrCodeSerialization      ErrorCode = "COMMON_007"
	ErrCodeCacheError         ErrorCode = "COMMON_008"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_009"
	ErrCodeNotImplemented     ErrorCode = "COMMON_010"
	ErrCodeInvalidState       ErrorCode = "COMMON_011"
)

// Ensemble module error codes
const (
	ErrCodeEnsembleEmpty          ErrorCode = "ENS_001"
	ErrCodeStructureCountMismatch ErrorCode = "ENS_002"
	ErrCodeAlignmentDetached      ErrorCode = "ENS_003"
)

// Structure store error codes
const (
	ErrCodeStructureNotFound         ErrorCode = "STR_001"
	ErrCodeStructureResolveFailed    ErrorCode = "STR_002"
	ErrCodeStructureParseFailed      ErrorCode = "STR_003"
	ErrCodeStructureStoreUnavailable ErrorCode = "STR_004"
	ErrCodeNoStructureProvider       ErrorCode = "STR_005"
)

// Geometry error codes
const (
	ErrCodeMalformedRotation  ErrorCode = "GEO_001"
	ErrCodeMalformedShift     ErrorCode = "GEO_002"
	ErrCodeMalformedTransform ErrorCode = "GEO_003"
	ErrCodeDimensionMismatch  ErrorCode = "GEO_004"
)

// Alignment module error codes
const (
	ErrCodeBlockRowMismatch       ErrorCode = "ALN_001"
	ErrCodeSegmentLengthMismatch  ErrorCode = "ALN_002"
	ErrCodeTransformCountMismatch ErrorCode = "ALN_003"
	ErrCodeEmptyPairwiseResult    ErrorCode = "ALN_004"
	ErrCodeModeInvalid            ErrorCode = "ALN_005"
	ErrCodeScoreNotFound          ErrorCode = "ALN_006"
)

// Aliases used by the generic factories in errors.go.
const (
	CodeInternal       = ErrCodeInternal
	CodeInvalidParam   = ErrCodeBadRequest
	CodeNotFound       = ErrCodeNotFound
	CodeConflict       = ErrCodeConflict
	CodeInvalidState   = ErrCodeInvalidState
	CodeNotImplemented = ErrCodeNotImplemented
	CodeOK             = ErrorCode("OK")
	CodeUnknown        = ErrorCode("UNKNOWN")
)

// Process exit statuses follow the BSD sysexits convention so that shell
// callers can distinguish bad input from transient infrastructure failures.
const (
	exitUsage       = 64 // command line usage error
	exitDataErr     = 65 // input data was incorrect in some way
	exitNoInput     = 66 // an input (file, structure) did not exist
	exitUnavailable = 69 // a service or store is unavailable
	exitSoftware    = 70 // internal software error
	exitIOErr       = 74 // input/output error
	exitTempFail    = 75 // temporary failure, retry may succeed
)

// ErrorCodeExitStatus maps ErrorCodes to process exit statuses.
var ErrorCodeExitStatus = map[ErrorCode]int{
	ErrCodeInternal:           exitSoftware,
	ErrCodeBadRequest:         exitUsage,
	ErrCodeNotFound:           exitNoInput,
	ErrCodeConflict:           exitDataErr,
	ErrCodeTimeout:            exitTempFail,
	ErrCodeValidation:         exitDataErr,
	ErrCodeSerialization:      exitDataErr,
	ErrCodeCacheError:         exitUnavailable,
	ErrCodeServiceUnavailable: exitUnavailable,
	ErrCodeNotImplemented:     exitSoftware,
	ErrCodeInvalidState:       exitDataErr,

	ErrCodeEnsembleEmpty:          exitDataErr,
	ErrCodeStructureCountMismatch: exitDataErr,
	ErrCodeAlignmentDetached:      exitDataErr,

	ErrCodeStructureNotFound:         exitNoInput,
	ErrCodeStructureResolveFailed:    exitUnavailable,
	ErrCodeStructureParseFailed:      exitDataErr,
	ErrCodeStructureStoreUnavailable: exitUnavailable,
	ErrCodeNoStructureProvider:       exitUsage,

	ErrCodeMalformedRotation:  exitDataErr,
	ErrCodeMalformedShift:     exitDataErr,
	ErrCodeMalformedTransform: exitDataErr,
	ErrCodeDimensionMismatch:  exitDataErr,

	ErrCodeBlockRowMismatch:       exitDataErr,
	ErrCodeSegmentLengthMismatch:  exitDataErr,
	ErrCodeTransformCountMismatch: exitDataErr,
	ErrCodeEmptyPairwiseResult:    exitDataErr,
	ErrCodeModeInvalid:            exitUsage,
	ErrCodeScoreNotFound:          exitNoInput,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTimeout:            "operation timed out",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeNotImplemented:     "not implemented",
	ErrCodeInvalidState:       "object is not in a usable state",

	ErrCodeEnsembleEmpty:          "ensemble has neither structure identifiers nor atom arrays",
	ErrCodeStructureCountMismatch: "structure count differs from the ensemble size",
	ErrCodeAlignmentDetached:      "alignment is not attached to an ensemble",

	ErrCodeStructureNotFound:         "structure not found",
	ErrCodeStructureResolveFailed:    "failed to resolve structure atoms",
	ErrCodeStructureParseFailed:      "failed to parse structure data",
	ErrCodeStructureStoreUnavailable: "structure store unavailable",
	ErrCodeNoStructureProvider:       "no structure provider configured",

	ErrCodeMalformedRotation:  "rotation matrix is not 3x3",
	ErrCodeMalformedShift:     "shift vector does not have 3 components",
	ErrCodeMalformedTransform: "malformed transformation",
	ErrCodeDimensionMismatch:  "matrix dimensions do not match",

	ErrCodeBlockRowMismatch:       "block rows have unequal lengths",
	ErrCodeSegmentLengthMismatch:  "aligned segment lists have unequal lengths",
	ErrCodeTransformCountMismatch: "transformation count differs from the structure count",
	ErrCodeEmptyPairwiseResult:    "pairwise result is empty",
	ErrCodeModeInvalid:            "unknown conversion mode",
	ErrCodeScoreNotFound:          "score not found",
}

// ExitStatusForCode returns the process exit status for an ErrorCode.
func ExitStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeExitStatus[code]; ok {
		return status
	}
	return exitSoftware
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsRetryable reports whether the code names a transient condition where the
// same call may succeed later (store outages, timeouts).  Structural and
// validation failures are never retryable.
func IsRetryable(code ErrorCode) bool {
	switch code {
	case ErrCodeTimeout, ErrCodeCacheError, ErrCodeServiceUnavailable,
		ErrCodeStructureResolveFailed, ErrCodeStructureStoreUnavailable:
		return true
	}
	return false
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
