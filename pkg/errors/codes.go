package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations: opening the
	// database file, positioned reads/writes, stat, and truncate.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side errors where the provided
	// data doesn't meet the system's requirements or constraints. This maps
	// to HTTP 400-series errors and indicates problems with the request itself
	// rather than system failures.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories. These are the equivalent of HTTP 500 errors and
	// indicate bugs, assertion failures, or other programming errors that
	// shouldn't occur during normal operation.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Store-specific error codes extend the base error taxonomy to handle the
// unique failure modes of the block-based, single-file storage engine.
const (
	// ErrorCodeCorruptBlock indicates that a block's decoded length would
	// overrun end-of-file, or its flags byte claims a non-representable size.
	ErrorCodeCorruptBlock ErrorCode = "CORRUPT_BLOCK"

	// ErrorCodeBlockTooLarge indicates the sizing function was asked for a
	// size whose exponent would exceed the ladder's representable range.
	ErrorCodeBlockTooLarge ErrorCode = "BLOCK_TOO_LARGE"

	// ErrorCodeHeaderReadFailure occurs when the system cannot read a block's
	// fixed-width prefix (flags byte plus worst-case length fields). The
	// prefix must be read before the record's true length is known, so this
	// is a more specific failure than a generic I/O error.
	ErrorCodeHeaderReadFailure ErrorCode = "HEADER_READ_FAILURE"

	// ErrorCodePayloadReadFailure indicates problems reading the key/value
	// payload after the block's prefix was already decoded successfully.
	ErrorCodePayloadReadFailure ErrorCode = "PAYLOAD_READ_FAILURE"

	// ErrorCodeRecoveryFailed indicates that rebuilding the index via a
	// full-file scan (Load) failed; the store is not usable afterward.
	ErrorCodeRecoveryFailed ErrorCode = "STORE_RECOVERY_FAILED"

	// ErrorCodePermissionDenied indicates insufficient permissions to access a resource.
	// This is distinct from generic IO errors because it has a specific resolution path:
	// the user needs to adjust file/directory permissions or run with elevated privileges.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates that the storage device has run out of space.
	// This requires specific handling like cleanup operations or alerting administrators.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates that the filesystem is mounted read-only.
	// This requires administrative intervention to remount the filesystem with write permissions.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"
)

// Index-specific error codes address the in-memory key -> coordinate mapping.
const (
	// ErrorCodeIndexKeyNotFound indicates a lookup against a key absent from the index.
	ErrorCodeIndexKeyNotFound ErrorCode = "INDEX_KEY_NOT_FOUND"

	// ErrorCodeIndexCorrupted indicates the in-memory index structure itself
	// is in an inconsistent state, e.g. an entry pointing outside the file.
	ErrorCodeIndexCorrupted ErrorCode = "INDEX_CORRUPTED"
)

// ErrorCodeInvalidKey indicates a key that is empty or not valid UTF-8.
const ErrorCodeInvalidKey ErrorCode = "INVALID_KEY"
