package response

type ErrorCode int

const (
	OK ErrorCode = 0

	InvalidRequest     ErrorCode = 40001
	InvalidCredentials ErrorCode = 40002
	TokenExpired       ErrorCode = 40101
	InvalidToken       ErrorCode = 40103

	NotFound ErrorCode = 40401

	// Conflict class: the caller must change something before retrying.
	StockShortage ErrorCode = 40901
	AlreadyFinal  ErrorCode = 40902
	ItemsFrozen   ErrorCode = 40903

	// Retryable: lock contention exceeded the configured bound.
	StoreBusy ErrorCode = 50301

	StorageFailure ErrorCode = 50001

	// Indicates laziness of the developer
	// Frontend will directly print the message without any translation
	NotSpecified ErrorCode = 99999
)
