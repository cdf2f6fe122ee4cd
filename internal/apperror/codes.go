package apperror

// Code represents a unique error code for the application.
type Code string

// General error codes
const (
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeConfigurationError Code = "CONFIGURATION_ERROR"
	CodeNotFound           Code = "NOT_FOUND"
	CodeInternalError      Code = "INTERNAL_ERROR"
	CodeUnknownError       Code = "UNKNOWN_ERROR"
)

// Aggregation-specific error codes
const (
	// Exchange initialization
	CodeExchangeInitFailed Code = "EXCHANGE_INIT_FAILED"
	CodeUnknownToken       Code = "UNKNOWN_TOKEN"

	// Blockchain/Ethereum errors
	CodeEthereumConnectionFailed Code = "ETHEREUM_CONNECTION_FAILED"
	CodeContractCallFailed       Code = "CONTRACT_CALL_FAILED"
	CodeSubscribeFailed          Code = "SUBSCRIBE_FAILED"

	// Price refresh errors
	CodePairNotFound Code = "PAIR_NOT_FOUND"
	CodeFetchFailed  Code = "FETCH_FAILED"
	CodeEmptyPool    Code = "EMPTY_POOL"
)
