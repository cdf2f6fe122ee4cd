package apperror

// messages maps error codes to human-readable messages.
var messages = map[Code]string{
	CodeInvalidInput:       "Invalid input provided",
	CodeConfigurationError: "Configuration error",
	CodeNotFound:           "Resource not found",
	CodeInternalError:      "Internal error",
	CodeUnknownError:       "An unknown error occurred",

	CodeExchangeInitFailed: "Exchange initialization failed",
	CodeUnknownToken:       "Token is not known to the registry",

	CodeEthereumConnectionFailed: "Failed to connect to Ethereum node",
	CodeContractCallFailed:       "Smart contract call failed",
	CodeSubscribeFailed:          "Event subscription failed",

	CodePairNotFound: "No pool exists for the token pair on this exchange",
	CodeFetchFailed:  "Price fetch failed",
	CodeEmptyPool:    "Pool has zero reserves",
}
