package wscutils

// Error codes understood by the error catalog in errortypes.yaml.
const (
	ErrcodeUnknown          = "unknown"
	ErrcodeInvalidJson      = "invalid_json"
	ErrcodeBadRequest       = "bad_request"
	ErrcodeRequired         = "required"
	ErrcodeInvalidAmount    = "invalid_amount"
	ErrcodeAmountTooLarge   = "amount_too_large"
	ErrcodeUnexpectedEvent  = "unexpected_event"
	ErrcodeMissingAuth      = "missing_auth"
	ErrcodeTokenStoreFailed = "token_store_failed"
	ErrcodeRequestTimeout   = "request_timeout"
	ErrcodeInternal         = "internal"
)

const (
	SuccessStatus = "success"
	ErrorStatus   = "error"
)
