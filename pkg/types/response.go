package types

// SuccessEnvelope wraps every successful JSON response. Data is always
// serialized, as null when a handler has nothing to return.
type SuccessEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ErrorEnvelope wraps every failed JSON response.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// StatusEnvelope is the bare acknowledgement used by health checks.
type StatusEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewSuccess(message string, data any) SuccessEnvelope {
	return SuccessEnvelope{Success: true, Message: message, Data: data}
}

func NewError(message, detail string) ErrorEnvelope {
	return ErrorEnvelope{Success: false, Message: message, Error: detail}
}
