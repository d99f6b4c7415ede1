package serverutils

// Envelope is the JSON shape of every successful API response.
type Envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// ErrorEnvelope is the JSON shape of every failed API response. Error is the
// caller-safe message; DebugMessage mirrors it for the host UI, full detail
// stays in the operator log.
type ErrorEnvelope struct {
	Success      bool   `json:"success"`
	Error        string `json:"error"`
	DebugMessage string `json:"debug_message,omitempty"`
}

func SuccessResponse[T any](data T) Envelope[T] {
	return Envelope[T]{
		Success: true,
		Data:    data,
	}
}

func ErrorResponse(message string) ErrorEnvelope {
	return ErrorEnvelope{
		Success:      false,
		Error:        message,
		DebugMessage: message,
	}
}
