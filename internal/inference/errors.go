package inference

import "errors"

var (
	ErrNetworkFailure        = errors.New("network failure")
	ErrTimeout               = errors.New("request timed out")
	ErrServerError           = errors.New("server error")
	ErrInvalidResponseFormat = errors.New("invalid response format from API")
)

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrServerError):
		return "server_error"
	case errors.Is(err, ErrInvalidResponseFormat):
		return "invalid_response"
	default:
		return "network_failure"
	}
}
