package notify

import "errors"

var (
	ErrMissingAlertFields = errors.New("alert payload missing sequence or timestamp")
	ErrRateLimited        = errors.New("outbound mail rate limit exceeded")
	ErrMailStatus         = errors.New("mail API returned non-success status")
)
