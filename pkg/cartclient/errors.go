package cartclient

import "fmt"

// CartConnectionError means the cart service could not be reached or failed
// server-side (transport error or a 5xx status). It is the only retryable
// error kind.
type CartConnectionError struct {
	Status int   // 5xx status, or 0 for transport failures
	Err    error // underlying transport error, if any
}

func (e *CartConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid connection with cart service: %v", e.Err)
	}
	return fmt.Sprintf("invalid connection with cart service: status %d", e.Status)
}

func (e *CartConnectionError) Unwrap() error {
	return e.Err
}

// CartResponseError means the cart service understood the request but
// rejected it (any non-200, non-5xx status). Never retried.
type CartResponseError struct {
	Status int
}

func (e *CartResponseError) Error() string {
	return fmt.Sprintf("invalid cart response: expected 200 got %d", e.Status)
}
