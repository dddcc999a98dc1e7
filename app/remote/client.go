package remote

import (
	"errors"
	"net/url"

	"github.com/lysyi3m/feed-cache/app/loader"
)

var (
	ErrConnectivity = errors.New("connectivity error")
	ErrInvalidData  = errors.New("invalid data")
)

// Response is what a Client delivers for any HTTP status. Only transport
// failures are reported as errors.
type Response struct {
	StatusCode int
	Data       []byte
}

// Client issues GET requests. Cancelling the returned task aborts the request;
// the completion may still be called afterwards with the cancellation error.
type Client interface {
	Get(u *url.URL, completion func(Response, error)) loader.Task
}
