package internal

import "fmt"

const (
	StatusOK         = 200
	StatusBadRequest = 400
)

// Response is the result a stage handler reports for one event. A
// StatusBadRequest response means the event was a duplicate or arrived for a
// record in the wrong state; no work was done.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

func okResponse() Response {
	return Response{StatusCode: StatusOK, Body: "OK"}
}

func badRequest(format string, args ...any) Response {
	return Response{StatusCode: StatusBadRequest, Body: fmt.Sprintf(format, args...)}
}

// Err returns an ErrPreconditionFailed carrying the reason of a
// StatusBadRequest response, and nil for any other response.
func (r Response) Err() error {
	if r.StatusCode != StatusBadRequest {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrPreconditionFailed, r.Body)
}
