package port

import (
	"context"
	"net/http"
)

// Request is one call to the remote polling service.
type Request struct {
	Method    string // http.MethodGet or http.MethodPost
	URL       string
	SessionID uint64 // sent as ?sessionId= on GET
	Body      []byte // JSON document sent on POST
}

// Poll builds the GET request for one poll round.
func Poll(url string, sessionID uint64) Request {
	return Request{Method: http.MethodGet, URL: url, SessionID: sessionID}
}

// Subscribe builds the POST request that opens a session.
func Subscribe(url string, body []byte) Request {
	return Request{Method: http.MethodPost, URL: url, Body: body}
}

// Transport performs a request and returns the raw response body.
type Transport interface {
	Do(ctx context.Context, req Request) ([]byte, error)
}
