package mocks

import (
	"bytes"
	"io"
	"net/http"
	"sync"
)

// MockHTTPDoer is a scripted outbound transport. Requests are recorded with
// their bodies already read so tests can inspect them after the call.
type MockHTTPDoer struct {
	DoFunc func(req *http.Request) (*http.Response, error)

	mu       sync.Mutex
	Requests []*http.Request
	Bodies   [][]byte
}

func NewMockHTTPDoer() *MockHTTPDoer {
	return &MockHTTPDoer{}
}

// Respond scripts a fixed status/content-type/body reply.
func (m *MockHTTPDoer) Respond(status int, contentType string, body []byte) *MockHTTPDoer {
	m.DoFunc = func(req *http.Request) (*http.Response, error) {
		return NewResponse(status, contentType, body), nil
	}
	return m
}

// Fail scripts a transport-level failure.
func (m *MockHTTPDoer) Fail(err error) *MockHTTPDoer {
	m.DoFunc = func(req *http.Request) (*http.Response, error) {
		return nil, err
	}
	return m
}

func (m *MockHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.Bodies = append(m.Bodies, body)
	m.mu.Unlock()

	if m.DoFunc != nil {
		return m.DoFunc(req)
	}
	return NewResponse(http.StatusOK, "application/json", []byte(`{}`)), nil
}

func (m *MockHTTPDoer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// LastRequest returns the most recent request and its body.
func (m *MockHTTPDoer) LastRequest() (*http.Request, []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return nil, nil
	}
	i := len(m.Requests) - 1
	return m.Requests[i], m.Bodies[i]
}

func NewResponse(status int, contentType string, body []byte) *http.Response {
	header := make(http.Header)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &http.Response{
		StatusCode:    status,
		Status:        http.StatusText(status),
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}
