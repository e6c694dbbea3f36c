package domain

import "strings"

// AnonymousClientID is used when the caller identifies itself neither in the
// body nor in the X-Client-Id header.
const AnonymousClientID = "anon"

const (
	ClientIDField  = "clientId"
	ClientIDHeader = "X-Client-Id"
)

// AudioUpload is the audio attachment of a transcription request.
type AudioUpload struct {
	Filename    string
	ContentType string
	Data        []byte
	Language    string
	Prompt      string
}

type SpeechRequest struct {
	Text   string `json:"text"`
	Voice  string `json:"voice,omitempty"`
	Format string `json:"format,omitempty"`
}

// WebhookPayload is an arbitrary JSON object plus the client id header, if any.
type WebhookPayload struct {
	Body           map[string]interface{}
	HeaderClientID string
}

// ResolveClientID applies body > header > anonymous precedence.
func (p WebhookPayload) ResolveClientID() string {
	if v, ok := p.Body[ClientIDField].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	if h := strings.TrimSpace(p.HeaderClientID); h != "" {
		return h
	}
	return AnonymousClientID
}

// UpstreamResponse is what a relay hands back to the HTTP layer on success.
type UpstreamResponse struct {
	StatusCode         int
	ContentType        string
	ContentDisposition string
	Body               []byte
}
