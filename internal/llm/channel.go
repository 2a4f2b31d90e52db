// Package llm abstracts the streaming language-model invocation transport.
// The protocol is: connect, send one JSON request, then receive text messages
// until the remote side closes; the concatenation of all received messages in
// arrival order is the full response.
package llm

import "context"

// Role constants for request messages.
const RoleUser = "user"

// Message is one conversational turn in a model request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the single JSON object sent after connecting.
type Request struct {
	RepoURL  string    `json:"repo_url"`
	Type     string    `json:"type"`
	Messages []Message `json:"messages"`
	Language string    `json:"language,omitempty"`
}

// UserRequest builds a single-message request for the given repository.
func UserRequest(repoURL, language, prompt string) Request {
	return Request{
		RepoURL:  repoURL,
		Type:     "github",
		Messages: []Message{{Role: RoleUser, Content: prompt}},
		Language: language,
	}
}

// Channel is a duplex model invocation transport. Each Complete call opens its
// own connection and fully drains it before returning; there is no incremental
// consumption because the structure XML is not parseable until complete.
type Channel interface {
	Complete(ctx context.Context, req Request) (string, error)
}
