// Package relay fans "comment added" events out to every connected websocket
// client. It is best effort: nothing is persisted and offline clients miss events.
package relay

import "encoding/json"

const (
	// EventNewComment is sent by a client after its comment was created over HTTP.
	EventNewComment = "newComment"
	// EventCommentAdded is what every client receives.
	EventCommentAdded = "commentAdded"
)

// Envelope is the frame format in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// CommentEvent documents the expected data of newComment/commentAdded.
// The relay forwards data as-is and never decodes it into this type.
type CommentEvent struct {
	PostID  string          `json:"postId"`
	Comment json.RawMessage `json:"comment"`
}
