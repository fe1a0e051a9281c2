package websocket

import (
	"encoding/json"
	"strconv"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// PostTopic is the subscription topic for a single post's updates.
func PostTopic(postID int64) string {
	return "post:" + strconv.FormatInt(postID, 10)
}

// NewErrorMessage builds a marshaled error message for a client.
func NewErrorMessage(msg string) []byte {
	return marshal(Message{Action: "error", Payload: map[string]string{"message": msg}})
}

// NewEventMessage builds a marshaled notification for an audit event
// (sign-in, sign-out, post creation and the like).
func NewEventMessage(payload interface{}) []byte {
	return marshal(Message{Action: "event", Payload: payload})
}

// NewLikeUpdateMessage builds a marshaled live like-count update for a post.
func NewLikeUpdateMessage(postID int64, likeCount int) []byte {
	return marshal(Message{Action: "like_update", Payload: map[string]interface{}{
		"postId":    postID,
		"likeCount": likeCount,
	}})
}

// NewStatsMessage builds a marshaled board stats snapshot.
func NewStatsMessage(payload interface{}) []byte {
	return marshal(Message{Action: "stats", Payload: payload})
}

func marshal(m Message) []byte {
	data, err := json.Marshal(m)
	if err != nil {
		// Payloads are built from plain structs and maps; this cannot
		// happen for well-formed callers.
		return []byte(`{"action":"error","payload":{"message":"encoding failure"}}`)
	}
	return data
}
