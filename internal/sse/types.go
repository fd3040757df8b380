package sse

// Event is one message on the garden event stream
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	UserID    string      `json:"user_id,omitempty"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Client is a connected stream listener.
// An empty UserID receives every garden; a nil TypeFilter receives every type.
type Client struct {
	ID           string
	UserID       string
	TypeFilter   map[string]bool
	EventChannel chan Event
}

func (c *Client) wants(e Event) bool {
	if c.UserID != "" && e.UserID != c.UserID {
		return false
	}
	return c.TypeFilter == nil || c.TypeFilter[e.Type]
}
