package core

// Client is the core's handle on one live connection. The transport owns
// the underlying socket; the core only pushes events into the buffered
// Events channel, which the transport's write loop drains.
type Client struct {
	ID     string
	Events chan *Event
}

// NewClient constructs a connection handle with an initialized event queue.
func NewClient(id string) *Client {
	return &Client{
		ID:     id,
		Events: make(chan *Event, 16),
	}
}
