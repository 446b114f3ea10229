package chat

import (
	"context"
	"fmt"
	"net"
)

// ChatClient talks to a framed chat server. Messages it sends are tagged
// with the display name; anything the server relays comes back as a
// decoded value from Receive.
type ChatClient struct {
	Name string
	conn net.Conn
}

// Dial connects a framed chat client. Pass a net.Conn obtained elsewhere
// to Wrap instead when the socket needs custom options.
func Dial(ctx context.Context, addr, name string) (*ChatClient, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("chat: connect %s: %w", addr, err)
	}
	return Wrap(conn, name), nil
}

// Wrap adopts an existing connection, e.g. one dialed with explicit
// socket options.
func Wrap(conn net.Conn, name string) *ChatClient {
	return &ChatClient{Name: name, conn: conn}
}

// SendText frames and sends one message tagged with the client's name.
func (c *ChatClient) SendText(text string) error {
	return Send(c.conn, fmt.Sprintf("%s: %s", c.Name, text))
}

// Receive blocks for the next relayed message.
func (c *ChatClient) Receive() (any, error) {
	return Receive(c.conn)
}

// Close closes the underlying connection.
func (c *ChatClient) Close() error {
	return c.conn.Close()
}
