// Package client is a minimal test harness for driving the broker's
// wire protocol end to end: it knows only how to frame an arbitrary
// request and read back a framed response, leaving every api_key's
// body format to the caller. It exists for integration tests, not for
// production use — this broker has no matching CLI client.
package client

import (
	"net"
	"time"

	"kraftbroker/internal/kafkaproto"
	"kraftbroker/internal/wire"
)

type Config struct {
	BrokerAddr string
	ClientID   string
}

type Client struct {
	Config Config
	conn   net.Conn
}

func NewClient(cfg Config) (*Client, error) {
	conn, err := net.DialTimeout("tcp", cfg.BrokerAddr, 5*time.Second)
	if err != nil {
		return nil, err
	}
	return &Client{Config: cfg, conn: conn}, nil
}

func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// Send writes one framed request (RequestHeader v2 followed by body)
// and returns the framed response's full body, response header
// included — the caller knows which header version and body schema to
// expect for the api_key it sent.
func (c *Client) Send(apiKey, apiVersion int16, correlationID int32, body []byte) ([]byte, error) {
	w := wire.NewWriter()
	w.Int16(apiKey)
	w.Int16(apiVersion)
	w.Int32(correlationID)
	clientID := c.Config.ClientID
	w.NullableString(&clientID)
	w.TagBuffer()
	w.WriteRaw(body)

	if err := kafkaproto.WriteFrame(c.conn, w.Bytes()); err != nil {
		return nil, err
	}

	return kafkaproto.ReadFrame(c.conn)
}
