package osc

import (
	"net"

	"github.com/cockroachdb/errors"
)

// Client enables you to send OSC Packets to a specified server.
type Client struct {
	conn *net.UDPConn
}

// Dial creates a new OSC Client with a connection to the specified server.
func Dial(addr string) (*Client, error) {
	a, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "osc: resolve %s", addr)
	}

	conn, err := net.DialUDP("udp", nil, a)
	if err != nil {
		return nil, errors.Wrapf(err, "osc: dial %s", addr)
	}
	return &Client{conn: conn}, nil
}

// Send sends an OSC Packet to the server.
func (c *Client) Send(packet Packet) error {
	data, err := MarshalPacket(packet)
	if err != nil {
		return err
	}
	if len(data) > MaxPacketSize {
		return errors.Wrapf(ErrInvalidLength, "packet of %d bytes exceeds %d", len(data), MaxPacketSize)
	}

	_, err = c.conn.Write(data)
	return err
}

// LocalAddr returns the local address of the client's connection.
func (c *Client) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// Close closes the connection to the server.
func (c *Client) Close() error {
	return c.conn.Close()
}
