package udpclient

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("udpclient")

// ErrTimeout is returned by ReadTimeout when no datagram arrives before the
// deadline. Callers must treat it as "no response", distinct from an explicit
// reply and from a broken transport.
var ErrTimeout = errors.New("udpclient: read timed out")

// ErrNotConnected is returned when an operation is attempted before Connect.
var ErrNotConnected = errors.New("udpclient: not connected")

// UDPClient is a connectionless request/reply client. "Connected" only means
// the local socket is dialed to a fixed remote address; there is no session
// and no delivery guarantee. Every read carries a mandatory deadline.
type UDPClient struct {
	name string

	c    *net.UDPConn
	addr *net.UDPAddr

	isConnected bool
}

func NewUDPClient(name string) *UDPClient {
	return &UDPClient{name: name}
}

func MakeUDPClient(name string, c *UDPClient) *UDPClient {
	c.name = name
	return c
}

func (c *UDPClient) Address() *net.UDPAddr { return c.addr }
func (c *UDPClient) IsConnected() bool     { return c.isConnected }

func (c *UDPClient) Connect(addr *net.UDPAddr) (err error) {
	if c.isConnected {
		return fmt.Errorf("%s: already connected", c.name)
	}

	c.addr = addr

	c.c, err = net.DialUDP("udp", nil, addr)
	if err != nil {
		return
	}

	c.isConnected = true
	log.Debugf("%s: dialed '%s'", c.name, addr)

	return
}

func (c *UDPClient) Disconnect() {
	if !c.isConnected {
		return
	}

	c.isConnected = false
	err := c.c.Close()
	if err != nil {
		log.Warningf("%s: close: %v", c.name, err)
	}

	log.Debugf("%s: disconnected from '%s'", c.name, c.addr)

	c.c = nil
}

// WriteTimeout hands one datagram to the transport. Success means the packet
// left the socket, not that it was delivered.
func (c *UDPClient) WriteTimeout(b []byte, d time.Duration) error {
	if !c.isConnected {
		return ErrNotConnected
	}

	err := c.c.SetWriteDeadline(time.Now().Add(d))
	if err != nil {
		return err
	}

	_, err = c.c.Write(b)
	return err
}

// ReadTimeout waits up to d for a single datagram and returns a copy of its
// payload. Expiry of the deadline is reported as ErrTimeout.
func (c *UDPClient) ReadTimeout(d time.Duration) ([]byte, error) {
	if !c.isConnected {
		return nil, ErrNotConnected
	}

	err := c.c.SetReadDeadline(time.Now().Add(d))
	if err != nil {
		return nil, err
	}

	b := make([]byte, 1500)
	n, _, err := c.c.ReadFromUDP(b)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return nil, ErrTimeout
		}
		return nil, err
	}

	envelope := make([]byte, n)
	copy(envelope, b[:n])

	return envelope, nil
}
