package retroarch

import (
	"errors"
	"fmt"
	"net"
	"time"

	"allium/udpclient"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("retroarch")

// ErrNoResponse is surfaced after a round trip and its single retry both
// expire without a reply. It means "emulator state unknown", which callers
// must distinguish from any explicit reply, including CONTENTLESS.
var ErrNoResponse = errors.New("retroarch: no response")

// DefaultAddr is RetroArch's default network_cmd_port endpoint.
const DefaultAddr = "127.0.0.1:55355"

const writeTimeout = 250 * time.Millisecond

// Client speaks the RetroArch network command interface over UDP. All
// timeout and retry policy for the channel lives here; callers see either a
// reply, ErrNoResponse, or a transport error.
type Client struct {
	udpclient.UDPClient
}

func NewClient(addr *net.UDPAddr) (*Client, error) {
	c := &Client{}
	udpclient.MakeUDPClient("retroarch", &c.UDPClient)

	if err := c.Connect(addr); err != nil {
		return nil, err
	}

	return c, nil
}

func ResolveAddr(hostport string) (*net.UDPAddr, error) {
	return net.ResolveUDPAddr("udp", hostport)
}

// Send fires a command without waiting for any reply. Success only means the
// datagram was handed to the transport. Query commands are refused: their
// reply would sit unread in the socket and be mistaken for the reply to the
// next exchange.
func (c *Client) Send(cmd Command) error {
	if cmd.ExpectsReply() {
		return fmt.Errorf("retroarch: %s expects a reply; use SendRecv", cmd)
	}

	log.Debugf("send: %s", cmd)
	return c.WriteTimeout(cmd.Bytes(), writeTimeout)
}

// SendRecv sends cmd and waits up to timeout for a reply on the same
// exchange. A timed-out attempt is retried exactly once with a fresh
// deadline, so the call returns within 2*timeout in the worst case.
func (c *Client) SendRecv(cmd Command, timeout time.Duration) (string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			log.Debugf("send_recv: %s: retrying after timeout", cmd)
		}

		if err := c.WriteTimeout(cmd.Bytes(), writeTimeout); err != nil {
			return "", err
		}

		reply, err := c.ReadTimeout(timeout)
		if err == nil {
			return string(reply), nil
		}
		if !errors.Is(err, udpclient.ErrTimeout) {
			return "", err
		}
	}

	return "", ErrNoResponse
}

// Status queries GET_STATUS and decodes the reply. Unparsable replies decode
// to StateUnknown rather than erroring; only a missing reply is reported,
// as ErrNoResponse.
func (c *Client) Status(timeout time.Duration) (StatusReply, error) {
	line, err := c.SendRecv(GetStatus(), timeout)
	if err != nil {
		return StatusReply{State: StateUnknown}, err
	}

	reply := ParseStatus(line)
	log.Debugf("status: %s (content=%q)", reply.State, reply.ContentPath)
	return reply, nil
}
