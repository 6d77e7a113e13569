package wsui

import (
	"encoding/json"
	"net"
	"net/http"

	"allium/switcher"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

type Socket struct {
	s    *Server
	req  *http.Request
	conn net.Conn

	// write channel:
	q chan ViewModelUpdate

	// closed by the reader when the socket dies:
	done chan struct{}
}

type CommandRequest struct {
	View    string          `json:"v"`
	Command string          `json:"c"`
	Args    json.RawMessage `json:"a"`
}

type selectArgs struct {
	Index int `json:"index"`
}

type removeArgs struct {
	Path string `json:"path"`
}

func NewSocket(s *Server, req *http.Request, conn net.Conn) *Socket {
	k := &Socket{
		s:    s,
		req:  req,
		conn: conn,
		q:    make(chan ViewModelUpdate, 10),
		done: make(chan struct{}),
	}

	go k.readHandler()
	go k.writeHandler()

	return k
}

func (k *Socket) readHandler() {
	// the reader controls the lifetime of the socket:
	defer func() {
		_ = k.conn.Close()
		close(k.done)
		k.s.removeSocket(k)
	}()

	r := wsutil.NewReader(k.conn, ws.StateServerSide)
	decoder := json.NewDecoder(r)

	for {
		hdr, err := r.NextFrame()
		if err != nil {
			log.Debugf("socket closed: %v", err)
			return
		}
		if hdr.OpCode == ws.OpClose {
			return
		}
		if hdr.OpCode != ws.OpText {
			if err := r.Discard(); err != nil {
				return
			}
			continue
		}

		var creq CommandRequest
		if err := decoder.Decode(&creq); err != nil {
			log.Warningf("bad command request: %v", err)
			if err := r.Discard(); err != nil {
				return
			}
			continue
		}

		if res := k.dispatch(creq); res == switcher.EventUnhandled {
			log.Warningf("unknown command %q for view %q", creq.Command, creq.View)
		}
	}
}

// dispatch translates one command into a switcher action. The socket is the
// bottom of the event stack: EventUnhandled is reported back up to the
// reader, and EventRequestClose marks the decision that will close the
// switcher surface once the orchestrator tears down.
func (k *Socket) dispatch(creq CommandRequest) switcher.EventResult {
	switch creq.Command {
	case "enter":
		k.s.pushEnter()
		return switcher.EventHandled

	case "select":
		var args selectArgs
		if err := json.Unmarshal(creq.Args, &args); err != nil {
			log.Warningf("select args: %v", err)
			return switcher.EventHandled
		}
		k.s.pushAction(switcher.Action{Kind: switcher.ActionSelect, Index: args.Index})
		return switcher.EventHandled

	case "cancel":
		k.s.pushAction(switcher.Action{Kind: switcher.ActionCancel})
		return switcher.EventRequestClose

	case "remove":
		var args removeArgs
		if err := json.Unmarshal(creq.Args, &args); err != nil {
			log.Warningf("remove args: %v", err)
			return switcher.EventHandled
		}
		k.s.pushAction(switcher.Action{Kind: switcher.ActionRemove, RemovePath: args.Path})
		return switcher.EventHandled

	default:
		return switcher.EventUnhandled
	}
}

func (k *Socket) writeHandler() {
	for {
		select {
		case <-k.done:
			return
		case u := <-k.q:
			b, err := json.Marshal(u)
			if err != nil {
				log.Warningf("marshal update: %v", err)
				continue
			}

			if err := wsutil.WriteServerText(k.conn, b); err != nil {
				log.Debugf("socket write: %v", err)
				return
			}
		}
	}
}
