// Package wsui bridges the switcher to its UI collaborator over websockets.
// The daemon pushes view-model updates to every connected socket and the UI
// answers with one decision per user turn. Widget rendering lives entirely
// on the other side of the socket.
package wsui

import (
	"net/http"
	"sync"

	"allium/switcher"

	"github.com/gobwas/ws"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("wsui")

type ViewModelUpdate struct {
	View      string      `json:"v"`
	ViewModel interface{} `json:"m"`
}

// Server accepts UI connections and adapts their commands into switcher
// actions. It implements both switcher.UI and switcher.Notifier.
type Server struct {
	listenAddr string

	mux *http.ServeMux

	socketsRw sync.RWMutex
	sockets   []*Socket

	// broadcast channel to all sockets:
	q chan ViewModelUpdate

	// decisions made while the orchestrator awaits selection:
	actions chan switcher.Action

	// requests to open the switcher:
	enter chan struct{}
}

func NewServer(listenAddr string) *Server {
	s := &Server{
		listenAddr: listenAddr,
		mux:        http.NewServeMux(),
		sockets:    make([]*Socket, 0, 2),
		q:          make(chan ViewModelUpdate, 10),
		actions:    make(chan switcher.Action, 8),
		enter:      make(chan struct{}, 1),
	}

	s.mux.Handle("/ws/", http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(req, rw)
		if err != nil {
			log.Warningf("upgrade: %v", err)
			rw.WriteHeader(400)
			return
		}

		socket := NewSocket(s, req, conn)
		s.appendSocket(socket)
	}))

	go s.handleBroadcast()

	return s
}

func (s *Server) Serve() error {
	return http.ListenAndServe(s.listenAddr, s.mux)
}

// Enter yields once per UI request to open the switcher.
func (s *Server) Enter() <-chan struct{} { return s.enter }

// NotifyView broadcasts a view-model update to every connected socket.
func (s *Server) NotifyView(view string, viewModel interface{}) {
	s.q <- ViewModelUpdate{
		View:      view,
		ViewModel: viewModel,
	}
}

func (s *Server) handleBroadcast() {
	for u := range s.q {
		s.socketsRw.RLock()
		sockets := s.sockets
		s.socketsRw.RUnlock()

		for _, k := range sockets {
			select {
			case k.q <- u:
			default:
				log.Warningf("socket send queue full; dropping update")
			}
		}
	}
}

func (s *Server) appendSocket(socket *Socket) {
	s.socketsRw.Lock()
	defer s.socketsRw.Unlock()
	s.sockets = append(s.sockets, socket)
}

func (s *Server) removeSocket(k *Socket) {
	s.socketsRw.Lock()
	defer s.socketsRw.Unlock()

	for i, sk := range s.sockets {
		if sk == k {
			s.sockets = append(s.sockets[:i], s.sockets[i+1:]...)
			break
		}
	}
}

func (s *Server) pushAction(a switcher.Action) {
	select {
	case s.actions <- a:
	default:
		// no switch session is consuming; stale decisions are dropped
		log.Warningf("dropping UI action (no active switch session?)")
	}
}

func (s *Server) pushEnter() {
	select {
	case s.enter <- struct{}{}:
	default:
	}
}
