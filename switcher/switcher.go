// Package switcher sequences a game switch against the running emulator:
// pause, frame capture, autosave, termination, session rewrite, relaunch.
// Every wait in the pipeline is bounded and every bound's expiry has a
// defined fallback; the pipeline degrades rather than hangs.
package switcher

import (
	"image"
	"sync"
	"sync/atomic"
	"time"

	"allium/display"
	"allium/history"
	"allium/retroarch"
	"allium/session"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("switcher")

// Config carries the tunable bounds of the pipeline. Zero values fall back
// to defaults suitable for a localhost emulator.
type Config struct {
	// CommandTimeout bounds one protocol round trip (the effective worst
	// case is twice this, for the single retry).
	CommandTimeout time.Duration

	// SaveTimeout bounds the wait for the autosave acknowledgement.
	SaveTimeout time.Duration

	// QuitPollInterval and QuitPollAttempts bound the post-QUIT status
	// polling.
	QuitPollInterval time.Duration
	QuitPollAttempts int

	// CandidateLimit caps the switch-target list shown to the user.
	CandidateLimit int

	// ScreenshotsDir receives one PNG per title; empty disables screenshots.
	ScreenshotsDir string
}

func (c *Config) setDefaults() {
	if c.CommandTimeout == 0 {
		c.CommandTimeout = 300 * time.Millisecond
	}
	if c.SaveTimeout == 0 {
		c.SaveTimeout = time.Second
	}
	if c.QuitPollInterval == 0 {
		c.QuitPollInterval = 100 * time.Millisecond
	}
	if c.QuitPollAttempts == 0 {
		c.QuitPollAttempts = 10
	}
	if c.CandidateLimit == 0 {
		c.CandidateLimit = 9
	}
}

// Notifier receives view-model updates as the pipeline advances. Optional.
type Notifier interface {
	NotifyView(view string, model interface{})
}

// ViewModel is what the UI collaborator renders.
type ViewModel struct {
	State      string          `json:"state"`
	Candidates []history.Entry `json:"candidates"`
	Error      string          `json:"error,omitempty"`
}

// Outcome reports how a switch session ended.
type Outcome struct {
	// Final is Done on a completed switch, Idle on cancel or abort.
	Final State

	// Launched is the entry handed to the process collaborator, nil unless
	// Final is Done.
	Launched *history.Entry

	// Resumed is set when the running game was resumed in place.
	Resumed bool

	Err error
}

// Switcher is the orchestrator. It holds an implicit exclusive lock on the
// active game process for the lifetime of each Run.
type Switcher struct {
	cfg      Config
	proto    Protocol
	hist     *history.Store
	sess     *session.Store
	disp     display.Display
	launcher Launcher
	ui       UI
	notifier Notifier

	mu    sync.Mutex
	state atomic.Int32
}

func New(cfg Config, proto Protocol, hist *history.Store, sess *session.Store, disp display.Display, launcher Launcher, ui UI) *Switcher {
	cfg.setDefaults()
	return &Switcher{
		cfg:      cfg,
		proto:    proto,
		hist:     hist,
		sess:     sess,
		disp:     disp,
		launcher: launcher,
		ui:       ui,
	}
}

func (s *Switcher) SetNotifier(n Notifier) { s.notifier = n }

// State reports the pipeline position; safe to call from any goroutine.
func (s *Switcher) State() State {
	return State(s.state.Load())
}

// Run executes one switch session. At most one session is active at a time;
// a second caller gets ErrBusy immediately instead of queueing.
func (s *Switcher) Run() Outcome {
	if !s.mu.TryLock() {
		return Outcome{Final: Idle, Err: ErrBusy}
	}
	defer s.mu.Unlock()

	cur, err := s.sess.Load()
	if err != nil {
		log.Errorf("session load: %v", err)
		return Outcome{Final: Idle, Err: err}
	}
	if cur == nil {
		return Outcome{Final: Idle, Err: ErrNoSession}
	}

	log.Infof("switch session start: running game is %q (%s)", cur.Name, cur.Path)

	// Pausing. PAUSE is advisory: it freezes the frame for a representative
	// capture, but a deaf emulator does not stop the switch.
	s.setState(Pausing, nil)
	if cur.HasMenu {
		if err := s.proto.Send(retroarch.Pause()); err != nil {
			log.Warningf("pause: %v (continuing)", err)
		}
	} else {
		log.Debugf("%q has no interactive menu; skipping pause", cur.Name)
	}

	// Capturing.
	s.setState(Capturing, nil)
	size := s.disp.Size()
	frame, err := s.disp.Capture()
	if err != nil {
		log.Warningf("capture: %v (using placeholder)", err)
		frame = display.Placeholder(size.W, size.H)
	}

	layerPushed := true
	if err := s.disp.PushLayer(); err != nil {
		log.Warningf("push layer: %v", err)
		layerPushed = false
	}

	if !frame.Degraded && s.cfg.ScreenshotsDir != "" {
		shot := history.ScreenshotPath(s.cfg.ScreenshotsDir, cur.Path)
		if err := frame.SavePNG(shot); err != nil {
			log.Warningf("screenshot: %v", err)
		} else if err := s.hist.SetScreenshot(cur.Path, shot); err != nil {
			log.Warningf("screenshot record: %v", err)
		}
	}

	scrim := display.Scrim{Rect: image.Rect(0, 0, size.W, size.H), Alpha: 0xa0}
	if err := s.disp.Composite(frame, scrim); err != nil {
		log.Warningf("composite: %v", err)
	}

	candidates := s.hist.Recent(cur.Path, s.cfg.CandidateLimit)
	log.Debugf("%d switch candidates", len(candidates))

	// AwaitingSelection. Human-paced: no timeout. The UI supplies exactly
	// one of selection, cancel or removal per turn; removal loops in place.
	// With an empty candidate list the only way forward is cancel.
	s.setState(AwaitingSelection, candidates)
	s.ui.ShowCandidates(candidates)

	var target *history.Entry
selecting:
	for {
		action, err := s.ui.NextAction()
		if err != nil {
			log.Warningf("ui: %v; aborting", err)
			return s.abortResume(cur, layerPushed, err)
		}

		switch action.Kind {
		case ActionCancel:
			log.Infof("switch cancelled; resuming %q", cur.Name)
			return s.abortResume(cur, layerPushed, nil)

		case ActionRemove:
			if err := s.hist.Remove(action.RemovePath); err != nil {
				log.Warningf("remove %s: %v", action.RemovePath, err)
			}
			candidates = s.hist.Recent(cur.Path, s.cfg.CandidateLimit)
			s.setState(AwaitingSelection, candidates)
			s.ui.ShowCandidates(candidates)

		case ActionSelect:
			if action.Index < 0 || action.Index >= len(candidates) {
				log.Warningf("selection %d out of range (have %d candidates)", action.Index, len(candidates))
				continue
			}
			t := candidates[action.Index]
			target = &t
			break selecting
		}
	}

	log.Infof("switching %q -> %q", cur.Name, target.Name)

	// Saving. Cancel is no longer honored from here on: a half-finished
	// save-then-terminate sequence cannot be safely unwound. Losing the
	// autosave is recoverable (manual saves survive); refusing to switch is
	// the worse outcome, so a save failure never blocks progression.
	s.setState(Saving, nil)
	if cur.HasMenu {
		if _, err := s.proto.SendRecv(retroarch.SaveStateSlot(retroarch.AutoSlot), s.cfg.SaveTimeout); err != nil {
			log.Warningf("autosave: %v (switch continues; manual saves are intact)", err)
		}
	} else {
		log.Debugf("%q has no interactive menu; skipping autosave", cur.Name)
	}

	// Terminating.
	s.setState(Terminating, nil)
	if err := s.proto.Send(retroarch.Quit()); err != nil {
		log.Warningf("quit: %v", err)
	}
	s.awaitTermination()

	// Launching. The session record is rewritten strictly after termination
	// is believed complete and strictly before the launch request goes out,
	// so a crash in between leaves it fully old or fully new.
	s.setState(Launching, nil)
	next := session.New(target.Name, target.Path, target.Core, target.Command, target.Args, target.HasMenu, target.NeedsSwap)
	if err := s.sess.Save(next); err != nil {
		log.Warningf("session record: %v (launch proceeds)", err)
	}
	if err := s.hist.RecordLaunch(*target); err != nil {
		log.Warningf("history record: %v", err)
	}

	if err := s.launcher.Launch(target.Command, target.Args); err != nil {
		// the old process is already asked to quit; nothing automatic is
		// safe from here
		log.Errorf("launch %q: %v", target.Command, err)
		terr := &TerminalError{wrapped: err}
		s.setState(Aborting, nil)
		s.teardown(layerPushed)
		s.setState(Idle, nil)
		return Outcome{Final: Idle, Err: terr}
	}

	s.setState(Done, nil)
	s.teardown(layerPushed)
	log.Infof("switch session done: launched %q", target.Name)
	return Outcome{Final: Done, Launched: target}
}

// awaitTermination polls GET_STATUS after QUIT until the emulator reports
// contentless, stops answering, or the attempt budget runs out. Exhaustion
// is not fatal: a relaunch will fail loudly if the old process never exited.
func (s *Switcher) awaitTermination() {
	for attempt := 0; attempt < s.cfg.QuitPollAttempts; attempt++ {
		reply, err := s.proto.Status(s.cfg.CommandTimeout)
		if err != nil {
			// no response at all: the process is gone (or was never
			// reachable, which the relaunch surfaces on its own)
			log.Debugf("terminate poll %d: %v; assuming exited", attempt, err)
			return
		}
		if reply.State == retroarch.StateContentless {
			log.Debugf("terminate poll %d: contentless", attempt)
			return
		}

		time.Sleep(s.cfg.QuitPollInterval)
	}

	log.Warningf("emulator still reports content after %d polls; proceeding", s.cfg.QuitPollAttempts)
}

func (s *Switcher) abortResume(cur *session.GameInfo, layerPushed bool, cause error) Outcome {
	s.setState(Aborting, nil)

	if cur.HasMenu {
		if err := s.proto.Send(retroarch.Unpause()); err != nil {
			log.Warningf("resume: %v", err)
		}
	}

	s.teardown(layerPushed)
	s.setState(Idle, nil)
	return Outcome{Final: Idle, Resumed: true, Err: cause}
}

func (s *Switcher) teardown(layerPushed bool) {
	s.ui.Teardown()
	if layerPushed && !s.disp.PopLayer() {
		log.Debugf("no layer to restore")
	}
}

func (s *Switcher) setState(st State, candidates []history.Entry) {
	log.Debugf("state %s -> %s", State(s.state.Load()), st)
	s.state.Store(int32(st))

	if s.notifier != nil {
		s.notifier.NotifyView("switcher", ViewModel{
			State:      st.String(),
			Candidates: candidates,
		})
	}
}
