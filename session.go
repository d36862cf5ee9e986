package main

import (
	"strconv"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
)

const (
	usernameLimit  = 18 // site limit
	passwordLimit  = 40
	chatInputLimit = 76
)

// Session owns the foreground input handling and orchestrates the
// background tasks: LoggingIn, then Chatting, then Exiting.
type Session struct {
	screen   tcell.Screen
	client   *RadioClient
	state    *UIState
	ctl      *Control
	settings Settings
	renderer *Renderer
	artifact string

	username string
	password string

	redraw chan struct{}
	wg     sync.WaitGroup
}

func NewSession(screen tcell.Screen, client *RadioClient, settings Settings, artifact string) *Session {
	state := NewUIState(settings.Volume)
	return &Session{
		screen:   screen,
		client:   client,
		state:    state,
		ctl:      NewControl(),
		settings: settings,
		renderer: NewRenderer(screen, state),
		artifact: artifact,
		redraw:   make(chan struct{}, 1),
	}
}

// Run drives the whole session. It returns the fatal error, if any,
// once every background task has stopped.
func (s *Session) Run() error {
	if s.login() {
		s.chat()
	}
	s.ctl.Stop()
	s.wg.Wait()
	return s.ctl.Err()
}

// login blocks on the credential screen until the user submits a
// non-blank username. Returns false when the user bails out instead.
func (s *Session) login() bool {
	user := NewTextInput(usernameLimit)
	pass := NewTextInput(passwordLimit)
	userActive := true
	warn := false

	s.renderer.PaintLogin(user, pass, userActive, warn)

	for {
		switch ev := s.screen.PollEvent().(type) {
		case *tcell.EventResize:
			s.screen.Sync()
		case *tcell.EventKey:
			switch key := DecodeKey(ev); key.Kind {
			case KeyInterrupt:
				return false
			case KeyTab, KeyUp, KeyDown:
				userActive = !userActive
			case KeyEnter:
				if strings.TrimSpace(user.Value()) == "" {
					warn = true
				} else {
					s.username = user.Value()
					s.password = pass.Value()
					return true
				}
			default:
				if userActive {
					user.Update(key)
				} else {
					pass.Update(key)
				}
			}
		}
		s.renderer.PaintLogin(user, pass, userActive, warn)
	}
}

// chat starts the background tasks and runs the foreground key loop
// until shutdown.
func (s *Session) chat() {
	s.screen.Clear()

	input := NewTextInput(chatInputLimit)
	s.publishInput(input)

	startChatPoller(s.client, s.state, s.ctl, s.settings.ChatInterval, &s.wg)
	startListenerPoller(s.client, s.state, s.ctl, s.settings.ListenerInterval, &s.wg)
	startMarqueePoller(s.client, s.state, s.ctl, s.settings.MarqueeTick, &s.wg)
	if s.settings.AudioEnabled {
		startSongPlayer(s.client, s.state, s.ctl, &s.wg, s.artifact)
	} else {
		s.state.SetNowPlaying("")
	}
	startRenderer(s.renderer, s.ctl, s.settings.RenderTick, &s.wg, s.redraw)

	// Wake the blocking PollEvent below once anything triggers shutdown.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		<-s.ctl.Done()
		// PostEventWait: a full queue must not drop the wake-up.
		s.screen.PostEventWait(tcell.NewEventInterrupt(nil))
	}()

	for {
		if s.ctl.Stopped() {
			return
		}
		switch ev := s.screen.PollEvent().(type) {
		case *tcell.EventResize:
			s.screen.Sync()
			s.nudge()
		case *tcell.EventKey:
			switch key := DecodeKey(ev); key.Kind {
			case KeyInterrupt:
				s.ctl.Stop()
				return
			case KeyEnter:
				s.submit(input)
			case KeyTab:
				// No native tab stop on the chat board; insert spaces.
				for i := 0; i < 4; i++ {
					input.Update(Key{Kind: KeyChar, Rune: ' '})
				}
			default:
				input.Update(key)
			}
			s.publishInput(input)
			s.nudge()
		}
	}
}

func (s *Session) publishInput(input *TextInput) {
	runes, caret := input.Rendered(true, false)
	s.state.SetInputView(runes, caret)
}

func (s *Session) nudge() {
	select {
	case s.redraw <- struct{}{}:
	default:
	}
}

// submit sends the current input as a chat message, or runs it as a
// command when it starts with the command prefix. The input is cleared
// either way; send failures are dropped without retry.
func (s *Session) submit(input *TextInput) {
	value := input.Value()
	if strings.TrimSpace(value) == "" {
		return
	}
	if strings.HasPrefix(value, s.settings.CommandPrefix) {
		applyCommand(value[len(s.settings.CommandPrefix):], s.state, s.ctl)
	} else {
		if err := s.client.PostChat(value, s.username, s.password); err != nil {
			debugLog("Chat post failed: %v", err)
		}
	}
	input.SetValue("")
	s.publishInput(input)
}

// applyCommand handles the in-chat commands. Unknown commands and bad
// arguments are ignored.
func applyCommand(cmd string, state *UIState, ctl *Control) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return
	}

	switch strings.ToLower(fields[0]) {
	case "exit":
		ctl.Stop()
	case "setvolume":
		if len(fields) < 2 {
			return
		}
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			return
		}
		state.SetVolume(v) // clamps to 0..9
	case "skipsong":
		// Playback stops as soon as the identity no longer matches.
		state.SetNowPlaying(songLoading)
	}
}
