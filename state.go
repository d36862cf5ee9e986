package main

import "sync"

// ChatRole classifies who owns a chat line.
type ChatRole int

const (
	RoleGuest ChatRole = iota
	RoleRegistered
	RoleBroadcaster
)

// ChatOwner names the author of a message, attached only to the last
// wrapped line of that message.
type ChatOwner struct {
	Name string
	Role ChatRole
}

// ChatLine is one rendering row. Index 0 is drawn at the bottom of the
// chat area, so the slice reads newest message first, last chunk first.
type ChatLine struct {
	Text  string
	Owner *ChatOwner
}

// UIState holds every value shared between the pollers, the player, the
// input loop and the painter. Each field has exactly one writer; writers
// replace values wholesale so readers never see a half-built snapshot.
type UIState struct {
	mu          sync.RWMutex
	chatLines   []ChatLine
	listeners   int
	marquee     string
	songMarquee string
	nowPlaying  string
	progress    float64
	volume      int
	inputRunes  []rune
	inputCaret  int
}

func NewUIState(volume int) *UIState {
	return &UIState{
		nowPlaying: songLoading,
		volume:     volume,
	}
}

// songLoading is the placeholder identity used between tracks. Setting
// nowPlaying to it (or to anything else) cancels in-flight playback.
const songLoading = "Loading..."

func (s *UIState) SetChatLines(lines []ChatLine) {
	s.mu.Lock()
	s.chatLines = lines
	s.mu.Unlock()
}

func (s *UIState) ChatLines() []ChatLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chatLines
}

func (s *UIState) SetListeners(n int) {
	s.mu.Lock()
	s.listeners = n
	s.mu.Unlock()
}

func (s *UIState) Listeners() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listeners
}

func (s *UIState) SetMarquee(text string) {
	s.mu.Lock()
	s.marquee = text
	s.mu.Unlock()
}

func (s *UIState) Marquee() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.marquee
}

func (s *UIState) SetSongMarquee(text string) {
	s.mu.Lock()
	s.songMarquee = text
	s.mu.Unlock()
}

func (s *UIState) SongMarquee() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.songMarquee
}

func (s *UIState) SetNowPlaying(name string) {
	s.mu.Lock()
	s.nowPlaying = name
	s.mu.Unlock()
}

func (s *UIState) NowPlaying() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowPlaying
}

func (s *UIState) SetProgress(p float64) {
	s.mu.Lock()
	s.progress = p
	s.mu.Unlock()
}

func (s *UIState) Progress() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress
}

func (s *UIState) SetVolume(v int) {
	if v < 0 {
		v = 0
	} else if v > 9 {
		v = 9
	}
	s.mu.Lock()
	s.volume = v
	s.mu.Unlock()
}

func (s *UIState) Volume() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volume
}

// SetInputView publishes a rendered snapshot of the chat editor so the
// painter never reads the live buffer the input loop is mutating.
func (s *UIState) SetInputView(runes []rune, caret int) {
	s.mu.Lock()
	s.inputRunes = runes
	s.inputCaret = caret
	s.mu.Unlock()
}

func (s *UIState) InputView() ([]rune, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputRunes, s.inputCaret
}

// Control is the process-wide shutdown token. Every background loop
// selects on Done() once per iteration; Fail records the first fatal
// error and stops everything.
type Control struct {
	done chan struct{}
	once sync.Once
	mu   sync.Mutex
	err  error
}

func NewControl() *Control {
	return &Control{done: make(chan struct{})}
}

func (c *Control) Done() <-chan struct{} {
	return c.done
}

func (c *Control) Stopped() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Control) Stop() {
	c.once.Do(func() { close(c.done) })
}

func (c *Control) Fail(err error) {
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.mu.Unlock()
	c.Stop()
}

func (c *Control) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
