package main

import (
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

const (
	chatWidth     = 58 // characters per rendered chat line
	chatLineCap   = 13 // visible chat rows
	marqueeWidth  = 72 // broadcast marquee window
	songLineWidth = 24 // now-playing marquee window

	// The station host gets a color of his own.
	broadcasterAccount = "DJProfessorK"
)

// Broadcaster avatar ids mapped to display names for the BCST bar.
var broadcasterNames = map[string]string{
	"djprofessork": "DJ Professor K",
	"noisetanks":   "Noise Tanks",
	"seaman":       "Seaman",
}

// ChatMessage is one message as fetched from the wire, markup stripped.
type ChatMessage struct {
	Name string
	Role ChatRole
	Text string
}

// Track is one catalog entry from the station's track list.
type Track struct {
	Name string
	URL  string
}

// RadioClient talks to the jetsetradio.live endpoints. The feeds are
// HTML-flavored XML (styled usernames carry raw font tags), so they are
// extracted leniently with regexes rather than a strict XML decoder.
type RadioClient struct {
	baseURL    string
	httpClient *http.Client
}

var (
	messageBlockRe = regexp.MustCompile(`(?s)<message>(.*?)</message>`)
	usernameRe     = regexp.MustCompile(`(?s)<username>(.*?)</username>`)
	textRe         = regexp.MustCompile(`(?s)<text>(.*?)</text>`)
	avatarRe       = regexp.MustCompile(`(?s)<avatar>(.*?)</avatar>`)
	tagRe          = regexp.MustCompile(`<[^<]+?>`)
	trackNameRe    = regexp.MustCompile(`"(.*)";`)
)

func NewRadioClient(baseURL string) *RadioClient {
	return &RadioClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *RadioClient) get(path string) ([]byte, error) {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func stripTags(s string) string {
	return html.UnescapeString(tagRe.ReplaceAllString(s, ""))
}

// BroadcastMessage fetches the current broadcast line for the bottom
// marquee, prefixed with the broadcaster's display name when the avatar
// id is a known one.
func (c *RadioClient) BroadcastMessage() (string, error) {
	body, err := c.get("/messages/messages.xml")
	if err != nil {
		return "", err
	}

	msg := ""
	if m := messageBlockRe.FindSubmatch(body); m != nil {
		msg = stripTags(string(m[1]))
	}
	if m := avatarRe.FindSubmatch(body); m != nil {
		avatar := strings.TrimSpace(stripTags(string(m[1])))
		if name, ok := broadcasterNames[strings.ToLower(avatar)]; ok {
			msg = name + ": " + msg
		}
	}
	return msg, nil
}

// ListenerCount counts the <user> elements in the listener document.
func (c *RadioClient) ListenerCount() (int, error) {
	body, err := c.get("/counter/listeners.xml")
	if err != nil {
		return 0, err
	}
	return strings.Count(string(body), "<user>"), nil
}

// ChatMessages fetches the chat feed, oldest-first as on the wire.
func (c *RadioClient) ChatMessages() ([]ChatMessage, error) {
	body, err := c.get("/chat/messages.xml")
	if err != nil {
		return nil, err
	}

	blocks := messageBlockRe.FindAllSubmatch(body, -1)
	messages := make([]ChatMessage, 0, len(blocks))
	for _, block := range blocks {
		um := usernameRe.FindSubmatch(block[1])
		tm := textRe.FindSubmatch(block[1])
		if um == nil || tm == nil {
			continue
		}
		rawUser := string(um[1])
		user := strings.TrimSpace(stripTags(rawUser))

		role := RoleGuest
		if user == broadcasterAccount {
			role = RoleBroadcaster
		} else if strings.Contains(rawUser, "</font>") {
			// Registered users arrive with a styling tag around the name.
			role = RoleRegistered
		}

		messages = append(messages, ChatMessage{
			Name: user,
			Role: role,
			Text: stripTags(string(tm[1])),
		})
	}
	return messages, nil
}

// PostChat sends one chat message. Best effort: the caller drops errors.
func (c *RadioClient) PostChat(message, username, password string) error {
	resp, err := c.httpClient.PostForm(c.baseURL+"/chat/save.php", url.Values{
		"chatmessage": {message},
		"username":    {username},
		"password":    {password},
	})
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// TrackList parses the quoted track names out of the station's
// script-embedded catalog and maps each to its media URL.
func (c *RadioClient) TrackList() ([]Track, error) {
	body, err := c.get("/audioplayer/audio/~list.js")
	if err != nil {
		return nil, err
	}

	var tracks []Track
	for _, m := range trackNameRe.FindAllSubmatch(body, -1) {
		name := string(m[1])
		if name == "" {
			continue
		}
		tracks = append(tracks, Track{
			Name: name,
			URL:  c.baseURL + "/audioplayer/audio/" + name + ".mp3",
		})
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("track list: no entries parsed")
	}
	return tracks, nil
}

// wrapChatText chunks "user: text" into width-sized rows, preserving
// word boundaries where possible and hard-breaking words longer than a
// row.
func wrapChatText(s string, width int) []string {
	runes := []rune(s)
	if len(runes) <= width {
		return []string{s}
	}

	var chunks []string
	for len(runes) > width {
		cut := width
		for i := width; i > 0; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
		for len(runes) > 0 && runes[0] == ' ' {
			runes = runes[1:]
		}
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

// RenderChatLines turns wire-order messages into display rows: newest
// message first, each message's chunks reversed so index 0 is the
// bottom row. The owner rides on the first chunk, the one opening with
// "name: ", so the renderer recolors the name prefix in place. Capped
// at chatLineCap rows total.
func RenderChatLines(messages []ChatMessage) []ChatLine {
	var lines []ChatLine
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		chunks := wrapChatText(msg.Name+": "+msg.Text, chatWidth)
		for j := len(chunks) - 1; j >= 0; j-- {
			line := ChatLine{Text: chunks[j]}
			if j == 0 {
				line.Owner = &ChatOwner{Name: msg.Name, Role: msg.Role}
			}
			lines = append(lines, line)
			if len(lines) == chatLineCap {
				return lines
			}
		}
	}
	return lines
}

// guard traps a panicking background loop, records it as the fatal
// error and triggers shutdown so no sibling task is left hanging.
func guard(ctl *Control, name string) {
	if r := recover(); r != nil {
		ctl.Fail(fmt.Errorf("%s: panic: %v\n%s", name, r, debug.Stack()))
	}
}

// startChatPoller periodically replaces the rendered chat lines. Fetch
// failures keep the previous snapshot.
func startChatPoller(client *RadioClient, state *UIState, ctl *Control, interval time.Duration, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer guard(ctl, "chat poller")

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			messages, err := client.ChatMessages()
			if err != nil {
				debugLog("Chat poller: fetch failed: %v", err)
			} else {
				state.SetChatLines(RenderChatLines(messages))
			}

			select {
			case <-ctl.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// startListenerPoller keeps the listener count current.
func startListenerPoller(client *RadioClient, state *UIState, ctl *Control, interval time.Duration, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer guard(ctl, "listener poller")

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			count, err := client.ListenerCount()
			if err != nil {
				debugLog("Listener poller: fetch failed: %v", err)
			} else {
				state.SetListeners(count)
			}

			select {
			case <-ctl.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// startMarqueePoller drives both marquees. The broadcast source is
// refetched each time its window wraps; a fetch failure falls back to a
// blank source of padding width. The song marquee is re-seeded whenever
// the now-playing name changes.
func startMarqueePoller(client *RadioClient, state *UIState, ctl *Control, tick time.Duration, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer guard(ctl, "marquee poller")

		broadcast := NewMarquee(marqueeWidth, marqueeCellsPerSecond)
		song := NewMarquee(songLineWidth, marqueeCellsPerSecond)

		refresh := func() {
			msg, err := client.BroadcastMessage()
			if err != nil {
				debugLog("Marquee poller: fetch failed: %v", err)
				msg = ""
			}
			broadcast.SetSource(msg)
		}
		refresh()

		lastSong := ""
		last := time.Now()
		ticker := time.NewTicker(tick)
		defer ticker.Stop()

		for {
			select {
			case <-ctl.Done():
				return
			case now := <-ticker.C:
				dt := now.Sub(last).Seconds()
				last = now

				if broadcast.Advance(dt) {
					refresh()
				}
				song.Advance(dt)

				if playing := state.NowPlaying(); playing != lastSong {
					song.SetSource(playing)
					lastSong = playing
				}

				state.SetMarquee(broadcast.Window())
				state.SetSongMarquee(song.Window())
			}
		}
	}()
}

// marqueeCellsPerSecond keeps the historical pace of one cell per 0.1s
// tick while staying independent of the actual tick rate.
const marqueeCellsPerSecond = 10
