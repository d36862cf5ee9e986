package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Field positions within the screen art. The art below is decoration;
// these constants are what the painter actually trusts.
const (
	listenersX, listenersY = 61, 1
	songMarqueeX, songY    = 21, 2
	volumeX, volumeY       = 51, 2
	progressX, progressY   = 56, 2
	progressCells          = 20
	chatX, chatBottomY     = 1, 17
	inputX, inputY         = 2, 19
	marqueeX, marqueeY     = 6, 21

	loginFieldX              = 11
	loginUserY, loginPassY   = 15, 16
	loginWarnX, loginWarnY   = 23, 12
)

func chatFrame() []string {
	top := "+==============================================================================+"
	sep := "+------------------------------------------------------------------------------+"
	blank := "|                                                                              |"
	rows := []string{
		top,
		"| JET SET RADIO LIVE - GRAFFITI CHAT             LISTENERS: [    ]             |",
		"| NOW PLAYING >      [                        ] VOL[ ]  [                    ]  |",
		sep,
	}
	for i := 0; i < 14; i++ {
		rows = append(rows, blank)
	}
	rows = append(rows,
		sep,
		"|>                                                                             |",
		sep,
		"|BCST>                                                                         |",
		"|        /exit  /setvolume <0-9>  /skipsong                                    |",
		top,
	)
	return rows
}

func loginFrame() []string {
	top := "+==============================================================================+"
	blank := "|                                                                              |"
	return []string{
		top,
		blank,
		"|                        J E T   S E T   R A D I O                             |",
		"|                             ~  L I V E  ~                                    |",
		blank,
		"|                  the streets are talking. tune in.                           |",
		blank,
		blank,
		blank,
		blank,
		blank,
		blank,
		blank,
		blank,
		blank,
		"|  USERNAME                                                                    |",
		"|  PASSWORD                                                                    |",
		blank,
		"|           TAB to switch fields / ENTER to sign in                            |",
		top,
	}
}

var (
	styleDefault     = tcell.StyleDefault
	styleCaret       = tcell.StyleDefault.Reverse(true)
	styleGuest       = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	styleRegistered  = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleBroadcaster = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

func roleStyle(role ChatRole) tcell.Style {
	switch role {
	case RoleBroadcaster:
		return styleBroadcaster
	case RoleRegistered:
		return styleRegistered
	default:
		return styleGuest
	}
}

// Renderer paints the aggregate UI state. It never mutates shared
// state; any value mid-update is simply painted as-is next tick.
type Renderer struct {
	screen tcell.Screen
	state  *UIState
	frame  []string
}

func NewRenderer(screen tcell.Screen, state *UIState) *Renderer {
	return &Renderer{
		screen: screen,
		state:  state,
		frame:  chatFrame(),
	}
}

func (r *Renderer) emitStr(x, y int, style tcell.Style, str string) {
	for _, c := range str {
		var comb []rune
		w := runewidth.RuneWidth(c)
		if w == 0 {
			comb = []rune{c}
			c = ' '
			w = 1
		}
		r.screen.SetContent(x, y, c, comb, style)
		x += w
	}
}

func (r *Renderer) emitFrame(rows []string) {
	for y, row := range rows {
		r.emitStr(0, y, styleDefault, row)
	}
}

// emitInput draws an editor's visible runes with the caret cell
// inverted when the editor is active.
func (r *Renderer) emitInput(x, y int, input *TextInput, active, masked bool) {
	runes, caret := input.Rendered(active, masked)
	for i, c := range runes {
		style := styleDefault
		if i == caret {
			style = styleCaret
		}
		r.screen.SetContent(x+i, y, c, nil, style)
	}
}

// PaintChat draws one full chat frame from the current state snapshot.
func (r *Renderer) PaintChat() {
	r.screen.Clear()
	r.emitFrame(r.frame)

	r.emitStr(marqueeX, marqueeY, styleDefault, r.state.Marquee())
	r.emitStr(songMarqueeX, songY, styleDefault, r.state.SongMarquee())
	r.emitStr(volumeX, volumeY, styleDefault, fmt.Sprintf("%d", r.state.Volume()))
	r.emitStr(listenersX, listenersY, styleDefault, fmt.Sprintf("%04d", r.state.Listeners()))

	filled := int(progressCells * r.state.Progress())
	if filled > progressCells {
		filled = progressCells
	}
	for i := 0; i < filled; i++ {
		r.screen.SetContent(progressX+i, progressY, '#', nil, styleDefault)
	}

	for i, line := range r.state.ChatLines() {
		y := chatBottomY - i
		if y < 0 {
			break
		}
		r.emitStr(chatX, y, styleDefault, line.Text)
		if line.Owner != nil {
			r.emitStr(chatX, y, roleStyle(line.Owner.Role), line.Owner.Name)
		}
	}

	runes, caret := r.state.InputView()
	for i, c := range runes {
		style := styleDefault
		if i == caret {
			style = styleCaret
		}
		r.screen.SetContent(inputX+i, inputY, c, nil, style)
	}
	r.screen.Show()
}

// PaintLogin draws the login screen with both credential fields.
func (r *Renderer) PaintLogin(user, pass *TextInput, userActive, warn bool) {
	r.screen.Clear()
	r.emitFrame(loginFrame())
	r.emitInput(loginFieldX, loginUserY, user, userActive, false)
	r.emitInput(loginFieldX, loginPassY, pass, !userActive, true)
	if warn {
		r.emitStr(loginWarnX, loginWarnY, styleBroadcaster, "    You must enter a username!    ")
	}
	r.screen.Show()
}

// startRenderer runs the paint loop on its own cadence; the session
// loop nudges it through redraw for instant input echo.
func startRenderer(r *Renderer, ctl *Control, tick time.Duration, wg *sync.WaitGroup, redraw <-chan struct{}) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer guard(ctl, "renderer")

		ticker := time.NewTicker(tick)
		defer ticker.Stop()

		for {
			select {
			case <-ctl.Done():
				return
			case <-ticker.C:
			case <-redraw:
			}
			r.PaintChat()
		}
	}()
}
