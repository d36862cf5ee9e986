package main

import "github.com/gdamore/tcell/v2"

// KeyKind is the small symbolic alphabet the editors and the session
// loops consume instead of raw tcell events.
type KeyKind int

const (
	KeyNone KeyKind = iota
	KeyChar
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyUp
	KeyDown
	KeyInterrupt
)

type Key struct {
	Kind KeyKind
	Rune rune
}

// DecodeKey normalizes a tcell key event. Printable runes come through
// as KeyChar; control bytes arrive pre-folded into named keys by tcell
// (CR and LF both mean Enter depending on the terminal).
func DecodeKey(ev *tcell.EventKey) Key {
	switch ev.Key() {
	case tcell.KeyEnter, tcell.KeyLF:
		return Key{Kind: KeyEnter}
	case tcell.KeyTab:
		return Key{Kind: KeyTab}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return Key{Kind: KeyBackspace}
	case tcell.KeyDelete:
		return Key{Kind: KeyDelete}
	case tcell.KeyLeft:
		return Key{Kind: KeyLeft}
	case tcell.KeyRight:
		return Key{Kind: KeyRight}
	case tcell.KeyHome:
		return Key{Kind: KeyHome}
	case tcell.KeyEnd:
		return Key{Kind: KeyEnd}
	case tcell.KeyUp:
		return Key{Kind: KeyUp}
	case tcell.KeyDown:
		return Key{Kind: KeyDown}
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return Key{Kind: KeyInterrupt}
	case tcell.KeyRune:
		return Key{Kind: KeyChar, Rune: ev.Rune()}
	}
	return Key{Kind: KeyNone}
}
