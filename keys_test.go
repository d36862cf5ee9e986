package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"
)

func TestDecodeKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Key
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), Key{Kind: KeyChar, Rune: 'a'}},
		{"unicode rune", tcell.NewEventKey(tcell.KeyRune, 'ラ', tcell.ModNone), Key{Kind: KeyChar, Rune: 'ラ'}},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), Key{Kind: KeyEnter}},
		{"linefeed", tcell.NewEventKey(tcell.KeyLF, 0, tcell.ModNone), Key{Kind: KeyEnter}},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), Key{Kind: KeyTab}},
		{"tab rune", tcell.NewEventKey(tcell.KeyRune, '\t', tcell.ModNone), Key{Kind: KeyTab}},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace, 0, tcell.ModNone), Key{Kind: KeyBackspace}},
		{"backspace2", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), Key{Kind: KeyBackspace}},
		{"delete", tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone), Key{Kind: KeyDelete}},
		{"left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), Key{Kind: KeyLeft}},
		{"right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), Key{Kind: KeyRight}},
		{"home", tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone), Key{Kind: KeyHome}},
		{"end", tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone), Key{Kind: KeyEnd}},
		{"up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), Key{Kind: KeyUp}},
		{"down", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), Key{Kind: KeyDown}},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone), Key{Kind: KeyInterrupt}},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), Key{Kind: KeyInterrupt}},
		{"unhandled", tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), Key{Kind: KeyNone}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DecodeKey(tt.ev))
		})
	}
}
