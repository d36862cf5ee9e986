package main

// TextInput is a single-line edit buffer with a cursor and an optional
// character limit. It is only ever mutated by the foreground input loop,
// so it carries no locking.
type TextInput struct {
	value  []rune
	cursor int
	limit  int // 0 means unbounded
}

func NewTextInput(limit int) *TextInput {
	return &TextInput{limit: limit}
}

func (t *TextInput) Value() string {
	return string(t.value)
}

// SetValue replaces the buffer wholesale and moves the cursor to the end.
func (t *TextInput) SetValue(s string) {
	t.value = []rune(s)
	t.cursor = len(t.value)
}

// Update applies one decoded key to the buffer.
func (t *TextInput) Update(key Key) {
	switch key.Kind {
	case KeyChar:
		if t.limit == 0 || len(t.value) < t.limit {
			t.value = append(t.value[:t.cursor], append([]rune{key.Rune}, t.value[t.cursor:]...)...)
			t.cursor++
		}
	case KeyLeft:
		if t.cursor > 0 {
			t.cursor--
		}
	case KeyRight:
		if t.cursor < len(t.value) {
			t.cursor++
		}
	case KeyHome:
		t.cursor = 0
	case KeyEnd:
		t.cursor = len(t.value)
	case KeyDelete:
		if t.cursor < len(t.value) {
			t.value = append(t.value[:t.cursor], t.value[t.cursor+1:]...)
		}
	case KeyBackspace:
		if t.cursor > 0 {
			t.value = append(t.value[:t.cursor-1], t.value[t.cursor:]...)
			t.cursor--
		}
	case KeyEnter:
		return // submission is the caller's concern
	}

	// Re-clamp in case the limit shrank the buffer out from under the cursor.
	if t.limit > 0 && len(t.value) > t.limit {
		t.value = t.value[:t.limit]
	}
	if t.cursor > len(t.value) {
		t.cursor = len(t.value)
	}
}

// Rendered returns the display runes plus the cell index to highlight as
// the caret; the index is -1 when the input is not active. An empty
// active input yields a single highlighted blank so the caret stays
// visible. Masked inputs replace every rune with '*'.
func (t *TextInput) Rendered(active, masked bool) ([]rune, int) {
	out := make([]rune, len(t.value))
	copy(out, t.value)
	if masked {
		for i := range out {
			out[i] = '*'
		}
	}
	if !active {
		return out, -1
	}
	if len(out) == 0 {
		return []rune{' '}, 0
	}
	caret := t.cursor - 1
	if caret < 0 {
		caret = 0
	}
	return out, caret
}
