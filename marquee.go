package main

// Marquee exposes a sliding fixed-width window over a padded source
// string. The source is expected to start with width spaces so the
// first frame scrolls in from a blank window.
type Marquee struct {
	source []rune
	offset float64
	width  int
	speed  float64 // cells per second
}

func NewMarquee(width int, speed float64) *Marquee {
	m := &Marquee{width: width, speed: speed}
	m.SetSource("")
	return m
}

// SetSource replaces the scrolled text and rewinds to the start. Blank
// padding of the window width is prepended here, not by the caller.
func (m *Marquee) SetSource(text string) {
	padded := make([]rune, 0, m.width+len(text))
	for i := 0; i < m.width; i++ {
		padded = append(padded, ' ')
	}
	m.source = append(padded, []rune(text)...)
	m.offset = 0
}

// Advance scrolls by elapsed time and reports whether the offset wrapped
// back to the start, which is the caller's cue to refresh the source.
func (m *Marquee) Advance(dt float64) bool {
	m.offset += m.speed * dt
	wrapped := false
	for m.offset >= float64(len(m.source)) {
		m.offset -= float64(len(m.source))
		wrapped = true
	}
	return wrapped
}

// Window returns the currently visible slice, space-padded to width when
// the tail of the source is shorter than the window.
func (m *Marquee) Window() string {
	out := make([]rune, m.width)
	start := int(m.offset)
	for i := 0; i < m.width; i++ {
		if start+i < len(m.source) {
			out[i] = m.source[start+i]
		} else {
			out[i] = ' '
		}
	}
	return string(out)
}
