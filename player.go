package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/go-mp3"
)

// pcmStream adapts the decoder's 16-bit little-endian output into
// float32 samples scaled by sample/65535 * (volume/9). Widening to
// float32 avoids integer overflow static when scaling; it doubles the
// bytes per sample, which is why the output stream runs at half the
// source frame rate. The stream ends early, within one buffer read,
// when the externally-visible now-playing identity stops matching the
// track it was built for.
type pcmStream struct {
	src   io.Reader
	state *UIState
	track string
	total int64
	read  int64
}

func (s *pcmStream) Read(p []byte) (int, error) {
	if s.state.NowPlaying() != s.track {
		return 0, io.EOF
	}

	// Two source bytes become one float32 (four bytes out).
	in := make([]byte, len(p)/2/2*2)
	if len(in) == 0 {
		return 0, nil
	}
	n, err := io.ReadFull(s.src, in)
	if n == 0 {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return 0, err
	}
	n -= n % 2

	volume := float32(s.state.Volume()) / 9
	for i := 0; i < n; i += 2 {
		sample := binary.LittleEndian.Uint16(in[i:])
		f := float32(sample) / 65535 * volume
		binary.LittleEndian.PutUint32(p[i*2:], math.Float32bits(f))
	}

	s.read += int64(n)
	if s.total > 0 {
		s.state.SetProgress(float64(s.read) / float64(s.total))
	}
	return n * 2, nil
}

// SongPlayer downloads and plays one track at a time.
type SongPlayer struct {
	state      *UIState
	artifact   string
	httpClient *http.Client

	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
}

func NewSongPlayer(state *UIState, artifact string) *SongPlayer {
	return &SongPlayer{
		state:    state,
		artifact: artifact,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// download fetches the track media into the transient artifact file,
// replacing whatever previous track left behind.
func (p *SongPlayer) download(url string) error {
	os.Remove(p.artifact)

	resp, err := p.httpClient.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download: status %d", resp.StatusCode)
	}

	f, err := os.Create(p.artifact)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(p.artifact)
		return err
	}
	return f.Close()
}

// context returns the process-wide audio context, created on first use.
// oto contexts cannot be reopened at a new rate, so the first track's
// rate wins; the station catalog is uniform so this never matters in
// practice.
func (p *SongPlayer) context(sampleRate int) (*oto.Context, error) {
	p.otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatFloat32LE,
		})
		if err != nil {
			p.otoErr = err
			return
		}
		<-ready
		p.otoCtx = ctx
	})
	return p.otoCtx, p.otoErr
}

// PlayTrack downloads, decodes and streams one track to completion, or
// until the now-playing identity changes out from under it. It never
// overlaps itself; the driver loop calls it synchronously.
func (p *SongPlayer) PlayTrack(ctl *Control, track Track) error {
	p.state.SetNowPlaying(songLoading)
	p.state.SetProgress(0)

	if err := p.download(track.URL); err != nil {
		return fmt.Errorf("download %s: %v", track.Name, err)
	}

	f, err := os.Open(p.artifact)
	if err != nil {
		return err
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return fmt.Errorf("decode %s: %v", track.Name, err)
	}

	ctx, err := p.context(decoder.SampleRate() / 2)
	if err != nil {
		return fmt.Errorf("audio output: %v", err)
	}

	p.state.SetNowPlaying(track.Name)

	stream := &pcmStream{
		src:   decoder,
		state: p.state,
		track: track.Name,
		total: decoder.Length(),
	}
	player := ctx.NewPlayer(stream)
	player.Play()
	defer player.Close()

	poll := time.NewTicker(50 * time.Millisecond)
	defer poll.Stop()
	for player.IsPlaying() {
		select {
		case <-ctl.Done():
			// Instant cutover, no fade: Close drops buffered audio.
			return nil
		case <-poll.C:
			if p.state.NowPlaying() != track.Name {
				return nil
			}
		}
	}
	return nil
}

// startSongPlayer runs the playback driver: fetch the catalog, then
// loop picking tracks at random (avoiding an immediate repeat) until
// shutdown. Per-track failures skip straight to the next pick.
func startSongPlayer(client *RadioClient, state *UIState, ctl *Control, wg *sync.WaitGroup, artifact string) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer guard(ctl, "song player")
		defer os.Remove(artifact)

		player := NewSongPlayer(state, artifact)

		var tracks []Track
		last := -1
		for {
			select {
			case <-ctl.Done():
				return
			case <-time.After(time.Second):
			}

			if len(tracks) == 0 {
				var err error
				tracks, err = client.TrackList()
				if err != nil {
					debugLog("Song player: track list fetch failed: %v", err)
					continue
				}
				debugLog("Song player: catalog loaded, %d tracks", len(tracks))
			}

			next := rand.Intn(len(tracks))
			if len(tracks) > 1 && next == last {
				next = (next + 1 + rand.Intn(len(tracks)-1)) % len(tracks)
			}
			last = next

			if err := player.PlayTrack(ctl, tracks[next]); err != nil {
				debugLog("Song player: %v", err)
			}
		}
	}()
}
