package feedback

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/rs/zerolog"

	"zentime/internal/core/model"
)

// DefaultSampleRate is the rate the speaker is opened at. Assets recorded
// at other rates are resampled on load.
const DefaultSampleRate beep.SampleRate = 44100

// Volumes used by the meditation and breathing screens.
const (
	MeditationVolume = 0.3
	BreathingVolume  = 0.2
)

// Output is the device streamers are mixed into.
type Output interface {
	SampleRate() beep.SampleRate
	Play(streamer beep.Streamer) error
	Lock()
	Unlock()
	Clear()
}

// Speaker is the system audio device. It is opened on first use.
type Speaker struct {
	once       sync.Once
	err        error
	sampleRate beep.SampleRate
}

// NewSpeaker creates a speaker that opens at sampleRate.
func NewSpeaker(sampleRate beep.SampleRate) *Speaker {
	return &Speaker{sampleRate: sampleRate}
}

func (s *Speaker) SampleRate() beep.SampleRate {
	return s.sampleRate
}

// Play mixes streamer into the speaker output.
func (s *Speaker) Play(streamer beep.Streamer) error {
	s.once.Do(func() {
		s.err = speaker.Init(s.sampleRate, s.sampleRate.N(time.Second/10))
	})
	if s.err != nil {
		return fmt.Errorf("open speaker: %w", s.err)
	}
	speaker.Play(streamer)
	return nil
}

func (s *Speaker) Lock()   { speaker.Lock() }
func (s *Speaker) Unlock() { speaker.Unlock() }
func (s *Speaker) Clear()  { speaker.Clear() }

// AmbientPlayer loads ambient assets from a directory and hands out
// channels that loop them on a shared output.
type AmbientPlayer struct {
	mu      sync.Mutex
	dir     string
	output  Output
	logger  zerolog.Logger
	buffers map[model.AmbientSound]*beep.Buffer
}

// NewAmbientPlayer creates a player reading assets from dir.
func NewAmbientPlayer(dir string, output Output, logger zerolog.Logger) *AmbientPlayer {
	return &AmbientPlayer{
		dir:     dir,
		output:  output,
		logger:  logger,
		buffers: make(map[model.AmbientSound]*beep.Buffer),
	}
}

// Channel returns an independent handle playing at volume (0..1).
func (player *AmbientPlayer) Channel(name string, volume float64) *AmbientChannel {
	return &AmbientChannel{
		player:  player,
		logger:  player.logger.With().Str("channel", name).Logger(),
		volume:  volume,
		current: model.AmbientNone,
	}
}

// Close silences every channel.
func (player *AmbientPlayer) Close() {
	player.output.Clear()
}

// load decodes the asset for sound once and keeps it in memory.
func (player *AmbientPlayer) load(sound model.AmbientSound) (*beep.Buffer, error) {
	player.mu.Lock()
	defer player.mu.Unlock()
	if buffer, ok := player.buffers[sound]; ok {
		return buffer, nil
	}
	path := filepath.Join(player.dir, sound.FileName())
	buffer, err := decodeFile(path, player.output.SampleRate())
	if err != nil {
		return nil, err
	}
	player.buffers[sound] = buffer
	player.logger.Debug().Str("file", path).Int("samples", buffer.Len()).Msg("ambient loaded")
	return buffer, nil
}

// AmbientChannel loops one sound at a time. Stopping a channel leaves
// other channels on the same player playing.
type AmbientChannel struct {
	mu      sync.Mutex
	player  *AmbientPlayer
	logger  zerolog.Logger
	volume  float64
	current model.AmbientSound
	ctrl    *beep.Ctrl
}

// Play switches the channel to sound, replacing whatever it was playing.
func (channel *AmbientChannel) Play(sound model.AmbientSound) error {
	channel.mu.Lock()
	defer channel.mu.Unlock()
	if sound == channel.current {
		return nil
	}
	channel.stopLocked()
	if sound == model.AmbientNone {
		return nil
	}

	buffer, err := channel.player.load(sound)
	if err != nil {
		return fmt.Errorf("load %s: %w", sound, err)
	}
	ctrl := &beep.Ctrl{Streamer: withVolume(beep.Loop(-1, buffer.Streamer(0, buffer.Len())), channel.volume)}
	if err := channel.player.output.Play(ctrl); err != nil {
		return err
	}
	channel.ctrl = ctrl
	channel.current = sound
	channel.logger.Info().Str("sound", string(sound)).Msg("ambient playing")
	return nil
}

// Stop silences the channel. Stopping a silent channel is a no-op.
func (channel *AmbientChannel) Stop() error {
	channel.mu.Lock()
	defer channel.mu.Unlock()
	channel.stopLocked()
	return nil
}

// Current returns the sound the channel is playing.
func (channel *AmbientChannel) Current() model.AmbientSound {
	channel.mu.Lock()
	defer channel.mu.Unlock()
	return channel.current
}

func (channel *AmbientChannel) stopLocked() {
	if channel.ctrl == nil {
		return
	}
	output := channel.player.output
	output.Lock()
	channel.ctrl.Streamer = nil
	output.Unlock()
	channel.ctrl = nil
	channel.logger.Info().Str("sound", string(channel.current)).Msg("ambient stopped")
	channel.current = model.AmbientNone
}

// withVolume scales streamer by a linear gain in [0, 1].
func withVolume(streamer beep.Streamer, gain float64) beep.Streamer {
	if gain >= 1 {
		return streamer
	}
	if gain <= 0 {
		return &effects.Volume{Streamer: streamer, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: streamer, Base: 2, Volume: math.Log2(gain)}
}

// decodeFile reads a wav or mp3 file into memory at sampleRate.
func decodeFile(path string, sampleRate beep.SampleRate) (*beep.Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	header, err := bufio.NewReader(file).Peek(4)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	if bytes.Equal(header, []byte("RIFF")) {
		streamer, format, err = wav.Decode(file)
	} else {
		streamer, format, err = mp3.Decode(file)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	buffer.Append(beep.Resample(4, format.SampleRate, sampleRate, streamer))
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return buffer, nil
}
