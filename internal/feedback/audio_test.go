package feedback

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zentime/internal/core/model"
	"zentime/internal/core/timing"
)

type fakeOutput struct {
	device    sync.Mutex
	mu        sync.Mutex
	streamers []beep.Streamer
	cleared   int
}

func (output *fakeOutput) SampleRate() beep.SampleRate { return DefaultSampleRate }

func (output *fakeOutput) Play(streamer beep.Streamer) error {
	output.mu.Lock()
	defer output.mu.Unlock()
	output.streamers = append(output.streamers, streamer)
	return nil
}

func (output *fakeOutput) Lock()   { output.device.Lock() }
func (output *fakeOutput) Unlock() { output.device.Unlock() }

func (output *fakeOutput) Clear() {
	output.mu.Lock()
	defer output.mu.Unlock()
	output.cleared++
}

func (output *fakeOutput) played() []beep.Streamer {
	output.mu.Lock()
	defer output.mu.Unlock()
	return append([]beep.Streamer(nil), output.streamers...)
}

// pull streams up to limit samples and reports how many were produced.
func pull(streamer beep.Streamer, limit int) int {
	buf := make([][2]float64, 512)
	total := 0
	for total < limit {
		n, ok := streamer.Stream(buf[:min(len(buf), limit-total)])
		total += n
		if !ok || n == 0 {
			break
		}
	}
	return total
}

// writeAsset encodes a short tone as a wav file under the sound's asset name.
func writeAsset(t *testing.T, dir string, sound model.AmbientSound, sampleRate beep.SampleRate, length time.Duration) {
	t.Helper()
	file, err := os.Create(filepath.Join(dir, sound.FileName()))
	require.NoError(t, err)
	defer file.Close()
	format := beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(file, tone(sampleRate, 220, length, 1), format))
}

func TestAmbientChannelLoopsAsset(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, model.AmbientRain, 22050, 100*time.Millisecond)
	output := &fakeOutput{}
	var logs bytes.Buffer
	player := NewAmbientPlayer(dir, output, zerolog.New(&logs))
	channel := player.Channel("meditation", MeditationVolume)

	require.NoError(t, channel.Play(model.AmbientRain))
	assert.Equal(t, model.AmbientRain, channel.Current())
	require.Len(t, output.played(), 1)

	// The asset is resampled to the speaker rate and loops past its own length.
	oneCopy := DefaultSampleRate.N(100 * time.Millisecond)
	assert.Equal(t, 5*oneCopy, pull(output.played()[0], 5*oneCopy))
	assert.Contains(t, logs.String(), "ambient playing")

	require.NoError(t, channel.Play(model.AmbientRain))
	assert.Len(t, output.played(), 1, "replaying the current sound is a no-op")
}

func TestStoppingOneChannelKeepsOtherPlaying(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, model.AmbientRain, DefaultSampleRate, 50*time.Millisecond)
	output := &fakeOutput{}
	player := NewAmbientPlayer(dir, output, zerolog.Nop())
	meditation := player.Channel("meditation", MeditationVolume)
	breathing := player.Channel("breathing", BreathingVolume)

	require.NoError(t, meditation.Play(model.AmbientRain))
	require.NoError(t, breathing.Play(model.AmbientRain))
	require.Len(t, output.played(), 2)

	require.NoError(t, meditation.Stop())
	require.NoError(t, meditation.Stop())

	assert.Equal(t, model.AmbientNone, meditation.Current())
	assert.Equal(t, model.AmbientRain, breathing.Current())
	assert.Zero(t, pull(output.played()[0], 1024))
	assert.Equal(t, 1024, pull(output.played()[1], 1024))
	assert.Zero(t, output.cleared)

	player.Close()
	assert.Equal(t, 1, output.cleared)
}

func TestAmbientChannelSwitchesSound(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, model.AmbientRain, DefaultSampleRate, 50*time.Millisecond)
	writeAsset(t, dir, model.AmbientOmTone, DefaultSampleRate, 50*time.Millisecond)
	output := &fakeOutput{}
	channel := NewAmbientPlayer(dir, output, zerolog.Nop()).Channel("meditation", 1)

	require.NoError(t, channel.Play(model.AmbientRain))
	require.NoError(t, channel.Play(model.AmbientOmTone))

	played := output.played()
	require.Len(t, played, 2)
	assert.Zero(t, pull(played[0], 1024))
	assert.Equal(t, 1024, pull(played[1], 1024))
	assert.Equal(t, model.AmbientOmTone, channel.Current())

	require.NoError(t, channel.Play(model.AmbientNone))
	assert.Zero(t, pull(played[1], 1024))
	assert.Equal(t, model.AmbientNone, channel.Current())
}

func TestAmbientChannelMissingAsset(t *testing.T) {
	output := &fakeOutput{}
	channel := NewAmbientPlayer(t.TempDir(), output, zerolog.Nop()).Channel("meditation", MeditationVolume)

	err := channel.Play(model.AmbientBrownNoise)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brown_noise")
	assert.Equal(t, model.AmbientNone, channel.Current())
	assert.Empty(t, output.played())
}

func TestAmbientPlayerDecodesOnce(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, model.AmbientRain, DefaultSampleRate, 50*time.Millisecond)
	output := &fakeOutput{}
	player := NewAmbientPlayer(dir, output, zerolog.Nop())

	require.NoError(t, player.Channel("a", 1).Play(model.AmbientRain))
	require.NoError(t, os.Remove(filepath.Join(dir, model.AmbientRain.FileName())))
	require.NoError(t, player.Channel("b", 1).Play(model.AmbientRain))
	assert.Len(t, output.played(), 2)
}

func TestWithVolumeScalesSamples(t *testing.T) {
	constant := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{1, 1}
		}
		return len(samples), true
	})
	buf := make([][2]float64, 4)

	_, ok := withVolume(constant, 0.25).Stream(buf)
	require.True(t, ok)
	assert.InDelta(t, 0.25, buf[0][0], 1e-9)

	withVolume(constant, 0).Stream(buf)
	assert.Zero(t, buf[0][0])
}

func TestChimesRingBells(t *testing.T) {
	output := &fakeOutput{}
	chimes := NewChimes(output, 1, zerolog.Nop())

	require.NoError(t, chimes.Impact(timing.ImpactMedium))
	require.NoError(t, chimes.Impact(timing.ImpactLight))
	require.NoError(t, chimes.Success())

	played := output.played()
	require.Len(t, played, 3)
	bellSamples := DefaultSampleRate.N(bellLength)
	assert.Equal(t, bellSamples, pull(played[0], 10*bellSamples))
	assert.Equal(t, DefaultSampleRate.N(phaseTickLength), pull(played[1], 10*bellSamples))
	assert.Equal(t, 2*bellSamples+DefaultSampleRate.N(endBellGap), pull(played[2], 10*bellSamples))
}
