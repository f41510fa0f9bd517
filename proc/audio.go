package proc

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/voice"
	"github.com/disgoorg/snowflake/v2"

	"github.com/leeineian/antigrafity/sys"
)

var OpusSilence = []byte{0xf8, 0xff, 0xfe}

// voiceBackend drives one guild's voice connection. Audio flows from an
// ffmpeg subprocess through an Ogg/Opus parser into the disgo frame
// provider.
type voiceBackend struct {
	client  *bot.Client
	guildID snowflake.ID

	mu       sync.Mutex
	conn     voice.Conn
	channel  snowflake.ID
	cmd      *exec.Cmd
	provider *StreamProvider
	playing  bool
}

func newVoiceBackend(client *bot.Client, guildID snowflake.ID) *voiceBackend {
	return &voiceBackend{client: client, guildID: guildID}
}

func (b *voiceBackend) Connect(ctx context.Context, channelID snowflake.ID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connectLocked(ctx, channelID)
}

func (b *voiceBackend) connectLocked(ctx context.Context, channelID snowflake.ID) error {
	if b.conn == nil {
		b.conn = b.client.VoiceManager.CreateConn(b.guildID)
	}

	openCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	if err := b.conn.Open(openCtx, channelID, false, false); err != nil {
		return err
	}
	b.channel = channelID
	return nil
}

func (b *voiceBackend) Move(ctx context.Context, channelID snowflake.ID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn != nil {
		b.conn.Close(ctx)
		b.conn = nil
	}
	return b.connectLocked(ctx, channelID)
}

func (b *voiceBackend) Disconnect(ctx context.Context) {
	b.stopPlayback()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn != nil {
		b.conn.Close(ctx)
		b.conn = nil
	}
}

// Reconnect force-drops and rebuilds the voice connection on the last
// channel, used by the transport-failure recovery path.
func (b *voiceBackend) Reconnect(ctx context.Context) error {
	b.stopPlayback()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn != nil {
		b.conn.Close(ctx)
		b.conn = nil
	}
	if b.channel == 0 {
		return errors.New("no previous channel to reconnect to")
	}
	return b.connectLocked(ctx, b.channel)
}

// Play spawns ffmpeg for the stream reference and wires its Ogg/Opus output
// into the voice connection. onComplete fires exactly once when the stream
// drains or is stopped.
func (b *voiceBackend) Play(ctx context.Context, streamRef string, onComplete func()) error {
	b.stopPlayback()

	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()
	if conn == nil {
		return errors.New("not connected to voice")
	}

	args := []string{
		"-i", streamRef,
		"-map", "0:a",
		"-acodec", "libopus",
		"-b:a", "128k",
		"-vbr", "on",
		"-compression_level", "10",
		"-analyzeduration", "0",
		"-probesize", "32",
		"-f", "opus",
		"pipe:1",
	}
	if strings.HasPrefix(streamRef, "http") {
		args = append([]string{
			"-reconnect", "1",
			"-reconnect_streamed", "1",
			"-reconnect_delay_max", "2",
			"-user_agent", "Mozilla/5.0",
			"-fflags", "nobuffer",
			"-flags", "low_delay",
		}, args...)
	}

	cmd := exec.Command("ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, _ := cmd.StderrPipe()

	if err := cmd.Start(); err != nil {
		return err
	}

	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			sys.LogDebug("ffmpeg: %s", scanner.Text())
		}
	}()

	provider := NewStreamProvider(stdout)
	provider.OnFinish = func() {
		b.mu.Lock()
		b.playing = false
		b.mu.Unlock()
		onComplete()
	}

	b.mu.Lock()
	b.cmd = cmd
	b.provider = provider
	b.playing = true
	b.mu.Unlock()

	conn.SetOpusFrameProvider(provider)
	conn.SetSpeaking(ctx, voice.SpeakingFlagMicrophone)

	go func() {
		cmd.Wait()
	}()
	return nil
}

// stopPlayback kills the subprocess and fires the finish hook for any
// current stream.
func (b *voiceBackend) stopPlayback() {
	b.mu.Lock()
	cmd := b.cmd
	provider := b.provider
	conn := b.conn
	b.cmd = nil
	b.provider = nil
	b.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		cmd.Process.Kill()
	}
	if conn != nil {
		conn.SetOpusFrameProvider(nil)
		conn.SetSpeaking(context.TODO(), 0)
	}
	if provider != nil {
		provider.triggerFinish()
	}
}

func (b *voiceBackend) Stop() {
	b.stopPlayback()
}

func (b *voiceBackend) Pause() {
	b.mu.Lock()
	provider := b.provider
	b.mu.Unlock()
	if provider != nil {
		provider.paused.Store(true)
	}
}

func (b *voiceBackend) Resume() {
	b.mu.Lock()
	provider := b.provider
	b.mu.Unlock()
	if provider != nil {
		provider.paused.Store(false)
	}
}

func (b *voiceBackend) IsPlaying() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.playing
}

func (b *voiceBackend) IsPaused() bool {
	b.mu.Lock()
	provider := b.provider
	b.mu.Unlock()
	return provider != nil && provider.paused.Load()
}

// StreamProvider implements voice.OpusFrameProvider, parsing Opus packets
// out of the Ogg container ffmpeg emits.
type StreamProvider struct {
	reader    *bufio.Reader
	header    []byte
	segBuf    []byte
	packetBuf bytes.Buffer
	queue     [][]byte
	paused    atomic.Bool
	OnFinish  func()
	once      sync.Once
}

func NewStreamProvider(r io.Reader) *StreamProvider {
	return &StreamProvider{
		reader: bufio.NewReaderSize(r, 16384),
		header: make([]byte, 27),
		segBuf: make([]byte, 255),
	}
}

func (p *StreamProvider) Close() {}

func (p *StreamProvider) triggerFinish() {
	p.once.Do(func() {
		if p.OnFinish != nil {
			p.OnFinish()
		}
	})
}

// ProvideOpusFrame parses the next Opus packet from the Ogg stream. While
// paused it emits silence so the connection stays warm.
func (p *StreamProvider) ProvideOpusFrame() ([]byte, error) {
	if p.paused.Load() {
		return OpusSilence, nil
	}

	if len(p.queue) > 0 {
		frame := p.queue[0]
		p.queue = p.queue[1:]
		return frame, nil
	}

scanLoop:
	for {
		sig, err := p.reader.Peek(4)
		if err != nil {
			p.triggerFinish()
			return nil, err
		}

		if string(sig) == "OggS" {
			if _, err := io.ReadFull(p.reader, p.header); err != nil {
				p.triggerFinish()
				return nil, err
			}
		} else {
			_, _ = p.reader.Discard(1)
			continue scanLoop
		}

		numSegs := int(p.header[26])
		segTable := p.segBuf[:numSegs]
		if _, err := io.ReadFull(p.reader, segTable); err != nil {
			p.triggerFinish()
			return nil, err
		}

		for _, segLen := range segTable {
			l := int(segLen)
			if _, err := io.CopyN(&p.packetBuf, p.reader, int64(l)); err != nil {
				p.triggerFinish()
				return nil, err
			}

			if l < 255 {
				payload := p.packetBuf.Bytes()
				frame := make([]byte, len(payload))
				copy(frame, payload)
				p.packetBuf.Reset()

				// Skip metadata packets (OpusHead/OpusTags).
				if len(frame) > 8 && (string(frame[:8]) == "OpusHead" || string(frame[:8]) == "OpusTags") {
					continue
				}

				p.queue = append(p.queue, frame)
			}
		}

		if len(p.queue) > 0 {
			frame := p.queue[0]
			p.queue = p.queue[1:]
			return frame, nil
		}
	}
}
