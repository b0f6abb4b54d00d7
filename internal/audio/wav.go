// Package audio assembles prompt playback audio out of stored WAV
// segments. All segments of one playback must share the same container
// parameters; the first segment's header is adopted for the output.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var ErrFormatMismatch = errors.New("wav segments have mismatched formats")

// Format describes the container parameters of a WAV payload.
type Format struct {
	NumChannels int
	SampleRate  int
	BitDepth    int
	PCMFormat   int
}

// Info decodes only the header of a WAV payload.
func Info(data []byte) (Format, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return Format{}, fmt.Errorf("read wav header: %w", err)
	}
	return Format{
		NumChannels: int(d.NumChans),
		SampleRate:  int(d.SampleRate),
		BitDepth:    int(d.BitDepth),
		PCMFormat:   int(d.WavAudioFormat),
	}, nil
}

// Concat joins WAV payloads into a single container, appending PCM
// frames in the given order. Every segment must carry the same channel
// count, sample rate, bit depth and PCM format as the first one;
// a mismatch fails with ErrFormatMismatch instead of producing a
// silently broken file.
func Concat(segments ...[]byte) ([]byte, error) {
	if len(segments) == 0 {
		return nil, errors.New("no wav segments to concatenate")
	}

	var (
		format Format
		frames []int
	)
	for i, seg := range segments {
		d := wav.NewDecoder(bytes.NewReader(seg))
		buf, err := d.FullPCMBuffer()
		if err != nil {
			return nil, fmt.Errorf("decode wav segment %d: %w", i, err)
		}
		f := Format{
			NumChannels: int(d.NumChans),
			SampleRate:  int(d.SampleRate),
			BitDepth:    int(d.BitDepth),
			PCMFormat:   int(d.WavAudioFormat),
		}
		if i == 0 {
			format = f
		} else if f != format {
			return nil, fmt.Errorf("%w: segment 0 is %+v, segment %d is %+v", ErrFormatMismatch, format, i, f)
		}
		frames = append(frames, buf.Data...)
	}

	ws := &memWriteSeeker{}
	e := wav.NewEncoder(ws, format.SampleRate, format.BitDepth, format.NumChannels, format.PCMFormat)
	out := &gaudio.IntBuffer{
		Format: &gaudio.Format{
			NumChannels: format.NumChannels,
			SampleRate:  format.SampleRate,
		},
		Data:           frames,
		SourceBitDepth: format.BitDepth,
	}
	if err := e.Write(out); err != nil {
		return nil, fmt.Errorf("encode concatenated wav: %w", err)
	}
	if err := e.Close(); err != nil {
		return nil, fmt.Errorf("finalize concatenated wav: %w", err)
	}
	return ws.buf, nil
}

// FrameCount returns the number of PCM samples (per all channels) in a
// WAV payload.
func FrameCount(data []byte) (int, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return 0, fmt.Errorf("decode wav: %w", err)
	}
	return len(buf.Data), nil
}

// memWriteSeeker satisfies the io.WriteSeeker the wav encoder needs
// without touching the filesystem.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	if need := m.pos + len(p); need > len(m.buf) {
		grown := make([]byte, need)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:], p)
	m.pos += len(p)
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = int64(m.pos) + offset
	case io.SeekEnd:
		next = int64(len(m.buf)) + offset
	default:
		return 0, fmt.Errorf("unsupported whence %d", whence)
	}
	if next < 0 {
		return 0, errors.New("seek before start of buffer")
	}
	m.pos = int(next)
	return next, nil
}
