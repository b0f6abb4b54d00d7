package journal

import (
	"bytes"
	"io"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// makeTestWAV builds a minimal valid WAV payload so the engine's
// concatenation step can decode what the mocks hand it.
func makeTestWAV(numChans, sampleRate, bitDepth, samples int) []byte {
	ws := &sliceWriteSeeker{}
	e := wav.NewEncoder(ws, sampleRate, bitDepth, numChans, 1)
	data := make([]int, samples)
	for i := range data {
		data[i] = i % 32
	}
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: numChans, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := e.Write(buf); err != nil {
		panic(err)
	}
	if err := e.Close(); err != nil {
		panic(err)
	}
	return ws.buf.Bytes()
}

type sliceWriteSeeker struct {
	buf bytes.Buffer
	pos int
}

func (s *sliceWriteSeeker) Write(p []byte) (int, error) {
	if s.pos == s.buf.Len() {
		n, err := s.buf.Write(p)
		s.pos += n
		return n, err
	}
	b := s.buf.Bytes()
	n := copy(b[s.pos:], p)
	if n < len(p) {
		m, err := s.buf.Write(p[n:])
		s.pos += n + m
		return n + m, err
	}
	s.pos += n
	return n, nil
}

func (s *sliceWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = int64(s.pos) + offset
	case io.SeekEnd:
		next = int64(s.buf.Len()) + offset
	}
	s.pos = int(next)
	return next, nil
}
