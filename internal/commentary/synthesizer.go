package commentary

import (
	"context"
	"encoding/binary"

	"github.com/google/uuid"

	"rinkcast/internal/pipeline"
)

// ScriptedSynthesizer renders lines as minimal placeholder WAV payloads
// so the pipeline exercises real file handling end to end.
type ScriptedSynthesizer struct{}

// NewScriptedSynthesizer constructs a ScriptedSynthesizer.
func NewScriptedSynthesizer() *ScriptedSynthesizer {
	return &ScriptedSynthesizer{}
}

// Synthesize produces a silent WAV sized to the line length and a fresh
// audio id for it.
func (s *ScriptedSynthesizer) Synthesize(ctx context.Context, line pipeline.Line) (string, []byte, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	return uuid.NewString(), silentWAV(len(line.Text) * 100), nil
}

// silentWAV builds a valid 8kHz mono PCM WAV header followed by n bytes
// of silence.
func silentWAV(n int) []byte {
	const (
		sampleRate    = 8000
		bitsPerSample = 8
	)

	buf := make([]byte, 44+n)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+n))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:28], sampleRate)
	binary.LittleEndian.PutUint32(buf[28:32], sampleRate*bitsPerSample/8)
	binary.LittleEndian.PutUint16(buf[32:34], bitsPerSample/8)
	binary.LittleEndian.PutUint16(buf[34:36], bitsPerSample)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(n))
	for i := 44; i < len(buf); i++ {
		buf[i] = 0x80 // unsigned 8-bit midpoint
	}
	return buf
}
