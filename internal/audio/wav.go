package audio

import (
	"bufio"
	"encoding/binary"
	"io"
)

const wavHeaderSize = 44

// WriteWAV writes a 16-bit PCM WAV container around samples
func WriteWAV(w io.Writer, sampleRate, channels int, samples []int16) error {
	bw := bufio.NewWriter(w)
	dataSize := len(samples) * 2
	blockAlign := channels * 2

	header := []any{
		[]byte("RIFF"),
		uint32(wavHeaderSize - 8 + dataSize),
		[]byte("WAVE"),
		[]byte("fmt "),
		uint32(16), // fmt chunk size
		uint16(1),  // PCM
		uint16(channels),
		uint32(sampleRate),
		uint32(sampleRate * blockAlign),
		uint16(blockAlign),
		uint16(16), // bits per sample
		[]byte("data"),
		uint32(dataSize),
	}
	for _, field := range header {
		if b, ok := field.([]byte); ok {
			if _, err := bw.Write(b); err != nil {
				return err
			}
			continue
		}
		if err := binary.Write(bw, binary.LittleEndian, field); err != nil {
			return err
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, samples); err != nil {
		return err
	}
	return bw.Flush()
}

// PCMFromBytes decodes little-endian 16-bit PCM. A trailing odd byte is dropped.
func PCMFromBytes(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}
	return out
}
