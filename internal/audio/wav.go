package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/dgnsrekt/sayline/tts"
)

const wavHeaderSize = 44

var (
	// ErrNotWAV is returned when data does not start with a RIFF/WAVE header.
	ErrNotWAV = errors.New("not a RIFF/WAVE stream")

	// ErrUnsupportedWAV is returned for WAV encodings other than PCM16.
	ErrUnsupportedWAV = errors.New("unsupported WAV encoding: want 16-bit PCM")
)

// EncodeWAV wraps raw PCM16 audio in a RIFF/WAVE container.
func EncodeWAV(a *tts.Audio) []byte {
	dataLen := len(a.Data)
	byteRate := a.SampleRate * a.Channels * 2
	blockAlign := a.Channels * 2

	buf := make([]byte, wavHeaderSize+dataLen)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(buf[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(buf[22:24], uint16(a.Channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(a.SampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], 16) // bits per sample
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))
	copy(buf[wavHeaderSize:], a.Data)
	return buf
}

// WriteWAVFile writes audio to path as a WAV file.
func WriteWAVFile(path string, a *tts.Audio) error {
	if err := os.WriteFile(path, EncodeWAV(a), 0o644); err != nil {
		return fmt.Errorf("unable to write audio file: %w", err)
	}
	return nil
}

// DecodeWAV extracts PCM16 audio from a RIFF/WAVE stream. Streaming
// producers like espeak write placeholder chunk sizes because the total
// length is unknown up front, so sizes beyond the actual data are clamped
// rather than rejected.
func DecodeWAV(data []byte) (*tts.Audio, error) {
	if len(data) < wavHeaderSize {
		return nil, ErrNotWAV
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, ErrNotWAV
	}

	var (
		sampleRate int
		channels   int
		haveFmt    bool
	)

	// Walk the chunk list. The data chunk is taken as everything from its
	// offset to the end of the stream when its declared size is bogus.
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		switch chunkID {
		case "fmt ":
			if body+16 > len(data) {
				return nil, ErrNotWAV
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits := binary.LittleEndian.Uint16(data[body+14 : body+16])
			if format != 1 || bits != 16 {
				return nil, ErrUnsupportedWAV
			}
			if channels < 1 || sampleRate < 1 {
				return nil, ErrUnsupportedWAV
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, ErrNotWAV
			}
			end := body + chunkSize
			if chunkSize <= 0 || end > len(data) {
				end = len(data)
			}
			pcm := data[body:end]
			return &tts.Audio{
				Data:       pcm,
				SampleRate: sampleRate,
				Channels:   channels,
				Duration:   tts.PCMDuration(len(pcm), sampleRate, channels),
			}, nil
		}

		if chunkSize <= 0 || body+chunkSize > len(data) {
			break
		}
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++ // chunks are word-aligned
		}
	}

	return nil, ErrNotWAV
}
