package voice

import "encoding/binary"

// EncodePCM16 converts float32 samples in [-1, 1) to little-endian 16-bit
// PCM bytes, clamping out-of-range values.
func EncodePCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		v := int32(s * 32768)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(v)))
	}
	return out
}

// DecodePCM16 converts little-endian 16-bit PCM bytes back to float32
// samples. A trailing odd byte is ignored.
func DecodePCM16(data []byte) []float32 {
	n := len(data) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = float32(int16(binary.LittleEndian.Uint16(data[i*2:]))) / 32768
	}
	return out
}

// FrameDuration returns the playback duration in seconds of a PCM16 frame
// at the given sample rate.
func FrameDuration(data []byte, sampleRate int) float64 {
	return float64(len(data)/2) / float64(sampleRate)
}
