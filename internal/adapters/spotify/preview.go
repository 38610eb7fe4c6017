package spotify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/hajimehoshi/go-mp3"
)

// maxPreviewBytes bounds how much decoded PCM is analyzed, roughly 30s of
// 44.1kHz stereo.
const maxPreviewBytes = 30 * 44100 * 4

// analyzePreview downloads an MP3 preview and maps its RMS loudness to an
// energy value in [0,1].
func analyzePreview(ctx context.Context, client *http.Client, url string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("preview request: %w", err)
	}
	// #nosec G107 -- URL is a Spotify preview URL from a trusted API response
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("preview fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("preview fetch status %d", resp.StatusCode)
	}

	decoder, err := mp3.NewDecoder(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("preview decode failed: %w", err)
	}
	return rmsEnergy(io.LimitReader(decoder, maxPreviewBytes))
}

// rmsEnergy reads 16-bit little-endian PCM and returns RMS / full scale.
func rmsEnergy(r io.Reader) (float64, error) {
	buf := make([]byte, 4096)
	var sumSquares float64
	var count float64

	for {
		n, err := r.Read(buf)
		for i := 0; i+1 < n; i += 2 {
			sample := int16(buf[i]) | int16(buf[i+1])<<8
			val := float64(sample)
			sumSquares += val * val
			count++
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, fmt.Errorf("preview read failed: %w", err)
		}
	}

	if count == 0 {
		return 0, errors.New("preview contains no samples")
	}

	energy := math.Sqrt(sumSquares/count) / 32768.0
	return math.Min(math.Max(energy, 0), 1), nil
}
