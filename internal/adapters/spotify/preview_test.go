package spotify

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func TestRMSEnergy(t *testing.T) {
	tests := []struct {
		name    string
		samples []int16
		want    float64
		wantErr bool
	}{
		{name: "silence", samples: []int16{0, 0, 0, 0}, want: 0},
		{name: "half scale square", samples: []int16{16384, -16384, 16384, -16384}, want: 0.5},
		{name: "no samples", samples: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			for _, s := range tt.samples {
				_ = binary.Write(&buf, binary.LittleEndian, s)
			}
			got, err := rmsEnergy(&buf)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("energy: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateDeterministicFeatures(t *testing.T) {
	a := generateDeterministicFeatures("track-1")
	b := generateDeterministicFeatures("track-1")
	if a != b {
		t.Fatalf("expected stable features, got %+v and %+v", a, b)
	}
	if a.Energy < 0.1 || a.Energy > 0.9 || a.Tempo < 60 || a.Tempo > 180 {
		t.Fatalf("features out of range: %+v", a)
	}
	if c := generateDeterministicFeatures("track-2"); c == a {
		t.Fatalf("expected different ids to differ")
	}
}
