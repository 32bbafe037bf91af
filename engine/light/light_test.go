package light

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestAttenuation(t *testing.T) {
	tests := []struct {
		d    float32
		want float64
	}{
		{0, 1},
		{10, 1 / math.E},
		{20, 1 / (math.E * math.E)},
	}
	for _, tt := range tests {
		got := Attenuation(tt.d)
		if math.Abs(float64(got)-tt.want) > 1e-6 {
			t.Errorf("Attenuation(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
	if Attenuation(5) <= Attenuation(6) {
		t.Error("attenuation must decrease with distance")
	}
}

func TestPackLights(t *testing.T) {
	lights := []Light{
		NewLight(LightTypeAmbient, WithColor(0.2, 0.2, 0.2)),
		NewLight(LightTypeAmbient, WithColor(0.1, 0, 0)),
		NewLight(LightTypePoint, WithPosition(1, 2, 3), WithColor(0.9, 0.8, 0.7)),
		NewLight(LightTypePoint, WithEnabled(false)),
	}

	header, payload := PackLights(lights, DefaultIntensity)
	if header.Count != 1 {
		t.Fatalf("count = %d, want 1", header.Count)
	}
	if len(payload) != 32 {
		t.Fatalf("payload = %d bytes, want 32", len(payload))
	}
	if math.Abs(float64(header.Ambient[0])-0.3) > 1e-6 || header.Ambient[2] != 0.2 {
		t.Errorf("ambient = %v, want summed ambient lights", header.Ambient)
	}

	// color starts at byte 16 after the padded position
	if got := math.Float32frombits(binary.LittleEndian.Uint32(payload[16:])); got != 0.9 {
		t.Errorf("packed color.r = %v, want 0.9", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(payload[8:])); got != 3 {
		t.Errorf("packed position.z = %v, want 3", got)
	}

	raw := header.Marshal()
	if got := binary.LittleEndian.Uint32(raw[12:]); got != 1 {
		t.Errorf("uniform count = %d, want 1", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(raw[16:])); got != DefaultIntensity {
		t.Errorf("uniform intensity = %v, want %v", got, DefaultIntensity)
	}
}

func TestPackLightsCapsPointLights(t *testing.T) {
	lights := make([]Light, 0, MaxPointLights+4)
	for i := 0; i < MaxPointLights+4; i++ {
		lights = append(lights, NewLight(LightTypePoint))
	}
	header, payload := PackLights(lights, 1)
	if header.Count != MaxPointLights || len(payload) != MaxPointLights*32 {
		t.Errorf("packed %d lights into %d bytes, want %d", header.Count, len(payload), MaxPointLights)
	}
}
