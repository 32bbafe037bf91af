package game

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-tiles/game/tilemap"
)

func TestPickDueDrainsBothFlags(t *testing.T) {
	tests := []struct {
		name    string
		moved   bool
		changed bool
		want    bool
	}{
		{"idle", false, false, false},
		{"cursor moved", true, false, true},
		{"map changed", false, true, true},
		{"both", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles, err := tilemap.New(4, 4, -1)
			if err != nil {
				t.Fatal(err)
			}
			in := NewInput()
			if tt.moved {
				in.MouseMove(3, 4, false)
			}
			if tt.changed {
				tiles.Highlight(5, true)
			}

			if got := pickDue(in, tiles); got != tt.want {
				t.Errorf("pickDue() = %v, want %v", got, tt.want)
			}
			if pickDue(in, tiles) {
				t.Error("flags survived the first check")
			}
		})
	}
}
