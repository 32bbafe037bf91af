package tilemap

import (
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-tiles/common"
	"github.com/go-gl/mathgl/mgl32"
)

func TestEncodeObjectIDQuantizes(t *testing.T) {
	ids := []uint32{0, 1, 5, 255, 256, 1599, 65535, 65536, 0xABCDEF, 0xFFFFFF}
	for _, id := range ids {
		c := EncodeObjectID(id)
		if c[3] != 1 {
			t.Errorf("id %d: alpha = %v, want 1", id, c[3])
		}
		var got uint32
		for i := 0; i < 3; i++ {
			b := uint32(math.Round(float64(c[i]) * 255))
			got |= b << (8 * i)
		}
		if got != id {
			t.Errorf("id %d quantized back to %d", id, got)
		}
	}
}

func TestTileInstanceMarshal(t *testing.T) {
	inst := TileInstance{
		Offset:    [2]float32{4, 7},
		Highlight: 0.5,
		Selected:  1,
		ObjectID:  EncodeObjectID(0x010203),
	}
	buf := inst.Marshal(nil)
	if len(buf) != inst.Size() {
		t.Fatalf("marshal length = %d, want %d", len(buf), inst.Size())
	}
	checks := map[int]float32{
		0:  4,
		4:  7,
		8:  0.5,
		12: 1,
		16: 3.0 / 255,
		20: 2.0 / 255,
		24: 1.0 / 255,
		28: 1,
	}
	for off, want := range checks {
		if got := common.Float32At(buf, off); got != want {
			t.Errorf("offset %d = %v, want %v", off, got, want)
		}
	}
	if got := len(MarshalInstances([]TileInstance{inst, inst})); got != 64 {
		t.Errorf("MarshalInstances length = %d, want 64", got)
	}
}

func TestInstancesSkipCleared(t *testing.T) {
	clock := newFakeClock()
	m := newTestMap(t, 10, 10, 3, clock)
	m.Select(5, true)
	m.Select(12, true)
	clock.Advance(time.Second)
	m.Update()
	m.Select(20, true)
	m.Highlight(21, true)

	instances := m.Instances(nil, nil)
	if len(instances) != 79 {
		t.Fatalf("instance count = %d, want 79", len(instances))
	}
	for _, inst := range instances {
		x, y := int(inst.Offset[0]), int(inst.Offset[1])
		id := TileID(x, y, 10)
		if id == 5 || id == 12 {
			t.Errorf("cleared tile %d was instanced", id)
		}
		if inst.ObjectID != EncodeObjectID(id) {
			t.Errorf("tile %d object id = %v", id, inst.ObjectID)
		}
		if (inst.Selected == 1) != (id == 20) {
			t.Errorf("tile %d selected = %v", id, inst.Selected)
		}
		if (inst.Highlight > 0) != (id == 21) {
			t.Errorf("tile %d highlight = %v", id, inst.Highlight)
		}
	}
}

func TestInstancesParallelMatchesSerial(t *testing.T) {
	m := newTestMap(t, 40, 40, 3, newFakeClock())
	pool := worker.NewDynamicWorkerPool(4, 256, time.Second)
	defer pool.Stop()

	serial := m.Instances(nil, nil)
	parallel := m.Instances(nil, pool)
	if len(serial) != 39*39 {
		t.Fatalf("serial count = %d, want %d", len(serial), 39*39)
	}
	if len(parallel) != len(serial) {
		t.Fatalf("parallel count = %d, want %d", len(parallel), len(serial))
	}
	for i := range serial {
		if serial[i] != parallel[i] {
			t.Fatalf("instance %d differs: %+v vs %+v", i, serial[i], parallel[i])
		}
	}
}

func TestInstancesFrustumCull(t *testing.T) {
	m := newTestMap(t, 40, 40, 3, newFakeClock())

	// camera above tile (2, 2) looking straight down with a narrow view
	eye := mgl32.Vec3{2.5, 20, -2.5}
	view := mgl32.LookAtV(eye, mgl32.Vec3{2.5, 0, -2.5}, mgl32.Vec3{0, 0, -1})
	f := common.ExtractFrustum(common.Perspective(10, 1, 0.1, 100).Mul4(view))

	instances := m.Instances(&f, nil)
	if len(instances) == 0 || len(instances) >= 39*39 {
		t.Fatalf("culled instance count = %d, want a small non-empty subset", len(instances))
	}
	found := false
	for _, inst := range instances {
		if inst.Offset == [2]float32{2, 2} {
			found = true
		}
		if inst.Offset[0] > 20 || inst.Offset[1] > 20 {
			t.Errorf("far tile %v survived culling", inst.Offset)
		}
	}
	if !found {
		t.Error("tile under the camera was culled")
	}
}

func TestHighlightPulseRange(t *testing.T) {
	for ms := 0; ms < 2000; ms += 50 {
		v := highlightPulse(time.Duration(ms) * time.Millisecond)
		if v < 0.2-1e-5 || v > 1+1e-5 {
			t.Errorf("pulse at %dms = %v, outside [0.2, 1]", ms, v)
		}
	}
}
