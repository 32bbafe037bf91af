package tilemap

import (
	_ "embed"
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-tiles/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUTileInstanceSource is the WGSL definition matching TileInstance.
//
//go:embed assets/tile_instance.wgsl
var GPUTileInstanceSource string

// BlockHeight is the height of a tile block in world units.
const BlockHeight = 3

// instanceChunk is the number of tiles one worker task converts.
const instanceChunk = 256

// TileInstance is the per-instance record read by the block vertex shader through
// instance_index. ObjectID carries the tile id packed into the RGB channels.
type TileInstance struct {
	Offset    [2]float32
	Highlight float32
	Selected  float32
	ObjectID  [4]float32
}

// Size returns the byte size of one TileInstance in the storage buffer.
func (TileInstance) Size() int {
	return 32
}

// Marshal appends the little-endian GPU layout of the instance to dst.
func (t TileInstance) Marshal(dst []byte) []byte {
	var buf [32]byte
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(t.Offset[0]))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(t.Offset[1]))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(t.Highlight))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(t.Selected))
	for i, v := range t.ObjectID {
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(v))
	}
	return append(dst, buf[:]...)
}

// MarshalInstances packs instances back to back for upload.
func MarshalInstances(instances []TileInstance) []byte {
	out := make([]byte, 0, len(instances)*TileInstance{}.Size())
	for _, inst := range instances {
		out = inst.Marshal(out)
	}
	return out
}

// EncodeObjectID packs a tile id into a normalized RGBA color: the low byte in red,
// the next in green and the third in blue. Alpha is always 1 so a cleared pixel
// (alpha 0) is distinguishable from tile 0.
func EncodeObjectID(id uint32) [4]float32 {
	return [4]float32{
		float32(id&0xFF) / 255,
		float32((id>>8)&0xFF) / 255,
		float32((id>>16)&0xFF) / 255,
		1,
	}
}

// Bounds returns the world-space box of a tile's block. Blocks stand on y = 0,
// grid x runs along +X and grid y along -Z.
func Bounds(t Tile) (min, max mgl32.Vec3) {
	x, z := float32(t.X), -float32(t.Y)
	return mgl32.Vec3{x, 0, z - 1}, mgl32.Vec3{x + 1, BlockHeight, z}
}

// Submitter runs tasks on a worker pool.
type Submitter interface {
	SubmitTask(t worker.Task)
}

// Instances builds the per-instance data for every tile that should be drawn.
// Cleared tiles are skipped, and tiles outside cull are skipped when cull is non-nil.
// The tiles are split into chunks converted on pool; with a nil pool the work runs inline.
// The result keeps tile order.
//
// Parameters:
//   - cull: the camera frustum, or nil to draw every tile
//   - pool: the worker pool for the conversion, or nil
//
// Returns:
//   - []TileInstance: the instances to upload
func (m *Map) Instances(cull *common.Frustum, pool Submitter) []TileInstance {
	now := m.now()
	chunks := (len(m.tiles) + instanceChunk - 1) / instanceChunk
	results := make([][]TileInstance, chunks)

	build := func(c int) {
		start := c * instanceChunk
		end := min(start+instanceChunk, len(m.tiles))
		out := make([]TileInstance, 0, end-start)
		for i := start; i < end; i++ {
			if inst, ok := m.instance(&m.tiles[i], cull, now); ok {
				out = append(out, inst)
			}
		}
		results[c] = out
	}

	if pool == nil || chunks == 1 {
		for c := range chunks {
			build(c)
		}
	} else {
		var wg sync.WaitGroup
		for c := range chunks {
			wg.Add(1)
			chunk := c
			pool.SubmitTask(worker.Task{
				ID: chunk,
				Do: func() (any, error) {
					defer wg.Done()
					build(chunk)
					return nil, nil
				},
			})
		}
		wg.Wait()
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	instances := make([]TileInstance, 0, total)
	for _, r := range results {
		instances = append(instances, r...)
	}
	return instances
}

func (m *Map) instance(t *Tile, cull *common.Frustum, now time.Time) (TileInstance, bool) {
	if t.State == Cleared {
		return TileInstance{}, false
	}
	if cull != nil {
		lo, hi := Bounds(*t)
		if !cull.IntersectsAABB(lo, hi) {
			return TileInstance{}, false
		}
	}

	inst := TileInstance{
		Offset:   [2]float32{float32(t.X), float32(t.Y)},
		ObjectID: EncodeObjectID(t.ID),
	}
	if t.Highlighted {
		inst.Highlight = highlightPulse(now.Sub(t.HighlightedAt))
	}
	if t.Selected {
		inst.Selected = 1
	}
	return inst, true
}

// highlightPulse maps the time since a tile was highlighted to a tint strength in [0.2, 1].
func highlightPulse(elapsed time.Duration) float32 {
	return 0.6 + 0.4*float32(math.Cos(elapsed.Seconds()*2*math.Pi))
}
