package bind_group_provider

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Writes is a convenience for building a batch of writes against one provider.
//
// Parameters:
//   - provider: the provider every write targets
//   - data: byte payloads keyed by binding, each written at offset 0
//
// Returns:
//   - []BufferWrite: one write per non-empty payload
func Writes(provider BindGroupProvider, data map[int][]byte) []BufferWrite {
	writes := make([]BufferWrite, 0, len(data))
	for binding, d := range data {
		if len(d) == 0 {
			continue
		}
		writes = append(writes, BufferWrite{Provider: provider, Binding: binding, Data: d})
	}
	return writes
}
