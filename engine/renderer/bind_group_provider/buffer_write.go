package bind_group_provider

// BufferWrite is a pending queue write into a provider-owned buffer.
type BufferWrite struct {
	// Provider owns the destination buffer.
	Provider BindGroupProvider
	// Binding selects the buffer on the provider.
	Binding int
	// Offset is the byte offset into the buffer.
	Offset uint64
	// Data is written verbatim.
	Data []byte
}
