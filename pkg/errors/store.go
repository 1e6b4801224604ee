package errors

// StoreError is a specialized error type for block-codec and allocator
// failures: a sizing request that overflows the block ladder, or a block
// whose decoded shape cannot be trusted. It embeds baseError the same way
// StorageError and IndexError do, adding the block-level context (offset,
// physical block size, and the key involved, when known) that a caller needs
// to decide whether the store is still usable.
type StoreError struct {
	*baseError
	offset    int64
	blockSize int
	key       string
}

// NewStoreError creates a new store-specific error.
func NewStoreError(err error, code ErrorCode, msg string) *StoreError {
	return &StoreError{baseError: NewBaseError(err, code, msg)}
}

// WithOffset records the byte offset of the block involved in the error.
func (se *StoreError) WithOffset(offset int64) *StoreError {
	se.offset = offset
	return se
}

// WithBlockSize records the physical block size involved in the error.
func (se *StoreError) WithBlockSize(size int) *StoreError {
	se.blockSize = size
	return se
}

// WithKey records the key involved in the error, when known.
func (se *StoreError) WithKey(key string) *StoreError {
	se.key = key
	return se
}

// WithDetail adds contextual information while maintaining the StoreError type.
func (se *StoreError) WithDetail(key string, value any) *StoreError {
	se.baseError.WithDetail(key, value)
	return se
}

// Offset returns the byte offset of the block involved in the error.
func (se *StoreError) Offset() int64 {
	return se.offset
}

// BlockSize returns the physical block size involved in the error.
func (se *StoreError) BlockSize() int {
	return se.blockSize
}

// Key returns the key involved in the error, when known.
func (se *StoreError) Key() string {
	return se.key
}

// NewBlockTooLargeError reports a sizing request beyond the ladder's range.
func NewBlockTooLargeError(requested int) *StoreError {
	return NewStoreError(
		nil, ErrorCodeBlockTooLarge, "requested block size exceeds the representable ladder",
	).WithBlockSize(requested)
}

// NewCorruptBlockError reports a block whose decoded shape cannot be trusted:
// its declared length would overrun end-of-file, or its flags claim a
// non-representable size.
func NewCorruptBlockError(offset int64, reason string) *StoreError {
	return NewStoreError(nil, ErrorCodeCorruptBlock, "corrupt block: "+reason).WithOffset(offset)
}
