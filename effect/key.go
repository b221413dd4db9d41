package effect

// Key encodes both the target player (upper 32 bits) and the effect kind
// (lower 32 bits). At most one instance lives per Key.
type Key uint64

// NewKey creates a Key from a target and a kind
func NewKey(target PlayerID, kind Kind) Key {
	return Key(uint64(target)<<32 | uint64(kind))
}

// Target extracts the target player from the key
func (k Key) Target() PlayerID {
	return PlayerID(k >> 32)
}

// Kind extracts the effect kind from the key
func (k Key) Kind() Kind {
	return Kind(k & 0xFFFFFFFF)
}
