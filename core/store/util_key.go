package store

import (
	"encoding/binary"
)

var (
	tagHeight         = []byte{1, 0}
	tagHeightSnapshot = []byte{1, 1}
)

func toHeightSnapshotKey(height uint32) []byte {
	bs := make([]byte, 6)
	copy(bs, tagHeightSnapshot)
	binary.BigEndian.PutUint32(bs[2:], height)
	return bs
}

func fromHeightSnapshotKey(key []byte) uint32 {
	return binary.BigEndian.Uint32(key[2:])
}
