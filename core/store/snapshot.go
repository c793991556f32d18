package store

import (
	"bytes"

	"github.com/meverselabs/tokensale/common/bin"
	"github.com/meverselabs/tokensale/common/hash"
	"github.com/meverselabs/tokensale/core/types"
	"github.com/pkg/errors"
)

// snapshot layout: magic | version | height | timestamp | body | keccak256(body)
var snapshotMagic = []byte("TSAL")

// SnapshotVersion is the format version written by EncodeSnapshot
const SnapshotVersion uint16 = 1

const snapshotHeaderSize = 4 + 2 + 4 + 8

// Snapshot is a committed state of the engine
type Snapshot struct {
	Height    uint32
	Timestamp uint64
	Data      *types.ContextData
}

// Hash returns the hash of the state data
func (s *Snapshot) Hash() hash.Hash256 {
	return s.Data.Hash()
}

// Context returns a new context running on the snapshot
func (s *Snapshot) Context() *types.Context {
	return types.NewContextWithData(s.Data, s.Timestamp)
}

// EncodeSnapshot serializes the snapshot with its checksum
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	var body bytes.Buffer
	if _, err := s.Data.WriteTo(&body); err != nil {
		return nil, err
	}
	var buffer bytes.Buffer
	buffer.Write(snapshotMagic)
	buffer.Write(bin.Uint16Bytes(SnapshotVersion))
	buffer.Write(bin.Uint32Bytes(s.Height))
	buffer.Write(bin.Uint64Bytes(s.Timestamp))
	buffer.Write(body.Bytes())
	h := hash.Hash(body.Bytes())
	buffer.Write(h[:])
	return buffer.Bytes(), nil
}

// DecodeSnapshot parses a snapshot written by EncodeSnapshot
func DecodeSnapshot(bs []byte) (*Snapshot, error) {
	if len(bs) < snapshotHeaderSize+hash.HashLength {
		return nil, errors.WithStack(ErrInvalidSnapshotSize)
	}
	if !bytes.Equal(bs[:4], snapshotMagic) {
		return nil, errors.WithStack(ErrInvalidMagic)
	}
	if v := bin.Uint16(bs[4:6]); v != SnapshotVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "version %v", v)
	}
	s := &Snapshot{
		Height:    bin.Uint32(bs[6:10]),
		Timestamp: bin.Uint64(bs[10:18]),
		Data:      types.NewContextData(nil),
	}
	body := bs[snapshotHeaderSize : len(bs)-hash.HashLength]
	var sum hash.Hash256
	copy(sum[:], bs[len(bs)-hash.HashLength:])
	if hash.Hash(body) != sum {
		return nil, errors.WithStack(ErrInvalidChecksum)
	}
	n, err := s.Data.ReadFrom(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if n != int64(len(body)) {
		return nil, errors.WithStack(ErrInvalidSnapshotSize)
	}
	return s, nil
}
