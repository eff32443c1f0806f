package sts

import (
	"io"
)

// Source is the boundary interface for an ordered supply of bitstreams
// (spec.md §6: "input-bitstream file formats beyond their semantic model"
// are out of scope; this is the semantic model). Next returns io.EOF when
// the source is exhausted.
type Source interface {
	Next(n int) (*Bitstream, error)
}

// PackedByteSource reads bitstreams from an io.Reader where every 8 bits
// are packed MSB-first into one byte, the convention spec.md §6 asks the
// driver to document and use consistently.
type PackedByteSource struct {
	r       io.Reader
	nextID  int
}

// NewPackedByteSource wraps r as a Source of MSB-first packed bitstreams.
func NewPackedByteSource(r io.Reader) *PackedByteSource {
	return &PackedByteSource{r: r, nextID: 1}
}

// Next reads ceil(n/8) packed bytes and expands them into an n-byte,
// one-bit-per-byte Bitstream. Returns io.EOF if the source has no more
// complete bitstreams, wrapped as an IOError by the driver.
func (s *PackedByteSource) Next(n int) (*Bitstream, error) {
	packedLen := (n + 7) / 8
	packed := make([]byte, packedLen)
	if _, err := io.ReadFull(s.r, packed); err != nil {
		return nil, err
	}
	bits := make([]byte, n)
	for i := 0; i < n; i++ {
		byteIdx := i / 8
		bitIdx := 7 - (i % 8) // MSB-first
		if packed[byteIdx]&(1<<uint(bitIdx)) != 0 {
			bits[i] = 1
		}
	}
	bs := &Bitstream{ID: s.nextID, Bits: bits}
	bs.CountBits()
	s.nextID++
	return bs, nil
}

// MemorySource serves pre-expanded (one-byte-per-bit) bitstreams already
// held in memory; useful for tests and for Appendix B reference vectors.
type MemorySource struct {
	streams []*Bitstream
	idx     int
}

// NewMemorySource wraps pre-built bit buffers (each already one byte per
// bit, values 0/1) as a Source.
func NewMemorySource(buffers [][]byte) *MemorySource {
	streams := make([]*Bitstream, len(buffers))
	for i, b := range buffers {
		bs := &Bitstream{ID: i + 1, Bits: b}
		bs.CountBits()
		streams[i] = bs
	}
	return &MemorySource{streams: streams}
}

func (s *MemorySource) Next(n int) (*Bitstream, error) {
	if s.idx >= len(s.streams) {
		return nil, io.EOF
	}
	bs := s.streams[s.idx]
	if len(bs.Bits) != n {
		return nil, NewError(InvalidParameter, "bitstream %d has length %d, expected %d", bs.ID, len(bs.Bits), n)
	}
	s.idx++
	return bs, nil
}
