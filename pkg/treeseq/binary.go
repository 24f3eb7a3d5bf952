package treeseq

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"os"
	"unsafe"
)

const (
	magicBytes   = "TREESCAN"
	version      = uint32(1)
	maxNodes     = 100_000_000
	maxEdges     = 500_000_000
	maxMutations = 500_000_000
)

// fileHeader is the binary header. All multi-byte fields little-endian.
type fileHeader struct {
	Magic          [8]byte
	Version        uint32
	NumNodes       uint32
	NumEdges       uint32
	NumSites       uint32
	NumMutations   uint32
	SequenceLength float64
}

// WriteBinary serializes the tables to a binary file. The index
// permutations are not stored; they are rebuilt on load.
// Uses unsafe.Slice for fast zero-copy I/O.
func WriteBinary(path string, ts *TreeSequence) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up on error
	}()

	crcWriter := crc32Writer{w: f, hash: crc32.NewIEEE()}
	w := &crcWriter

	hdr := fileHeader{
		Version:        version,
		NumNodes:       uint32(ts.NumNodes()),
		NumEdges:       uint32(ts.NumEdges()),
		NumSites:       uint32(ts.NumSites()),
		NumMutations:   uint32(ts.NumMutations()),
		SequenceLength: ts.SequenceLength,
	}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	// Edge table.
	if err := writeSlice(w, ts.EdgesLeft); err != nil {
		return fmt.Errorf("write EdgesLeft: %w", err)
	}
	if err := writeSlice(w, ts.EdgesRight); err != nil {
		return fmt.Errorf("write EdgesRight: %w", err)
	}
	if err := writeSlice(w, ts.EdgesParent); err != nil {
		return fmt.Errorf("write EdgesParent: %w", err)
	}
	if err := writeSlice(w, ts.EdgesChild); err != nil {
		return fmt.Errorf("write EdgesChild: %w", err)
	}

	// Node table.
	if err := writeSlice(w, ts.NodesTime); err != nil {
		return fmt.Errorf("write NodesTime: %w", err)
	}
	if err := writeSlice(w, ts.NodesFlags); err != nil {
		return fmt.Errorf("write NodesFlags: %w", err)
	}

	// Site and mutation tables.
	if err := writeSlice(w, ts.SitesPosition); err != nil {
		return fmt.Errorf("write SitesPosition: %w", err)
	}
	if err := writeSlice(w, ts.MutationsSite); err != nil {
		return fmt.Errorf("write MutationsSite: %w", err)
	}
	if err := writeSlice(w, ts.MutationsNode); err != nil {
		return fmt.Errorf("write MutationsNode: %w", err)
	}

	// Write CRC32 trailer.
	checksum := crcWriter.hash.Sum32()
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Atomic rename.
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

// ReadBinary deserializes a TreeSequence from a binary file, rebuilds the
// index permutations and validates the table invariants.
func ReadBinary(path string) (*TreeSequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	crcReader := crc32Reader{r: f, hash: crc32.NewIEEE()}
	r := &crcReader

	var hdr fileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}
	if hdr.NumNodes > maxNodes {
		return nil, fmt.Errorf("NumNodes %d exceeds limit %d", hdr.NumNodes, maxNodes)
	}
	if hdr.NumEdges > maxEdges {
		return nil, fmt.Errorf("NumEdges %d exceeds limit %d", hdr.NumEdges, maxEdges)
	}
	if hdr.NumMutations > maxMutations || hdr.NumSites > maxMutations {
		return nil, fmt.Errorf("site/mutation count exceeds limit %d", maxMutations)
	}

	ts := &TreeSequence{SequenceLength: hdr.SequenceLength}
	numEdges := int(hdr.NumEdges)
	numNodes := int(hdr.NumNodes)

	if ts.EdgesLeft, err = readSlice[float64](r, numEdges); err != nil {
		return nil, fmt.Errorf("read EdgesLeft: %w", err)
	}
	if ts.EdgesRight, err = readSlice[float64](r, numEdges); err != nil {
		return nil, fmt.Errorf("read EdgesRight: %w", err)
	}
	if ts.EdgesParent, err = readSlice[int32](r, numEdges); err != nil {
		return nil, fmt.Errorf("read EdgesParent: %w", err)
	}
	if ts.EdgesChild, err = readSlice[int32](r, numEdges); err != nil {
		return nil, fmt.Errorf("read EdgesChild: %w", err)
	}

	if ts.NodesTime, err = readSlice[float64](r, numNodes); err != nil {
		return nil, fmt.Errorf("read NodesTime: %w", err)
	}
	if ts.NodesFlags, err = readSlice[uint32](r, numNodes); err != nil {
		return nil, fmt.Errorf("read NodesFlags: %w", err)
	}

	if ts.SitesPosition, err = readSlice[float64](r, int(hdr.NumSites)); err != nil {
		return nil, fmt.Errorf("read SitesPosition: %w", err)
	}
	if ts.MutationsSite, err = readSlice[int32](r, int(hdr.NumMutations)); err != nil {
		return nil, fmt.Errorf("read MutationsSite: %w", err)
	}
	if ts.MutationsNode, err = readSlice[int32](r, int(hdr.NumMutations)); err != nil {
		return nil, fmt.Errorf("read MutationsNode: %w", err)
	}

	// Read and validate CRC32.
	expectedCRC := crcReader.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(f, binary.LittleEndian, &storedCRC); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if storedCRC != expectedCRC {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", storedCRC, expectedCRC)
	}

	ts.BuildIndexes()

	if err := ts.Validate(); err != nil {
		return nil, fmt.Errorf("tables invalid: %w", err)
	}

	return ts, nil
}

// Zero-copy I/O helpers using unsafe.Slice.

func writeSlice[T int32 | uint32 | float64](w io.Writer, s []T) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(s[0])))
	_, err := w.Write(b)
	return err
}

func readSlice[T int32 | uint32 | float64](r io.Reader, n int) ([]T, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]T, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*int(unsafe.Sizeof(s[0])))
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

// CRC32 wrapping writers/readers.

type crc32Writer struct {
	w    io.Writer
	hash hash.Hash32
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash hash.Hash32
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
