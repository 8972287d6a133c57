// Copyright 2025 Vaal AI Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package index

import (
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/go-crypt/x/blake2b"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// snapshotVersion is bumped on incompatible blob layout changes.
const snapshotVersion = 1

// checksumSize is the length of the BLAKE2b digest prepended to the blob.
const checksumSize = 8

// Serialize encodes the full index state - configuration, vectors, node
// levels and graph adjacency - into a self-describing binary blob. The blob
// starts with an 8-byte BLAKE2b checksum of the payload so corruption is
// detected before any field is trusted.
//
// A deserialized index answers identical queries identically: the graph is
// restored verbatim rather than rebuilt.
func (x *Index) Serialize() ([]byte, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	payload := make([]byte, x.payloadSize())
	n := varint.PositiveInt.Marshal(snapshotVersion, payload)
	n += varint.PositiveInt.Marshal(int(x.cfg.Metric), payload[n:])
	n += varint.PositiveInt.Marshal(x.cfg.Dimension, payload[n:])
	n += varint.PositiveInt.Marshal(x.cfg.MaxElements, payload[n:])
	n += varint.PositiveInt.Marshal(x.cfg.M, payload[n:])
	n += varint.PositiveInt.Marshal(x.cfg.EfConstruction, payload[n:])
	n += varint.PositiveInt.Marshal(x.cfg.EfSearch, payload[n:])
	n += varint.Int64.Marshal(x.cfg.Seed, payload[n:])
	n += varint.Int.Marshal(int(x.entryPoint), payload[n:])
	n += varint.Int.Marshal(x.maxLevel, payload[n:])
	n += varint.PositiveInt.Marshal(len(x.vectors), payload[n:])

	for id := range x.vectors {
		n += varint.PositiveInt.Marshal(x.levels[id], payload[n:])
		for _, f := range x.vectors[id] {
			n += raw.Float32.Marshal(f, payload[n:])
		}
		for _, list := range x.neighbors[id] {
			n += varint.PositiveInt.Marshal(len(list), payload[n:])
			for _, nb := range list {
				n += varint.PositiveInt.Marshal(int(nb), payload[n:])
			}
		}
	}

	if n != len(payload) {
		return nil, fmt.Errorf("index: snapshot size mismatch: wrote %d of %d bytes", n, len(payload))
	}

	blob := make([]byte, checksumSize+len(payload))
	binary.LittleEndian.PutUint64(blob, payloadChecksum(payload))
	copy(blob[checksumSize:], payload)
	return blob, nil
}

func (x *Index) payloadSize() int {
	size := varint.PositiveInt.Size(snapshotVersion)
	size += varint.PositiveInt.Size(int(x.cfg.Metric))
	size += varint.PositiveInt.Size(x.cfg.Dimension)
	size += varint.PositiveInt.Size(x.cfg.MaxElements)
	size += varint.PositiveInt.Size(x.cfg.M)
	size += varint.PositiveInt.Size(x.cfg.EfConstruction)
	size += varint.PositiveInt.Size(x.cfg.EfSearch)
	size += varint.Int64.Size(x.cfg.Seed)
	size += varint.Int.Size(int(x.entryPoint))
	size += varint.Int.Size(x.maxLevel)
	size += varint.PositiveInt.Size(len(x.vectors))

	for id := range x.vectors {
		size += varint.PositiveInt.Size(x.levels[id])
		for _, f := range x.vectors[id] {
			size += raw.Float32.Size(f)
		}
		for _, list := range x.neighbors[id] {
			size += varint.PositiveInt.Size(len(list))
			for _, nb := range list {
				size += varint.PositiveInt.Size(int(nb))
			}
		}
	}
	return size
}

// Deserialize reconstructs an index from a blob produced by Serialize.
//
// The configuration is read from the blob itself, never from the caller, so
// a load can be checked against expectations afterwards via Config. Returns
// ErrCorruptSnapshot on checksum or structural failure and
// ErrUnsupportedVersion for blobs written by an incompatible layout.
func Deserialize(data []byte) (*Index, error) {
	if len(data) < checksumSize {
		return nil, fmt.Errorf("%w: blob shorter than checksum", ErrCorruptSnapshot)
	}
	payload := data[checksumSize:]
	if binary.LittleEndian.Uint64(data) != payloadChecksum(payload) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptSnapshot)
	}

	r := &payloadReader{data: payload}

	version := r.positiveInt()
	if r.err == nil && version != snapshotVersion {
		return nil, fmt.Errorf("%w: got version %d, support version %d",
			ErrUnsupportedVersion, version, snapshotVersion)
	}

	cfg := Config{
		Metric:         Metric(r.positiveInt()),
		Dimension:      r.positiveInt(),
		MaxElements:    r.positiveInt(),
		M:              r.positiveInt(),
		EfConstruction: r.positiveInt(),
		EfSearch:       r.positiveInt(),
		Seed:           r.int64(),
	}
	entryPoint := r.int()
	maxLevel := r.int()
	count := r.positiveInt()
	if r.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, r.err)
	}

	x, err := New(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if count > cfg.MaxElements || entryPoint < -1 || entryPoint >= count {
		return nil, fmt.Errorf("%w: inconsistent graph header", ErrCorruptSnapshot)
	}

	x.entryPoint = int32(entryPoint)
	x.maxLevel = maxLevel
	x.vectors = make([][]float32, count)
	x.levels = make([]int, count)
	x.neighbors = make([][][]int32, count)
	// Level assignment already happened at build time; the PRNG is only
	// reseeded so the struct is fully initialized.
	x.rng = rand.New(rand.NewSource(cfg.Seed))

	for id := 0; id < count; id++ {
		level := r.positiveInt()
		vec := make([]float32, cfg.Dimension)
		for d := range vec {
			vec[d] = r.float32()
		}
		lists := make([][]int32, level+1)
		for l := range lists {
			listLen := r.positiveInt()
			if r.err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, r.err)
			}
			list := make([]int32, listLen)
			for i := range list {
				nb := r.positiveInt()
				if nb >= count {
					return nil, fmt.Errorf("%w: neighbor id %d out of range", ErrCorruptSnapshot, nb)
				}
				list[i] = int32(nb)
			}
			lists[l] = list
		}
		if r.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, r.err)
		}
		x.vectors[id] = vec
		x.levels[id] = level
		x.neighbors[id] = lists
	}

	if r.n != len(payload) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptSnapshot, len(payload)-r.n)
	}
	return x, nil
}

// payloadReader sequences MUS primitive reads, latching the first error so
// call sites stay flat.
type payloadReader struct {
	data []byte
	n    int
	err  error
}

func (r *payloadReader) positiveInt() int {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.PositiveInt.Unmarshal(r.data[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *payloadReader) int() int {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Int.Unmarshal(r.data[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *payloadReader) int64() int64 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Int64.Unmarshal(r.data[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *payloadReader) float32() float32 {
	if r.err != nil {
		return 0
	}
	v, n, err := raw.Float32.Unmarshal(r.data[r.n:])
	r.n += n
	r.err = err
	return v
}

// payloadChecksum hashes the payload with an 8-byte BLAKE2b digest.
func payloadChecksum(payload []byte) uint64 {
	h, _ := blake2b.New(8, nil)
	h.Write(payload)
	return binary.LittleEndian.Uint64(h.Sum(nil))
}
