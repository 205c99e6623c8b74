/*
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package vectorjson

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

func floatBits(f float64) uint64    { return math.Float64bits(f) }
func bitsToFloat(u uint64) float64  { return math.Float64frombits(u) }

// snapshotMagic/snapshotVersion identify the transfer format's header,
// grounded on the [magic|version|flags|...] layout of parsed_serialize.go's
// own versioned header, simplified here to a struct-slice tape rather than
// that file's packed-uint64/varint scheme (there is no SIMD tape reader on
// the far end that needs the bit-packed form).
var snapshotMagic = [4]byte{'V', 'J', 'S', 'N'}

const snapshotVersion uint16 = 1

// SnapshotFlags are the per-snapshot bits recorded in the header.
type SnapshotFlags uint16

const (
	// FlagZstd indicates the tape/arena/buffer sections are each
	// zstd-compressed rather than stored raw.
	FlagZstd SnapshotFlags = 1 << iota
	// FlagIncludeBuffer indicates the source buffer section is present.
	// Omitting it produces a smaller snapshot, but string and key tokens
	// that reference the source buffer (InArena false) cannot be read on
	// the receiving end.
	FlagIncludeBuffer
)

// Snapshot is a self-contained, transferable copy of a Parser's current
// tape, arena, and (optionally) source buffer, suitable for handing a
// parse-in-progress to another worker per spec.md's cross-worker handoff
// story. Each Snapshot is stamped with a random ID for the sender's own
// correlation; Marshal does not write the ID into the blob.
type Snapshot struct {
	ID    uuid.UUID
	Flags SnapshotFlags
	Tape  *Tape
}

// TakeSnapshot captures p's current tape (and, unless withBuffer is false,
// its source buffer) into a transferable Snapshot.
func TakeSnapshot(p *Parser, withBuffer bool) *Snapshot {
	flags := SnapshotFlags(0)
	if withBuffer {
		flags |= FlagIncludeBuffer
	}
	return &Snapshot{ID: uuid.New(), Flags: flags, Tape: p.tape}
}

// Marshal serializes s into the wire format described by spec.md §6:
// magic, version, flags, three little-endian length-prefixed sections
// (tape, arena, buffer), the last of which is omitted entirely when
// FlagIncludeBuffer is unset. Sections are zstd-compressed when FlagZstd is
// set.
func (s *Snapshot) Marshal() ([]byte, error) {
	tapeBytes, err := marshalTokens(s.Tape.Tokens)
	if err != nil {
		return nil, err
	}
	arenaBytes := s.Tape.Arena
	var bufBytes []byte
	if s.Flags&FlagIncludeBuffer != 0 {
		bufBytes = s.Tape.Buf
	}

	if s.Flags&FlagZstd != 0 {
		tapeBytes, err = zstdCompress(tapeBytes)
		if err != nil {
			return nil, err
		}
		arenaBytes, err = zstdCompress(arenaBytes)
		if err != nil {
			return nil, err
		}
		if bufBytes != nil {
			bufBytes, err = zstdCompress(bufBytes)
			if err != nil {
				return nil, err
			}
		}
	}

	var out bytes.Buffer
	out.Write(snapshotMagic[:])
	binary.Write(&out, binary.LittleEndian, snapshotVersion)
	binary.Write(&out, binary.LittleEndian, uint16(s.Flags))
	binary.Write(&out, binary.LittleEndian, uint32(len(tapeBytes)))
	binary.Write(&out, binary.LittleEndian, uint32(len(arenaBytes)))
	binary.Write(&out, binary.LittleEndian, uint32(len(bufBytes)))
	out.Write(tapeBytes)
	out.Write(arenaBytes)
	out.Write(bufBytes)
	return out.Bytes(), nil
}

// ErrBadSnapshot reports a malformed or truncated snapshot blob.
var ErrBadSnapshot = errors.New("vectorjson: malformed snapshot")

// UnmarshalSnapshot reconstructs a Tape from a blob produced by Marshal.
func UnmarshalSnapshot(blob []byte) (*Tape, error) {
	r := bytes.NewReader(blob)
	var magic [4]byte
	if _, err := r.Read(magic[:]); err != nil || magic != snapshotMagic {
		return nil, ErrBadSnapshot
	}
	var version, flags16 uint16
	var tapeLen, arenaLen, bufLen uint32
	for _, f := range []interface{}{&version, &flags16, &tapeLen, &arenaLen, &bufLen} {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return nil, ErrBadSnapshot
		}
	}
	if version > snapshotVersion {
		return nil, fmt.Errorf("vectorjson: snapshot version %d newer than supported %d", version, snapshotVersion)
	}
	flags := SnapshotFlags(flags16)

	tapeBytes := make([]byte, tapeLen)
	arenaBytes := make([]byte, arenaLen)
	bufBytes := make([]byte, bufLen)
	for _, sec := range []struct {
		dst []byte
	}{{tapeBytes}, {arenaBytes}, {bufBytes}} {
		if _, err := readFull(r, sec.dst); err != nil {
			return nil, ErrBadSnapshot
		}
	}

	var err error
	if flags&FlagZstd != 0 {
		if tapeBytes, err = zstdDecompress(tapeBytes); err != nil {
			return nil, err
		}
		if arenaBytes, err = zstdDecompress(arenaBytes); err != nil {
			return nil, err
		}
		if bufLen > 0 {
			if bufBytes, err = zstdDecompress(bufBytes); err != nil {
				return nil, err
			}
		}
	}

	tokens, err := unmarshalTokens(tapeBytes)
	if err != nil {
		return nil, err
	}
	return &Tape{Tokens: tokens, Arena: arenaBytes, Buf: bufBytes}, nil
}

func readFull(r *bytes.Reader, dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	n, err := r.Read(dst)
	if n != len(dst) {
		return n, ErrBadSnapshot
	}
	return n, err
}

// tokenRecord is the fixed-width on-wire form of a Token.
const tokenRecordSize = 1 + 1 + 8 + 8 + 8 + 4 + 4 + 1 + 4 + 8 + 8

func marshalTokens(tokens []Token) ([]byte, error) {
	out := make([]byte, 0, len(tokens)*tokenRecordSize)
	var tmp [tokenRecordSize]byte
	for _, t := range tokens {
		tmp[0] = byte(t.Tag)
		tmp[1] = boolByte(t.Synthetic)
		binary.LittleEndian.PutUint64(tmp[2:10], uint64(t.I))
		binary.LittleEndian.PutUint64(tmp[10:18], t.U)
		binary.LittleEndian.PutUint64(tmp[18:26], floatBits(t.F))
		binary.LittleEndian.PutUint32(tmp[26:30], t.StrOff)
		binary.LittleEndian.PutUint32(tmp[30:34], t.StrLen)
		tmp[34] = boolByte(t.InArena)
		binary.LittleEndian.PutUint32(tmp[35:39], t.SrcLen)
		binary.LittleEndian.PutUint64(tmp[39:47], uint64(t.Match))
		binary.LittleEndian.PutUint64(tmp[47:55], uint64(t.Count))
		out = append(out, tmp[:]...)
	}
	return out, nil
}

func unmarshalTokens(b []byte) ([]Token, error) {
	if len(b)%tokenRecordSize != 0 {
		return nil, ErrBadSnapshot
	}
	n := len(b) / tokenRecordSize
	tokens := make([]Token, n)
	for i := 0; i < n; i++ {
		rec := b[i*tokenRecordSize : (i+1)*tokenRecordSize]
		tokens[i] = Token{
			Tag:       Tag(rec[0]),
			Synthetic: rec[1] != 0,
			I:         int64(binary.LittleEndian.Uint64(rec[2:10])),
			U:         binary.LittleEndian.Uint64(rec[10:18]),
			F:         bitsToFloat(binary.LittleEndian.Uint64(rec[18:26])),
			StrOff:    binary.LittleEndian.Uint32(rec[26:30]),
			StrLen:    binary.LittleEndian.Uint32(rec[30:34]),
			InArena:   rec[34] != 0,
			SrcLen:    binary.LittleEndian.Uint32(rec[35:39]),
			Match:     int(binary.LittleEndian.Uint64(rec[39:47])),
			Count:     int(binary.LittleEndian.Uint64(rec[47:55])),
		}
	}
	return tokens, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func zstdCompress(b []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(b, nil), nil
}

func zstdDecompress(b []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(b, nil)
}
