/*
 * MinIO Cloud Storage, (C) 2020 MinIO, Inc.
 *
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
	"math/bits"

	"github.com/klauspost/cpuid/v2"
)

// maxWindow is the number of bytes the SWAR scan processes per step. It must
// not exceed 64, since structural positions within a window are tracked in a
// single uint64 bitmask, one bit per byte.
const maxWindow = 64

// evenBits marks every even bit position, used by findOddBackslashSequences
// exactly as in the classic simdjson algorithm.
const evenBits uint64 = 0x5555555555555555

// Capabilities reports the CPU features detected for this process. VectorJSON's
// structural scan is plain Go (see DESIGN.md's scanner notes for why), so
// this is informational rather than a dispatch switch.
func Capabilities() string {
	return cpuid.CPU.BrandName
}

// scannerState carries the three values the teacher's stage1 carries between
// 64-byte windows: whether the previous window ended mid odd-length
// backslash run, whether it ended inside a quoted string, and whether its
// last byte was a "pseudo-predecessor" (whitespace or structural).
type scannerState struct {
	oddBackslash   uint64 // 0 or 1
	insideQuote    uint64 // 0 or all-ones
	endsPseudoPred uint64 // 0 or 1
}

func newScannerState() scannerState {
	return scannerState{endsPseudoPred: 1}
}

// scan finds the structural and pseudo-structural byte offsets in buf[from:],
// mutating st to persist carry state across calls. Offsets are relative to
// buf[0], not to from. It is safe to call scan repeatedly on a growing buf
// with the same *st, each call processing only the bytes appended since the
// previous call (from == previous len(buf)) — no previously scanned byte is
// ever re-examined, matching the teacher's windowed design but with window
// boundaries allowed to fall anywhere, not only at aligned 64-byte marks.
func scan(buf []byte, from int, st *scannerState) []int {
	var offsets []int
	pos := from
	for pos < len(buf) {
		end := pos + maxWindow
		if end > len(buf) {
			end = len(buf)
		}
		realLen := end - pos
		rel := scanWindow(buf[pos:end], realLen, st)
		for _, r := range rel {
			offsets = append(offsets, pos+r)
		}
		pos = end
	}
	return offsets
}

// scanWindow processes one window of up to maxWindow real bytes and returns
// the relative (window-local) structural offsets it found. realLen is always
// len(block); it exists as a separate parameter because every carry
// extraction below reads "the bit at the last real position", which is
// realLen-1, not a hardcoded 63 — see DESIGN.md for why that generalization
// is necessary for a window that may not be the true end of the document.
func scanWindow(block []byte, realLen int, st *scannerState) []int {
	var quoteRaw, backslashRaw, whitespaceRaw, structuralRaw uint64
	for j := 0; j < realLen; j++ {
		bit := uint64(1) << uint(j)
		switch block[j] {
		case '"':
			quoteRaw |= bit
		case '\\':
			backslashRaw |= bit
		case ' ', '\t', '\n', '\r':
			whitespaceRaw |= bit
		case '{', '}', '[', ']', ':', ',':
			structuralRaw |= bit
		}
	}

	oddEnds := findOddBackslashSequences(backslashRaw, st.oddBackslash)
	st.oddBackslash = backslashRunParity(backslashRaw, realLen)

	quoteBits := quoteRaw &^ oddEnds
	quoteMask := prefixXor(quoteBits) ^ st.insideQuote
	st.insideQuote = broadcastBit(quoteMask, realLen-1)

	structurals := finalizeStructurals(structuralRaw, whitespaceRaw, quoteMask, quoteBits, realLen, &st.endsPseudoPred)

	var valid uint64
	if realLen >= 64 {
		valid = ^uint64(0)
	} else {
		valid = (uint64(1) << uint(realLen)) - 1
	}
	structurals &= valid

	var out []int
	for structurals != 0 {
		j := bits.TrailingZeros64(structurals)
		structurals &= structurals - 1
		out = append(out, j)
	}
	return out
}

// findOddBackslashSequences masks out quote bytes that are escaped by an
// odd-length run of backslashes, returning the "odd ends" bitmask (one bit
// set at every byte position that is the tail of such a run). Grounded on
// the public simdjson algorithm reconstructed from
// find_structural_bits_test.go's call graph, since find_odd_backslash_sequences_amd64.go
// itself is a stub with no surviving assembly body.
func findOddBackslashSequences(backslash, prevEndsOdd uint64) (oddEnds uint64) {
	startEdges := backslash &^ (backslash << 1)
	evenStartMask := evenBits ^ prevEndsOdd
	evenStarts := startEdges & evenStartMask
	oddStarts := startEdges &^ evenStartMask

	evenCarries := backslash + evenStarts
	oddCarries := backslash + oddStarts
	oddCarries |= prevEndsOdd

	evenCarryEnds := evenCarries &^ backslash
	oddCarryEnds := oddCarries &^ backslash
	evenStartOddEnd := evenCarryEnds &^ evenBits
	oddStartEvenEnd := oddCarryEnds & evenBits
	return evenStartOddEnd | oddStartEvenEnd
}

// backslashRunParity reports whether the run of backslashes ending at the
// last real byte of the window (position realLen-1) has odd length. This is
// computed directly rather than via find_odd_backslash_sequences' own
// overflow-out-of-64-bits trick, because that trick only reports the
// carry correctly when the word is genuinely 64 bytes wide; a short final
// window (the common case when streaming small chunks) needs the carry at
// realLen-1 instead, and padding the remainder with zero bytes would answer
// a different question ("does the run reach position 63") than the one the
// next window's prevEndsOdd needs ("does the run reach the last real byte").
func backslashRunParity(backslash uint64, realLen int) uint64 {
	if realLen == 0 {
		return 0
	}
	n := 0
	for j := realLen - 1; j >= 0 && backslash&(uint64(1)<<uint(j)) != 0; j-- {
		n++
	}
	return uint64(n & 1)
}

// broadcastBit returns all-ones if bit pos of mask is set, else 0.
func broadcastBit(mask uint64, pos int) uint64 {
	if pos < 0 {
		return 0
	}
	if (mask>>uint(pos))&1 == 1 {
		return ^uint64(0)
	}
	return 0
}

// prefixXor computes, for each bit position i, the XOR of bits 0..i of
// bitmask. Used to turn a bitmask of quote-byte positions into a mask of
// "inside a quoted string" positions: flipping parity at every quote.
func prefixXor(bitmask uint64) uint64 {
	bitmask ^= bitmask << 1
	bitmask ^= bitmask << 2
	bitmask ^= bitmask << 4
	bitmask ^= bitmask << 8
	bitmask ^= bitmask << 16
	bitmask ^= bitmask << 32
	return bitmask
}

// finalizeStructurals combines the raw structural-character mask with the
// quote mask and whitespace mask to produce the final structural/pseudo-
// structural offsets for one window, as find_structural_bits_multiple_calls
// composes them in the teacher. prevEndsPseudoPred is updated in place using
// the bit at realLen-1 rather than bit 63, for the same reason described on
// backslashRunParity.
func finalizeStructurals(structuralsRaw, whitespace, quoteMask, quoteBits uint64, realLen int, prevEndsPseudoPred *uint64) uint64 {
	structurals := structuralsRaw &^ quoteMask
	structurals |= quoteBits

	pseudoPred := structurals | whitespace
	shiftedPseudoPred := (pseudoPred << 1) | *prevEndsPseudoPred
	if realLen > 0 {
		*prevEndsPseudoPred = (pseudoPred >> uint(realLen-1)) & 1
	}
	pseudoStructurals := shiftedPseudoPred &^ whitespace &^ quoteMask
	structurals |= pseudoStructurals
	return structurals
}
