// Package format defines the on-heap byte layout shared by the allocator,
// the GC, and the tagged-value encoder: cell size, page size, the page
// header layout, and the tag bits of a word.
package format

const (
	// CellSize is the size in bytes of one cell. Cells are 16-byte aligned
	// so the low 4 bits of any cell pointer are free for tagging.
	CellSize = 16

	// CellAlignMask masks the tag bits out of a cell-aligned pointer.
	CellAlignMask = CellSize - 1

	// PageSize is the size in bytes of one page: 64 cells of 16 bytes each.
	PageSize = 1024

	// CellsPerPage is the number of cells in a page, including the header cell.
	CellsPerPage = PageSize / CellSize

	// HeaderCells is the number of cells at the start of a page reserved for
	// page metadata (next-page link, flags, generation, bitmap).
	HeaderCells = 1

	// AvailableCells is the largest single allocation request a pool will
	// satisfy: the page minus its header cell.
	AvailableCells = CellsPerPage - HeaderCells

	// SystemPageSize is the OS-level mmap granularity a Range commits at
	// once; pages are carved out of it and threaded via their reserved word.
	SystemPageSize = 64 * 1024
)

// Page header field byte offsets, within the page's first (reserved) cell.
const (
	PageHeaderNextOffset  = 0 // uint32: next page in pool, or 0
	PageHeaderFlagsOffset = 4 // uint8: flags (e.g. large-object, generation-0 nursery)
	PageHeaderGenOffset   = 5 // uint8: generation number
	PageHeaderRsvdOffset  = 6 // uint16: reserved counter / system-page-range link
	PageHeaderBitmapOffset = 8 // uint64: one bit per cell, 1 = allocated
)

// Word tag bits, read from byte 0 of a tagged value (§3.3, §6).
//
// Testing low bits 0..2 alone cannot distinguish a character from a 1- or
// 3-character small string (both can present the same 3-bit pattern): byte 0
// of a character immediate is always the fixed value 0xFE, while byte 0 of a
// small string is (length<<2)|SmallStrTagBit with length in 0..3, which never
// sets bit 7. So the real discriminant, after the bit-0/bit-1 tag check, is
// bit 7 of byte 0.
const (
	SmallIntTagBit  = 0x1 // byte0 & 1 == 1 -> small signed integer
	SmallStrTagBit  = 0x2 // byte0 & 2 == 2 (and bit0 clear) -> char or small string
	CharDiscrimBit  = 0x80 // set only on the fixed char tag byte, never on a small-string byte0
)

// CharTagByte is the fixed byte 0 of every character immediate (§6):
// low byte == 0xFE, codepoint in bits 8..31.
const CharTagByte = 0xFE

// SmallStringMaxLen is the largest number of UCS1 characters a small string
// immediate can hold (2 bits of length field).
const SmallStringMaxLen = 3

// SmallStringEmptyByte is byte 0 of the canonical empty small string (length 0).
const SmallStringEmptyByte = SmallStrTagBit
