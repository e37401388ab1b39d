package hw

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
)

const (
	ioSize      = 0x400
	VRAMSize    = 0x10000 // background VRAM: 4 character blocks of 16KiB, 32 screen blocks of 2KiB
	PaletteSize = 0x200   // 256 background colours in RGB555
)

// IO is the memory-mapped block the compositor writes into: video IO
// registers, background VRAM and background palette RAM. All accesses are
// little endian like the real bus.
type IO struct {
	regs    [ioSize]byte
	vram    [VRAMSize]byte
	palette [PaletteSize]byte

	// Writes counts 16 bit register writes, used by tests to check batching.
	Writes int
}

func NewIO() *IO { return &IO{} }

func (io *IO) Read16(addr uint32) uint16 {
	if addr+1 >= ioSize {
		return 0
	}
	return binary.LittleEndian.Uint16(io.regs[addr:])
}

func (io *IO) Write16(addr uint32, v uint16) {
	if addr+1 >= ioSize {
		return
	}
	binary.LittleEndian.PutUint16(io.regs[addr:], v)
	io.Writes++
}

func (io *IO) Read32(addr uint32) uint32 {
	return uint32(io.Read16(addr)) | uint32(io.Read16(addr+2))<<16
}

func (io *IO) Write32(addr uint32, v uint32) {
	io.Write16(addr, uint16(v))
	io.Write16(addr+2, uint16(v>>16))
}

// VRAM returns the background VRAM for direct access by the renderer and the
// VRAM manager.
func (io *IO) VRAM() []byte { return io.vram[:] }

func (io *IO) Palette() []byte { return io.palette[:] }

func (io *IO) ReadVRAM16(off int) uint16 { return binary.LittleEndian.Uint16(io.vram[off:]) }

func (io *IO) WriteVRAM16(off int, v uint16) { binary.LittleEndian.PutUint16(io.vram[off:], v) }

// Color returns palette entry i in RGB555.
func (io *IO) Color(i int) uint16 { return binary.LittleEndian.Uint16(io.palette[i*2:]) }

func (io *IO) SetColor(i int, c uint16) { binary.LittleEndian.PutUint16(io.palette[i*2:], c) }

// BgHandle reads back the register image of slot bg from the IO block.
func (io *IO) BgHandle(bg int) BgHandle {
	h := BgHandle{
		Cnt:  io.Read16(uint32(RegBg0Cnt + 2*bg)),
		HOfs: io.Read16(uint32(RegBg0HOfs + 4*bg)),
		VOfs: io.Read16(uint32(RegBg0HOfs + 4*bg + 2)),
	}
	if bg >= BgCount-AffineBgCount {
		base := uint32(RegBg2PA + 0x10*(bg-2))
		h.Affine = AffineRegs{
			PA: int16(io.Read16(base)),
			PB: int16(io.Read16(base + 2)),
			PC: int16(io.Read16(base + 4)),
			PD: int16(io.Read16(base + 6)),
			DX: int32(io.Read32(base + 8)),
			DY: int32(io.Read32(base + 12)),
		}
	}
	return h
}

type ioState struct {
	Regs    []byte
	VRAM    []byte
	Palette []byte
}

// SaveState serializes registers, VRAM and palette RAM.
func (io *IO) SaveState() ([]byte, error) {
	var buf bytes.Buffer
	s := ioState{Regs: io.regs[:], VRAM: io.vram[:], Palette: io.palette[:]}
	if err := gob.NewEncoder(&buf).Encode(&s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadState restores a snapshot taken by SaveState.
func (io *IO) LoadState(data []byte) error {
	var s ioState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return err
	}
	copy(io.regs[:], s.Regs)
	copy(io.vram[:], s.VRAM)
	copy(io.palette[:], s.Palette)
	return nil
}
