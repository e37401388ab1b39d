package hw

import "encoding/binary"

// Copier moves a register image into the IO block.
type Copier interface {
	Copy(io *IO, addr uint32, src []byte)
}

// WordCopier writes the image one halfword at a time, like a CPU copy loop.
type WordCopier struct{}

func (WordCopier) Copy(io *IO, addr uint32, src []byte) {
	for i := 0; i+1 < len(src); i += 2 {
		io.Write16(addr+uint32(i), binary.LittleEndian.Uint16(src[i:]))
	}
}

// DMA copies the whole image in one transfer.
type DMA struct {
	Transfers int
	Bytes     int
}

func (d *DMA) Copy(io *IO, addr uint32, src []byte) {
	if int(addr)+len(src) > ioSize {
		return
	}
	copy(io.regs[addr:], src)
	io.Writes++
	d.Transfers++
	d.Bytes += len(src)
}

// bgImageSize is the size of the contiguous BG0CNT..BG3Y register image.
const bgImageSize = bgBlockEnd - bgBlockStart

// PackBgs lays out the four slot images exactly like the register block
// starting at BG0CNT.
func PackBgs(handles *[BgCount]BgHandle) [bgImageSize]byte {
	var img [bgImageSize]byte
	le := binary.LittleEndian
	for bg := range handles {
		h := &handles[bg]
		le.PutUint16(img[RegBg0Cnt+2*bg-bgBlockStart:], h.Cnt)
		le.PutUint16(img[RegBg0HOfs+4*bg-bgBlockStart:], h.HOfs)
		le.PutUint16(img[RegBg0HOfs+4*bg+2-bgBlockStart:], h.VOfs)
	}
	for i := 0; i < AffineBgCount; i++ {
		a := &handles[BgCount-AffineBgCount+i].Affine
		off := RegBg2PA + 0x10*i - bgBlockStart
		le.PutUint16(img[off:], uint16(a.PA))
		le.PutUint16(img[off+2:], uint16(a.PB))
		le.PutUint16(img[off+4:], uint16(a.PC))
		le.PutUint16(img[off+6:], uint16(a.PD))
		le.PutUint32(img[off+8:], uint32(a.DX))
		le.PutUint32(img[off+12:], uint32(a.DY))
	}
	return img
}

// CommitBgs flushes the slot images with a single copy operation.
func CommitBgs(handles *[BgCount]BgHandle, io *IO, c Copier) {
	img := PackBgs(handles)
	c.Copy(io, bgBlockStart, img[:])
}
