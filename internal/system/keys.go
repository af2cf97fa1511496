// Package system holds Linux console plumbing for the simulator: evdev key
// input and the virtual terminal's display mode.
package system

import (
	"encoding/binary"

	"github.com/rook-computer/d3doverlay/internal/winproc"
)

const evKey = 0x01

// Linux input-event-codes.h
const (
	keyEsc    = 1
	keyTab    = 15
	keyEnter  = 28
	keySpace  = 57
	keyF4     = 62
	keyInsert = 110
)

// KeyExit is reported for F4, which the simulator treats as quit.
const KeyExit = ^uintptr(0)

var virtualKeys = map[uint16]uintptr{
	keyEsc:    winproc.VK_ESCAPE,
	keyTab:    winproc.VK_TAB,
	keyEnter:  winproc.VK_RETURN,
	keySpace:  winproc.VK_SPACE,
	keyInsert: winproc.VK_INSERT,
	keyF4:     KeyExit,
}

// KeyEvent is a key press translated to a Windows virtual-key code.
type KeyEvent struct {
	VK uintptr
}

// parseEvents decodes a buffer of input_event records (a timeval of tvSize
// bytes, then u16 type, u16 code, s32 value) into key presses the overlay
// understands. Releases, repeats and unmapped keys are dropped.
func parseEvents(buf []byte, tvSize int) []KeyEvent {
	eventSize := tvSize + 2 + 2 + 4
	var out []KeyEvent
	for off := 0; off+eventSize <= len(buf); off += eventSize {
		rec := buf[off : off+eventSize]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if typ != evKey || value != 1 {
			continue
		}
		if vk, ok := virtualKeys[code]; ok {
			out = append(out, KeyEvent{VK: vk})
		}
	}
	return out
}
