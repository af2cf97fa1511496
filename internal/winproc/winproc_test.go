package winproc

import (
	"errors"
	"testing"
)

func TestRegistrySubclassAndRestore(t *testing.T) {
	r := NewRegistry()
	var hostCalls int
	hwnd := r.CreateWindow(func(m Message, _ uintptr) uintptr {
		hostCalls++
		return 7
	})
	before, _ := r.ProcAddress(hwnd)

	original, err := r.Subclass(hwnd, func(m Message, next uintptr) uintptr {
		if m.Msg == WM_KEYDOWN {
			return 1
		}
		return r.CallOriginal(next, m)
	})
	if err != nil {
		t.Fatalf("Subclass: %v", err)
	}
	if original != before {
		t.Errorf("original = %#x, want %#x", original, before)
	}

	if got := r.Send(hwnd, WM_KEYDOWN, VK_INSERT, 0); got != 1 || hostCalls != 0 {
		t.Errorf("swallowed key: got %d host calls %d", got, hostCalls)
	}
	if got := r.Send(hwnd, WM_MOUSEMOVE, 0, 0); got != 7 || hostCalls != 1 {
		t.Errorf("forwarded move: got %d host calls %d", got, hostCalls)
	}

	if err := r.Restore(hwnd, original); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := r.Send(hwnd, WM_KEYDOWN, VK_INSERT, 0); got != 7 {
		t.Errorf("after Restore got %d, want the host result", got)
	}
}

func TestRegistryUnknownWindow(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Subclass(0xdead, func(Message, uintptr) uintptr { return 0 }); !errors.Is(err, ErrNoWindow) {
		t.Errorf("Subclass err = %v, want ErrNoWindow", err)
	}
	if err := r.Restore(0xdead, 0); !errors.Is(err, ErrNoWindow) {
		t.Errorf("Restore err = %v, want ErrNoWindow", err)
	}
}

func TestUnboundMessagesAreForwarded(t *testing.T) {
	const entry = 0x5000
	tests := []struct {
		name    string
		current uintptr
		want    uintptr
	}{
		{"restored", 0x7000, 0x7000},
		{"still subclassed", entry, 0},
		{"window gone", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unboundTarget(tt.current, entry); got != tt.want {
				t.Errorf("unboundTarget(%#x) = %#x, want %#x", tt.current, got, tt.want)
			}
		})
	}
}

func TestMessageClasses(t *testing.T) {
	for _, msg := range []uint32{WM_MOUSEMOVE, WM_LBUTTONDOWN, WM_RBUTTONUP, WM_MOUSEWHEEL} {
		if !IsMouse(msg) || IsKeyboard(msg) {
			t.Errorf("%#x should be mouse only", msg)
		}
	}
	for _, msg := range []uint32{WM_KEYDOWN, WM_KEYUP, WM_CHAR, WM_SYSKEYDOWN} {
		if !IsKeyboard(msg) || IsMouse(msg) {
			t.Errorf("%#x should be keyboard only", msg)
		}
	}
	if IsMouse(WM_SETCURSOR) || IsKeyboard(WM_SETCURSOR) {
		t.Error("WM_SETCURSOR is neither mouse nor keyboard input")
	}
}

func TestLParamPacking(t *testing.T) {
	tests := []struct{ x, y int }{{0, 0}, {640, 480}, {-5, 12}, {32767, -32768}}
	for _, tt := range tests {
		x, y := PointFromLParam(MakeLParam(tt.x, tt.y))
		if x != tt.x || y != tt.y {
			t.Errorf("round trip (%d,%d) = (%d,%d)", tt.x, tt.y, x, y)
		}
	}
	if got := WheelDelta(uintptr(uint16(0xFF88)) << 16); got != -WHEEL_DELTA {
		t.Errorf("WheelDelta = %d, want %d", got, -WHEEL_DELTA)
	}
}
