package hook

// Unsupported is the Engine on platforms without native hooking. Every
// operation fails with ErrUnsupported.
type Unsupported struct{}

func (Unsupported) Init() error                                  { return ErrUnsupported }
func (Unsupported) Uninit() error                                { return ErrUnsupported }
func (Unsupported) Create(uintptr, int, Detour) (uintptr, error) { return 0, ErrUnsupported }
func (Unsupported) Enable(uintptr) error                         { return ErrUnsupported }
func (Unsupported) Disable(uintptr) error                        { return ErrUnsupported }
func (Unsupported) Remove(uintptr) error                         { return ErrUnsupported }
func (Unsupported) Call(uintptr, ...uintptr) uintptr             { return 0 }
