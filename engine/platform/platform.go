package platform

import (
	gomath "math"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/textgem/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

type Platform struct {
	Window *glfw.Window
}

func New() *Platform {
	return &Platform{
		Window: nil,
	}
}

func (p *Platform) Startup(applicationName string, x int32, y int32, width uint32, height uint32) error {
	if err := glfw.Init(); err != nil {
		core.LogFatal("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	// Drawing is left to the host renderer, no context is needed here.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		core.LogFatal("failed to create window: %s", err)
		glfw.Terminate()
		return err
	}
	p.Window = window

	p.Window.SetKeyCallback(keyCallback)
	p.Window.SetMouseButtonCallback(mouseButtonCallback)
	p.Window.SetCursorPosCallback(cursorPosCallback)
	p.Window.SetScrollCallback(scrollCallback)
	p.Window.SetFramebufferSizeCallback(framebufferSizeCallback)
	p.Window.SetPos(int(x), int(y))
	p.Window.Show()

	return nil
}

func (p *Platform) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

// PumpMessages dispatches pending window events to the callbacks. Returns
// false once the window has been asked to close.
func (p *Platform) PumpMessages() bool {
	glfw.PollEvents()
	return !p.Window.ShouldClose()
}

// GetAbsoluteTime returns seconds since GLFW was initialized.
func (p *Platform) GetAbsoluteTime() float64 {
	return glfw.GetTime()
}

func (p *Platform) Sleep(ms float64) {
	time.Sleep(time.Duration(ms * float64(time.Millisecond)))
}

var keyTable = map[glfw.Key]core.KeyCode{
	glfw.KeyBackspace: core.KEY_BACKSPACE,
	glfw.KeyTab:       core.KEY_TAB,
	glfw.KeyEnter:     core.KEY_ENTER,
	glfw.KeyPause:     core.KEY_PAUSE,
	glfw.KeyEscape:    core.KEY_ESCAPE,
	glfw.KeySpace:     core.KEY_SPACE,
	glfw.KeyPageUp:    core.KEY_PRIOR,
	glfw.KeyPageDown:  core.KEY_NEXT,
	glfw.KeyEnd:       core.KEY_END,
	glfw.KeyHome:      core.KEY_HOME,
	glfw.KeyLeft:      core.KEY_LEFT,
	glfw.KeyUp:        core.KEY_UP,
	glfw.KeyRight:     core.KEY_RIGHT,
	glfw.KeyDown:      core.KEY_DOWN,
	glfw.KeyInsert:    core.KEY_INSERT,
	glfw.KeyDelete:    core.KEY_DELETE,

	glfw.KeyKPMultiply: core.KEY_MULTIPLY,
	glfw.KeyKPAdd:      core.KEY_ADD,
	glfw.KeyKPSubtract: core.KEY_SUBTRACT,
	glfw.KeyKPDecimal:  core.KEY_DECIMAL,
	glfw.KeyKPDivide:   core.KEY_DIVIDE,

	glfw.KeyLeftShift:    core.KEY_LSHIFT,
	glfw.KeyRightShift:   core.KEY_RSHIFT,
	glfw.KeyLeftControl:  core.KEY_LCONTROL,
	glfw.KeyRightControl: core.KEY_RCONTROL,

	glfw.KeySemicolon:   core.KEY_SEMICOLON,
	glfw.KeyEqual:       core.KEY_EQUAL,
	glfw.KeyComma:       core.KEY_COMMA,
	glfw.KeyMinus:       core.KEY_MINUS,
	glfw.KeyPeriod:      core.KEY_PERIOD,
	glfw.KeySlash:       core.KEY_SLASH,
	glfw.KeyGraveAccent: core.KEY_GRAVE,
}

// translateKey maps a GLFW key to the engine key code.
func translateKey(key glfw.Key) (core.KeyCode, bool) {
	switch {
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return core.KEY_A + core.KeyCode(key-glfw.KeyA), true
	case key >= glfw.KeyKP0 && key <= glfw.KeyKP9:
		return core.KEY_NUMPAD0 + core.KeyCode(key-glfw.KeyKP0), true
	case key >= glfw.KeyF1 && key <= glfw.KeyF12:
		return core.KEY_F1 + core.KeyCode(key-glfw.KeyF1), true
	}
	code, ok := keyTable[key]
	return code, ok
}

func keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	code, ok := translateKey(key)
	if !ok {
		return
	}
	// Repeats keep the key down.
	if err := core.InputProcessKey(code, action != glfw.Release); err != nil {
		core.LogError("%s", err)
	}
}

func mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	var b core.Button
	switch button {
	case glfw.MouseButtonLeft:
		b = core.BUTTON_LEFT
	case glfw.MouseButtonRight:
		b = core.BUTTON_RIGHT
	case glfw.MouseButtonMiddle:
		b = core.BUTTON_MIDDLE
	default:
		return
	}
	if err := core.InputProcessButton(b, action == glfw.Press); err != nil {
		core.LogError("%s", err)
	}
}

func cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	x := gomath.Max(0, gomath.Min(xpos, gomath.MaxUint16))
	y := gomath.Max(0, gomath.Min(ypos, gomath.MaxUint16))
	if err := core.InputProcessMouseMove(uint16(x), uint16(y)); err != nil {
		core.LogError("%s", err)
	}
}

// scrollCallback forwards the vertical wheel delta; horizontal scroll is ignored.
func scrollCallback(w *glfw.Window, xoff, yoff float64) {
	if yoff == 0 {
		return
	}
	if err := core.InputProcessMouseWheel(float32(yoff)); err != nil {
		core.LogError("%s", err)
	}
}

func framebufferSizeCallback(w *glfw.Window, width, height int) {
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_RESIZED,
		Data: &core.SystemEvent{
			WindowWidth:  uint32(width),
			WindowHeight: uint32(height),
		},
	})
}
