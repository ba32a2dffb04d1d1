package core

import (
	"fmt"
	"strings"
)

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// Key code definitions
type KeyCode uint16

const (
	KEY_BACKSPACE KeyCode = 0x08
	KEY_TAB       KeyCode = 0x09
	KEY_ENTER     KeyCode = 0x0D
	KEY_SHIFT     KeyCode = 0x10
	KEY_PAUSE     KeyCode = 0x13
	KEY_ESCAPE    KeyCode = 0x1B
	KEY_SPACE     KeyCode = 0x20
	KEY_PRIOR     KeyCode = 0x21
	KEY_NEXT      KeyCode = 0x22
	KEY_END       KeyCode = 0x23
	KEY_HOME      KeyCode = 0x24
	KEY_LEFT      KeyCode = 0x25
	KEY_UP        KeyCode = 0x26
	KEY_RIGHT     KeyCode = 0x27
	KEY_DOWN      KeyCode = 0x28
	KEY_INSERT    KeyCode = 0x2D
	KEY_DELETE    KeyCode = 0x2E
	KEY_A         KeyCode = 0x41
	KEY_B         KeyCode = 0x42
	KEY_C         KeyCode = 0x43
	KEY_D         KeyCode = 0x44
	KEY_E         KeyCode = 0x45
	KEY_F         KeyCode = 0x46
	KEY_G         KeyCode = 0x47
	KEY_H         KeyCode = 0x48
	KEY_I         KeyCode = 0x49
	KEY_J         KeyCode = 0x4A
	KEY_K         KeyCode = 0x4B
	KEY_L         KeyCode = 0x4C
	KEY_M         KeyCode = 0x4D
	KEY_N         KeyCode = 0x4E
	KEY_O         KeyCode = 0x4F
	KEY_P         KeyCode = 0x50
	KEY_Q         KeyCode = 0x51
	KEY_R         KeyCode = 0x52
	KEY_S         KeyCode = 0x53
	KEY_T         KeyCode = 0x54
	KEY_U         KeyCode = 0x55
	KEY_V         KeyCode = 0x56
	KEY_W         KeyCode = 0x57
	KEY_X         KeyCode = 0x58
	KEY_Y         KeyCode = 0x59
	KEY_Z         KeyCode = 0x5A
	KEY_NUMPAD0   KeyCode = 0x60
	KEY_NUMPAD1   KeyCode = 0x61
	KEY_NUMPAD2   KeyCode = 0x62
	KEY_NUMPAD3   KeyCode = 0x63
	KEY_NUMPAD4   KeyCode = 0x64
	KEY_NUMPAD5   KeyCode = 0x65
	KEY_NUMPAD6   KeyCode = 0x66
	KEY_NUMPAD7   KeyCode = 0x67
	KEY_NUMPAD8   KeyCode = 0x68
	KEY_NUMPAD9   KeyCode = 0x69
	KEY_MULTIPLY  KeyCode = 0x6A
	KEY_ADD       KeyCode = 0x6B
	KEY_SUBTRACT  KeyCode = 0x6D
	KEY_DECIMAL   KeyCode = 0x6E
	KEY_DIVIDE    KeyCode = 0x6F
	KEY_F1        KeyCode = 0x70
	KEY_F2        KeyCode = 0x71
	KEY_F3        KeyCode = 0x72
	KEY_F4        KeyCode = 0x73
	KEY_F5        KeyCode = 0x74
	KEY_F6        KeyCode = 0x75
	KEY_F7        KeyCode = 0x76
	KEY_F8        KeyCode = 0x77
	KEY_F9        KeyCode = 0x78
	KEY_F10       KeyCode = 0x79
	KEY_F11       KeyCode = 0x7A
	KEY_F12       KeyCode = 0x7B
	KEY_LSHIFT    KeyCode = 0xA0
	KEY_RSHIFT    KeyCode = 0xA1
	KEY_LCONTROL  KeyCode = 0xA2
	KEY_RCONTROL  KeyCode = 0xA3
	KEY_SEMICOLON KeyCode = 0xBA
	// The '=' key; '+' is its shifted glyph.
	KEY_EQUAL  KeyCode = 0xBB
	KEY_COMMA  KeyCode = 0xBC
	KEY_MINUS  KeyCode = 0xBD
	KEY_PERIOD KeyCode = 0xBE
	KEY_SLASH  KeyCode = 0xBF
	KEY_GRAVE  KeyCode = 0xC0
)

// KEY_PLUS shares the physical key with KEY_EQUAL.
const KEY_PLUS = KEY_EQUAL

var keyNames = map[string]KeyCode{
	"BACKSPACE": KEY_BACKSPACE, "TAB": KEY_TAB, "ENTER": KEY_ENTER, "SHIFT": KEY_SHIFT,
	"PAUSE": KEY_PAUSE, "ESCAPE": KEY_ESCAPE, "SPACE": KEY_SPACE,
	"PAGEUP": KEY_PRIOR, "PAGEDOWN": KEY_NEXT, "END": KEY_END, "HOME": KEY_HOME,
	"LEFT": KEY_LEFT, "UP": KEY_UP, "RIGHT": KEY_RIGHT, "DOWN": KEY_DOWN,
	"INSERT": KEY_INSERT, "DELETE": KEY_DELETE,
	"NUMPAD0": KEY_NUMPAD0, "NUMPAD1": KEY_NUMPAD1, "NUMPAD2": KEY_NUMPAD2, "NUMPAD3": KEY_NUMPAD3,
	"NUMPAD4": KEY_NUMPAD4, "NUMPAD5": KEY_NUMPAD5, "NUMPAD6": KEY_NUMPAD6, "NUMPAD7": KEY_NUMPAD7,
	"NUMPAD8": KEY_NUMPAD8, "NUMPAD9": KEY_NUMPAD9,
	"MULTIPLY": KEY_MULTIPLY, "ADD": KEY_ADD, "SUBTRACT": KEY_SUBTRACT, "DECIMAL": KEY_DECIMAL,
	"DIVIDE": KEY_DIVIDE,
	"LSHIFT": KEY_LSHIFT, "RSHIFT": KEY_RSHIFT, "LCONTROL": KEY_LCONTROL, "RCONTROL": KEY_RCONTROL,
	"SEMICOLON": KEY_SEMICOLON, "EQUAL": KEY_EQUAL, "PLUS": KEY_PLUS, "COMMA": KEY_COMMA,
	"MINUS": KEY_MINUS, "PERIOD": KEY_PERIOD, "SLASH": KEY_SLASH, "GRAVE": KEY_GRAVE,
}

func init() {
	for c := KEY_A; c <= KEY_Z; c++ {
		keyNames[string(rune(c))] = c
	}
	for i := 0; i < 12; i++ {
		keyNames[fmt.Sprintf("F%d", i+1)] = KEY_F1 + KeyCode(i)
	}
}

// KeyCodeFromName resolves a key name as written in config files ("W", "UP",
// "equal"). Lookup is case-insensitive.
func KeyCodeFromName(name string) (KeyCode, error) {
	code, ok := keyNames[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown key name %q: %w", name, ErrInvalidInput)
	}
	return code, nil
}

// Mouse state structure
type MouseState struct {
	X       uint16
	Y       uint16
	Buttons [BUTTON_MAX_BUTTONS]bool // button states (pressed/released)
}

// Keyboard state structure
type KeyboardState struct {
	Keys [256]bool
}

// Input state structure that holds current and previous states for keyboard and mouse
type InputState struct {
	KeyboardCurrent  KeyboardState
	KeyboardPrevious KeyboardState
	MouseCurrent     MouseState
	MousePrevious    MouseState
	// Scroll accumulated since the last InputConsumeScroll.
	Scroll float32
}

var inputInitialized bool = false
var inputState *InputState = nil

func InputInitialize() error {
	inputState = &InputState{}
	inputInitialized = true
	LogInfo("Input subsystem initialized.")
	return nil
}

func InputShutdown() error {
	inputInitialized = false
	inputState = nil
	return nil
}

// InputUpdate rolls the current state into the previous state. Call once at
// the end of every frame.
func InputUpdate(deltaTime float64) error {
	if !inputInitialized {
		return nil
	}

	// Copy current states to previous states.
	inputState.KeyboardPrevious = inputState.KeyboardCurrent
	inputState.MousePrevious = inputState.MouseCurrent

	return nil
}

// keyboard input
func InputIsKeyDown(key KeyCode) bool {
	if !inputInitialized {
		return false
	}
	return inputState.KeyboardCurrent.Keys[key]
}

func InputIsKeyUp(key KeyCode) bool {
	if !inputInitialized {
		return false
	}
	return !inputState.KeyboardCurrent.Keys[key]
}

func InputWasKeyDown(key KeyCode) bool {
	if !inputInitialized {
		return false
	}
	return inputState.KeyboardPrevious.Keys[key]
}

func InputWasKeyUp(key KeyCode) bool {
	if !inputInitialized {
		return false
	}
	return !inputState.KeyboardPrevious.Keys[key]
}

func InputProcessKey(key KeyCode, pressed bool) error {
	if !inputInitialized {
		return nil
	}
	// Only handle this if the state actually changed.
	if inputState.KeyboardCurrent.Keys[key] != pressed {
		inputState.KeyboardCurrent.Keys[key] = pressed

		code := EVENT_CODE_KEY_RELEASED
		if pressed {
			code = EVENT_CODE_KEY_PRESSED
		}

		// Fire off an event for immediate processing.
		EventFire(EventContext{
			Type: code,
			Data: &KeyEvent{
				KeyCode: key,
			},
		})
	}
	return nil
}

// mouse input
func InputIsButtonDown(button Button) bool {
	if !inputInitialized {
		return false
	}
	return inputState.MouseCurrent.Buttons[button]
}

func InputIsButtonUp(button Button) bool {
	if !inputInitialized {
		return false
	}
	return !inputState.MouseCurrent.Buttons[button]
}

func InputWasButtonDown(button Button) bool {
	if !inputInitialized {
		return false
	}
	return inputState.MousePrevious.Buttons[button]
}

func InputGetMousePosition() (int32, int32) {
	if !inputInitialized {
		return 0, 0
	}
	return int32(inputState.MouseCurrent.X), int32(inputState.MouseCurrent.Y)
}

func InputProcessButton(button Button, pressed bool) error {
	if !inputInitialized {
		return nil
	}
	if inputState.MouseCurrent.Buttons[button] != pressed {
		inputState.MouseCurrent.Buttons[button] = pressed

		code := EVENT_CODE_BUTTON_RELEASED
		if pressed {
			code = EVENT_CODE_BUTTON_PRESSED
		}
		EventFire(EventContext{
			Type: code,
			Data: &MouseEvent{
				Button: button,
			},
		})
	}
	return nil
}

func InputProcessMouseMove(x uint16, y uint16) error {
	if !inputInitialized {
		return nil
	}
	if inputState.MouseCurrent.X != x || inputState.MouseCurrent.Y != y {
		inputState.MouseCurrent.X = x
		inputState.MouseCurrent.Y = y

		EventFire(EventContext{
			Type: EVENT_CODE_MOUSE_MOVED,
			Data: &MouseEvent{
				PosX: x,
				PosY: y,
			},
		})
	}
	return nil
}

// InputProcessMouseWheel accumulates a scroll delta for the current frame.
// Several wheel events can arrive between two frames; they are summed.
func InputProcessMouseWheel(delta float32) error {
	if !inputInitialized {
		return nil
	}
	inputState.Scroll += delta
	EventFire(EventContext{
		Type: EVENT_CODE_MOUSE_WHEEL,
		Data: &MouseEvent{
			Scroll: delta,
		},
	})
	return nil
}

// InputConsumeScroll returns the scroll accumulated since the previous call
// and resets it.
func InputConsumeScroll() float32 {
	if !inputInitialized {
		return 0
	}
	s := inputState.Scroll
	inputState.Scroll = 0
	return s
}
