package hostapi

import "strings"

// Key is an engine key code. Values follow the engine ABI ordering and must
// not be reordered.
type Key int32

const (
	KeyUnknown Key = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
	KeyF21
	KeyF22
	KeyF23
	KeyF24
	KeyLeftShift
	KeyRightShift
	KeyLeftCtrl
	KeyRightCtrl
	KeyLeftAlt
	KeyRightAlt
	KeyLeftSuper
	KeyRightSuper
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyInsert
	KeyDelete
	KeySpace
	KeyMinus
	KeyEqual
	KeyLeftBracket
	KeyRightBracket
	KeyBackslash
	KeySemicolon
	KeyApostrophe
	KeyGrave
	KeyComma
	KeyPeriod
	KeySlash
	KeyNumLock
	KeyKP0
	KeyKP1
	KeyKP2
	KeyKP3
	KeyKP4
	KeyKP5
	KeyKP6
	KeyKP7
	KeyKP8
	KeyKP9
	KeyKPDecimal
	KeyKPDivide
	KeyKPMultiply
	KeyKPSubtract
	KeyKPAdd
	KeyKPEnter
	KeyKPEqual
	KeyPrintScreen
	KeyScrollLock
	KeyPause
	KeyMenu
	KeyCount
)

// MouseButton is an engine mouse button code.
type MouseButton int32

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	MouseButton4
	MouseButton5
	MouseButton6
	MouseButton7
	MouseButton8
	MouseButtonCount
)

var namedKeys = map[string]Key{
	"UP":          KeyUp,
	"DOWN":        KeyDown,
	"LEFT":        KeyLeft,
	"RIGHT":       KeyRight,
	"SPACE":       KeySpace,
	"LEFT_SHIFT":  KeyLeftShift,
	"RIGHT_SHIFT": KeyRightShift,
	"LEFT_CTRL":   KeyLeftCtrl,
	"RIGHT_CTRL":  KeyRightCtrl,
}

// ParseKey resolves a configured key name ("W", "7", "LEFT", "space") to its
// engine code.
func ParseKey(name string) (Key, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'A' && c <= 'Z':
			return KeyA + Key(c-'A'), true
		case c >= '0' && c <= '9':
			return Key0 + Key(c-'0'), true
		}
	}
	k, ok := namedKeys[name]
	return k, ok
}
