package browser

import "github.com/chromedp/chromedp/kb"

// namedKeys maps the key names the reasoning service emits (DOM KeyboardEvent
// key values like "Enter") to the raw key strings chromedp's KeyEvent expects.
var namedKeys = map[string]string{
	"Enter":      kb.Enter,
	"Tab":        kb.Tab,
	"Backspace":  kb.Backspace,
	"Delete":     kb.Delete,
	"Escape":     kb.Escape,
	"ArrowUp":    kb.ArrowUp,
	"ArrowDown":  kb.ArrowDown,
	"ArrowLeft":  kb.ArrowLeft,
	"ArrowRight": kb.ArrowRight,
	"Home":       kb.Home,
	"End":        kb.End,
	"PageUp":     kb.PageUp,
	"PageDown":   kb.PageDown,
	" ":          " ",
	"Space":      " ",
}

// keyForName resolves a named key, falling back to the literal string so
// single characters type as themselves.
func keyForName(name string) string {
	if key, ok := namedKeys[name]; ok {
		return key
	}
	return name
}
