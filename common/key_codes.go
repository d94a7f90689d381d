package common

// Key codes for the simulation controls.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyN     = 78  // N key (ASCII), single step while paused
	KeyR     = 82  // R key (ASCII), reseed
	KeyC     = 67  // C key (ASCII), clear to an empty grid
	KeySpace = 32  // Spacebar (ASCII), pause/resume
	KeyEsc   = 256 // Escape key (GLFW)

	KeyEqual = 61  // '=' key (ASCII), faster
	KeyMinus = 45  // '-' key (ASCII), slower
	KeyUp    = 265 // Up arrow (GLFW)
	KeyDown  = 264 // Down arrow (GLFW)
)
