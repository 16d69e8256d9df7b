package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Frame Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryFrame,
		Message:  "Mutation outside a frame",
		Detail:   "Scene mutations must happen between BeginFrame and CommitFrame. Use Engine.Batch to scope a frame to a function.",
	},
	"E002": {
		Category: CategoryFrame,
		Message:  "Frame flush failed",
		Detail:   "The native scene rejected the batched commands of a frame. The engine state already reflects the frame; the native side may lag behind.",
	},

	// ============================================
	// Style Errors (E020-E039)
	// ============================================

	"E020": {
		Category: CategoryStyle,
		Message:  "Invalid style composition",
		Detail:   "A style source may only contain style objects, lists of sources, and false or nil entries. A scalar was found where a style object was expected.",
	},
	"E021": {
		Category: CategoryStyle,
		Message:  "Invalid style value",
		Detail:   "A known style key holds a value of the wrong type, such as a non-numeric width or an unparsable color.",
	},

	// ============================================
	// Tree Errors (E040-E059)
	// ============================================

	"E040": {
		Category: CategoryTree,
		Message:  "Not a child",
		Detail:   "The node passed to removeChild is not a child of the given parent. It may already have been removed or moved elsewhere.",
	},
	"E041": {
		Category: CategoryTree,
		Message:  "Hierarchy violation",
		Detail:   "A node cannot be inserted into itself or one of its descendants, and the root cannot be inserted anywhere.",
	},
	"E042": {
		Category: CategoryTree,
		Message:  "Unknown surface",
		Detail:   "The surface id does not refer to a live surface. It may have been released.",
	},
	"E043": {
		Category: CategoryTree,
		Message:  "Root surface cannot be released",
		Detail:   "The root surface lives as long as the engine.",
	},
	"E044": {
		Category: CategoryTree,
		Message:  "Event prop is not a listener",
		Detail:   "Props named on + upper-case letter (onClick) must hold a *native.Listener, a func(native.Event) or nil.",
	},

	// ============================================
	// Protocol Errors (E060-E079)
	// ============================================

	"E060": {
		Category: CategoryProtocol,
		Message:  "Connection to native host failed",
		Detail:   "The websocket connection could not be established or was closed unexpectedly.",
	},
	"E061": {
		Category: CategoryProtocol,
		Message:  "Frame too large",
		Detail:   "A single command does not fit into one protocol frame. Long text and large property values are the usual cause.",
	},
	"E062": {
		Category: CategoryProtocol,
		Message:  "Invalid frame type",
		Detail:   "A frame of an unexpected type was received.",
	},
	"E063": {
		Category: CategoryProtocol,
		Message:  "Invalid command",
		Detail:   "A commands frame contains an unknown opcode. The capture may come from a newer version.",
	},
	"E064": {
		Category: CategoryProtocol,
		Message:  "Invalid event",
		Detail:   "An event frame from the native host could not be decoded.",
	},
	"E065": {
		Category: CategoryProtocol,
		Message:  "Unsupported property value",
		Detail:   "Property values sent to the native host must be nil, booleans, numbers, strings, lists or string-keyed objects of those.",
	},
	"E066": {
		Category: CategoryProtocol,
		Message:  "Session closed",
		Detail:   "The transport session was closed; no further frames can be sent.",
	},

	// ============================================
	// Configuration Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No scenesync.json was found in the current directory or any parent directory.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "scenesync.json contains invalid JSON.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "Port numbers must be between 1 and 65535.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid unbind mode",
		Detail:   "engine.unbindMode must be \"explicit\" or \"noop\".",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Invalid log level",
		Detail:   "log.level must be one of debug, info, warn or error.",
	},
	"E105": {
		Category: CategoryConfig,
		Message:  "Invalid stylesheet",
		Detail:   "The default stylesheet must be a YAML mapping from tag name to style object.",
	},
	"E106": {
		Category: CategoryConfig,
		Message:  "Invalid transport limits",
		Detail:   "transport.maxFramePayload must be between 64 and 65535 and transport.maxCommands must not be negative.",
	},
	"E107": {
		Category: CategoryConfig,
		Message:  "Invalid capture configuration",
		Detail:   "capture.dir and capture.bucket are mutually exclusive.",
	},

	// ============================================
	// CLI Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
	},
	"E121": {
		Category: CategoryCLI,
		Message:  "Capture file unreadable",
		Detail:   "The capture file could not be opened or is truncated.",
	},
	"E122": {
		Category: CategoryCLI,
		Message:  "Port already in use",
		Detail:   "Another process is using the requested port.",
	},
	"E123": {
		Category: CategoryCLI,
		Message:  "Project already initialized",
		Detail:   "The target directory already contains scenesync.json.",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
