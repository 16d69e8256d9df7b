// Package errors provides structured, actionable error messages for the
// scenesync CLI and configuration loader.
//
// Library packages (engine, style, protocol) return plain sentinel errors
// and typed wrappers. This package turns them into coded errors for display:
//
//	err := eng.RemoveChild(parent, child)
//	if err != nil {
//	    errors.PrintError(errors.FromError(err, "E040"))
//	}
//
// # Error Categories
//
//   - frame: mutations outside a frame, flush failures
//   - style: bad style compositions and values
//   - tree: structural violations (not a child, cycles, unknown surfaces)
//   - protocol: wire format and connection errors
//   - config: scenesync.json and stylesheet errors
//   - cli: command failures
//
// # Error Codes
//
// Each error has a unique code (e.g., "E040") that maps to a short message
// and a longer explanation. Config errors may carry a file location; Format
// then prints the surrounding lines:
//
//	ERROR E105: Invalid stylesheet
//
//	  styles.yaml:4:12
//
//	       3 │ View:
//	  →    4 │   padding: [1, 2]
//	         │            ^
//	       5 │ Text:
//
//	  The default stylesheet must be a YAML mapping from tag name to style object.
package errors
