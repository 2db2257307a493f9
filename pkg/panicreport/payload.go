package panicreport

// UnknownPanicInfo is reported for panic values that carry no text.
const UnknownPanicInfo = "<unknown panic info>"

// Message extracts the human-readable text of a panic value.
//
// Strings are returned as-is. Errors, which include every runtime.Error the
// Go runtime raises, are rendered through Error. Any other value yields
// UnknownPanicInfo.
func Message(v any) string {
	switch p := v.(type) {
	case string:
		return p
	case error:
		return p.Error()
	default:
		return UnknownPanicInfo
	}
}
