package panicreport

import "os"

// openDestination opens the first candidate that accepts appends. A nil file
// means the report goes to stderr only.
func openDestination(candidates []string) (*os.File, string) {
	for _, path := range candidates {
		// #nosec G302 - crash reports are meant to be read by operators
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			return f, path
		}
	}
	return nil, ""
}
