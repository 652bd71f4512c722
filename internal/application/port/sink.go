package port

import "time"

type Sink interface {
	// Live line: overwrite last line (no newline)
	WriteLive(line string) error
	// Snapshot line: timestamped history line, followed by a blank line for the next live update
	WriteSnapshot(ts time.Time, line string) error
	// Normal newline (for logs)
	NewLine() error
}

// Publisher pushes snapshot documents to remote consumers.
type Publisher interface {
	Publish(payload []byte)
}
