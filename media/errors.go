package media

import "fmt"

// ProcessingError wraps any decode or encode failure in the transcoding
// pipeline. Upload callers surface it as a rejection of the one file it
// concerns; sibling files in the same batch are unaffected.
type ProcessingError struct {
	// Filename is the declared name of the source file.
	Filename string

	// Op is the pipeline stage that failed: "decode" or "encode".
	Op string

	// Err is the underlying cause.
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("image processing failed for %s during %s: %v", e.Filename, e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
