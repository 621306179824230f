package protocol

import (
	"encoding/json"
	"fmt"
	"io"
)

// ContentType is the media type of the event stream.
const ContentType = "text/event-stream"

// WriteEvent encodes a single event as a server-sent-events frame.
func WriteEvent(w io.Writer, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %v event: %w", event.Type, err)
	}
	if _, err = fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	if flusher, ok := w.(interface{ Flush() }); ok {
		flusher.Flush()
	}
	return nil
}
