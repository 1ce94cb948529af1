package sse

import (
	"bufio"
	"io"
	"strings"
)

// Event is a single server-sent event decoded off the wire.
type Event struct {
	Name string
	ID   string
	Data string
}

// Decoder incrementally reads text/event-stream frames. Unlike a
// read-everything decoder it yields each event as soon as its blank-line
// terminator arrives, which is what a long-lived status stream needs.
type Decoder struct {
	scanner *bufio.Scanner
}

func NewDecoder(r io.Reader) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), 1<<20)
	return &Decoder{scanner: s}
}

// Next blocks until a complete event is available. It returns io.EOF when
// the stream ends cleanly and the underlying read error otherwise. Events
// with an empty data buffer are discarded, matching EventSource.
func (d *Decoder) Next() (Event, error) {
	var ev Event
	var data []string

	for d.scanner.Scan() {
		line := d.scanner.Text()

		if line == "" {
			if len(data) > 0 {
				ev.Data = strings.Join(data, "\n")
				if ev.Name == "" {
					ev.Name = "message"
				}
				return ev, nil
			}
			ev = Event{}
			continue
		}

		if strings.HasPrefix(line, ":") {
			// comment / heartbeat
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "event":
			ev.Name = value
		case "data":
			data = append(data, value)
		case "id":
			ev.ID = value
		}
		// "retry" is ignored; reconnect delay is fixed by the subscription.
	}

	if err := d.scanner.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}
