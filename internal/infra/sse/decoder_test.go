package sse

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecoder_Next(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Event
	}{
		{
			name:     "default event name",
			input:    "data: hello\n\n",
			expected: []Event{{Name: "message", Data: "hello"}},
		},
		{
			name:     "named event",
			input:    "event: orderStatusChanged\ndata: {\"OrderStatus\":2}\n\n",
			expected: []Event{{Name: "orderStatusChanged", Data: `{"OrderStatus":2}`}},
		},
		{
			name:     "multi-line data joined with newline",
			input:    "data: first\ndata: second\n\n",
			expected: []Event{{Name: "message", Data: "first\nsecond"}},
		},
		{
			name:     "id field",
			input:    "id: 42\ndata: x\n\n",
			expected: []Event{{Name: "message", ID: "42", Data: "x"}},
		},
		{
			name:  "comments and heartbeats skipped",
			input: ": keep-alive\n\n: another\ndata: real\n\n",
			expected: []Event{
				{Name: "message", Data: "real"},
			},
		},
		{
			name:     "event without data is discarded",
			input:    "event: connected\n\ndata: after\n\n",
			expected: []Event{{Name: "message", Data: "after"}},
		},
		{
			name:  "consecutive events",
			input: "event: a\ndata: 1\n\nevent: b\ndata: 2\n\n",
			expected: []Event{
				{Name: "a", Data: "1"},
				{Name: "b", Data: "2"},
			},
		},
		{
			name:     "value without leading space",
			input:    "data:compact\n\n",
			expected: []Event{{Name: "message", Data: "compact"}},
		},
		{
			name:     "retry field ignored",
			input:    "retry: 3000\ndata: x\n\n",
			expected: []Event{{Name: "message", Data: "x"}},
		},
		{
			name:     "unterminated event is dropped at EOF",
			input:    "data: partial",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := NewDecoder(strings.NewReader(tt.input))

			var got []Event
			for {
				ev, err := dec.Next()
				if err != nil {
					assert.Equal(t, io.EOF, err)
					break
				}
				got = append(got, ev)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDecoder_LargeEvent(t *testing.T) {
	payload := strings.Repeat("x", 64*1024)
	dec := NewDecoder(strings.NewReader("data: " + payload + "\n\n"))

	ev, err := dec.Next()
	assert.NoError(t, err)
	assert.Equal(t, payload, ev.Data)
}
