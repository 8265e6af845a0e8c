// Package stream consumes the fulfilment event stream: a long-lived HTTP
// connection delivering newline-delimited frames, each naming a batch kind
// (CIS, CCN or SDP) and carrying a JSON array of records of that kind.
package stream

import (
	"bytes"
)

// frame is one complete wire message: an event tag and its data payload.
type frame struct {
	Event string
	Data  []byte
}

// frameParser reassembles frames from arbitrarily-split network reads.
// A logical message is a group of lines terminated by a blank line:
//
//	event: CIS
//	data: [ ... ]
//
// Chunks are buffered until a complete blank-line-terminated message is
// available; any leftover partial message is retained for the next feed.
type frameParser struct {
	buf []byte
}

// Feed appends a chunk to the buffer and returns every complete frame now
// available, in wire order.
func (p *frameParser) Feed(chunk []byte) []frame {
	p.buf = append(p.buf, chunk...)

	var frames []frame
	for {
		end := bytes.Index(p.buf, []byte("\n\n"))
		if end < 0 {
			return frames
		}
		msg := p.buf[:end]
		p.buf = p.buf[end+2:]

		if f, ok := parseMessage(msg); ok {
			frames = append(frames, f)
		}
	}
}

// parseMessage extracts the event tag and data payload from one message.
// Messages without both an event line and a data line are not frames.
func parseMessage(msg []byte) (frame, bool) {
	var f frame
	for _, line := range bytes.Split(msg, []byte("\n")) {
		line = bytes.TrimSuffix(line, []byte("\r"))
		switch {
		case bytes.HasPrefix(line, []byte("event:")):
			f.Event = string(bytes.TrimSpace(line[len("event:"):]))
		case bytes.HasPrefix(line, []byte("data:")):
			f.Data = bytes.TrimSpace(line[len("data:"):])
		}
	}
	if f.Event == "" || f.Data == nil {
		return frame{}, false
	}
	return f, true
}
