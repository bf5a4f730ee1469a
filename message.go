package slacklog

import "fmt"

// Message is the payload attached to a log event, in one of its two accepted
// shapes: plain text (Text) or a structured record (Record).
type Message interface {
	isMessage()
}

// Text is a plain string payload. It becomes the attachment title verbatim.
type Text string

func (Text) isMessage() {}

// Record is a structured payload. A "message" key becomes the attachment
// title and a "url" key becomes the title link; whatever remains is rendered
// as a fenced JSON body.
type Record map[string]any

func (Record) isMessage() {}

// clone returns a shallow copy so reserved keys can be stripped without
// touching the caller's map.
func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// AsMessage coerces an arbitrary host payload into a Message. Strings and
// string-keyed maps map onto the two native shapes; errors contribute their
// message; anything else (numbers, booleans, structs) is stringified with
// fmt.Sprint. A nil payload is an empty Text.
func AsMessage(v any) Message {
	switch m := v.(type) {
	case nil:
		return Text("")
	case Message:
		return m
	case string:
		return Text(m)
	case map[string]any:
		return Record(m)
	case error:
		return Text(m.Error())
	default:
		return Text(fmt.Sprint(m))
	}
}
