// Package display renders command results and events for the
// terminal, in human mode (optionally colored) or JSON mode.
package display

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/chrstnwhlrt/meshcli/pkg/radio"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

// Classified is implemented by taxonomy errors that carry a stable
// machine-readable code for JSON output.
type Classified interface {
	error
	ErrorCode() string
}

// Printer writes results to a single output stream. JSON mode emits
// one JSON object per line; human mode emits formatted text.
type Printer struct {
	w     io.Writer
	json  bool
	color bool
}

// New returns a Printer. color is ignored in JSON mode.
func New(w io.Writer, jsonMode, color bool) *Printer {
	return &Printer{w: w, json: jsonMode, color: color && !jsonMode}
}

// JSON reports whether the printer is in JSON mode.
func (p *Printer) JSON() bool { return p.json }

func (p *Printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + ansiReset
}

// Result emits a named command result with a structured payload. In
// human mode the payload is rendered as indented key lines when it is
// a map, otherwise with %v.
func (p *Printer) Result(name string, payload any) {
	if p.json {
		p.emit(map[string]any{"result": name, "data": payload})
		return
	}
	switch v := payload.(type) {
	case nil:
		fmt.Fprintln(p.w, p.paint(ansiGreen, name))
	case string:
		fmt.Fprintln(p.w, v)
	case map[string]any:
		fmt.Fprintln(p.w, p.paint(ansiCyan, name))
		for k, val := range v {
			fmt.Fprintf(p.w, "  %s: %v\n", k, val)
		}
	default:
		fmt.Fprintf(p.w, "%v\n", v)
	}
}

// Info prints an informational line.
func (p *Printer) Info(format string, args ...any) {
	if p.json {
		p.emit(map[string]any{"info": fmt.Sprintf(format, args...)})
		return
	}
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Warning prints a non-fatal warning.
func (p *Printer) Warning(format string, args ...any) {
	if p.json {
		p.emit(map[string]any{"warning": fmt.Sprintf(format, args...)})
		return
	}
	fmt.Fprintln(p.w, p.paint(ansiYellow, fmt.Sprintf(format, args...)))
}

// Error renders a taxonomy error. JSON mode carries the machine code
// when the error is Classified.
func (p *Printer) Error(err error) {
	if err == nil {
		return
	}
	if p.json {
		obj := map[string]any{"error": err.Error()}
		var c Classified
		if errors.As(err, &c) {
			obj["code"] = c.ErrorCode()
		} else if errors.Is(err, radio.ErrTransport) {
			obj["code"] = "transport_error"
		}
		p.emit(obj)
		return
	}
	fmt.Fprintln(p.w, p.paint(ansiRed, "error: "+err.Error()))
}

// TimedOut reports a wait that expired. This is an expected outcome,
// not an error.
func (p *Printer) TimedOut(what string) {
	if p.json {
		p.emit(map[string]any{"result": what, "timed_out": true})
		return
	}
	fmt.Fprintln(p.w, p.paint(ansiYellow, what+": timed out"))
}

// Event renders an unsolicited event, as arriving in interactive
// mode.
func (p *Printer) Event(ev radio.Event) {
	if p.json {
		p.emit(map[string]any{"event": ev.Kind().String(), "data": ev})
		return
	}
	switch e := ev.(type) {
	case radio.ContactMessage:
		fmt.Fprintln(p.w, p.paint(ansiCyan, fmt.Sprintf("%s: %s", e.SenderName, e.Text)))
	case radio.ChannelMessage:
		fmt.Fprintln(p.w, p.paint(ansiGreen, fmt.Sprintf("#%d: %s", e.Channel, e.Text)))
	case radio.Ack:
		fmt.Fprintln(p.w, p.paint(ansiGreen, fmt.Sprintf("ack %08x", e.Code)))
	case radio.Advertisement:
		fmt.Fprintf(p.w, "advert from %s\n", e.PublicKey)
	case radio.NewContactAdvert:
		fmt.Fprintf(p.w, "new contact heard: %s (%s)\n", e.Contact.Name, e.Contact.Type)
	case radio.LoginResult:
		if e.Success {
			fmt.Fprintln(p.w, p.paint(ansiGreen, "login ok"))
		} else {
			fmt.Fprintln(p.w, p.paint(ansiRed, "login failed"))
		}
	default:
		fmt.Fprintf(p.w, "%s event\n", ev.Kind())
	}
}

// Contacts renders a contact list snapshot.
func (p *Printer) Contacts(contacts []radio.Contact) {
	if p.json {
		p.emit(map[string]any{"result": "contacts", "data": contacts})
		return
	}
	for _, c := range contacts {
		reach := "flood"
		if c.OutPathLen >= 0 {
			reach = fmt.Sprintf("%d hops", c.OutPathLen)
		}
		fmt.Fprintf(p.w, "%-24s %-8s %-8s %s\n", c.Name, c.Type, reach, c.KeyPrefix())
	}
}

// Channels renders the channel slots.
func (p *Printer) Channels(channels []radio.Channel) {
	if p.json {
		p.emit(map[string]any{"result": "channels", "data": channels})
		return
	}
	for _, ch := range channels {
		fmt.Fprintf(p.w, "%2d  %s\n", ch.Index, ch.Name)
	}
}

// Message renders a received message from a wait primitive.
func (p *Printer) Message(ev radio.Event) {
	if p.json {
		p.emit(map[string]any{"result": "message", "data": ev, "at": ev.ReceivedAt().Format(time.RFC3339)})
		return
	}
	p.Event(ev)
}

func (p *Printer) emit(obj map[string]any) {
	data, err := json.Marshal(obj)
	if err != nil {
		fmt.Fprintf(p.w, `{"error":%q}`+"\n", err.Error())
		return
	}
	p.w.Write(append(data, '\n'))
}
