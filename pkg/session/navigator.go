// Package session holds the interactive-mode navigation state: which
// contact or channel is current, the previous destination, and the
// last message sender. One Navigator lives for the duration of one
// interactive session and is discarded on exit.
package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/chrstnwhlrt/meshcli/pkg/radio"
)

// Place is where the session currently points.
type Place int

const (
	Root Place = iota
	AtContact
	AtChannel
)

// Destination is a resolved navigation target.
type Destination struct {
	Place   Place
	Contact radio.Contact // valid when Place == AtContact
	Channel radio.Channel // valid when Place == AtChannel
}

// Label is the short human name of the destination, used in prompts.
func (d Destination) Label() string {
	switch d.Place {
	case AtContact:
		return d.Contact.Name
	case AtChannel:
		return "#" + d.Channel.Name
	default:
		return ""
	}
}

// AmbiguousError reports a prefix that matches more than one known
// destination.
type AmbiguousError struct {
	Token   string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous destination %q: matches %s", e.Token, strings.Join(e.Matches, ", "))
}

func (e *AmbiguousError) ErrorCode() string { return "ambiguous_destination" }

// UnknownError reports a name that matches no contact or channel.
type UnknownError struct {
	Token string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unknown destination %q", e.Token)
}

func (e *UnknownError) ErrorCode() string { return "unknown_destination" }

// ErrNoLastSender is returned by `to !` before any message arrived.
var ErrNoLastSender = fmt.Errorf("no message received yet")

// Navigator is the session state machine. Navigation happens on the
// input-handling goroutine; NoteSender is called from event delivery,
// so the state is mutex-guarded.
type Navigator struct {
	mu         sync.Mutex
	deviceName string
	current    Destination
	previous   Destination
	lastSender string
	floodScope string
}

// New returns a Navigator at Root. deviceName is shown in the root
// prompt.
func New(deviceName string) *Navigator {
	return &Navigator{deviceName: deviceName}
}

// Current returns the current destination.
func (n *Navigator) Current() Destination {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// To applies one `to <target>` transition against the given contact
// and channel snapshots. On error the state is unchanged.
//
//	/  ~   root
//	..     previous destination (single slot)
//	!      last message sender
//	name   exact or unique-prefix match over contacts then channels;
//	       a %scope suffix additionally sets the flood scope
func (n *Navigator) To(target string, contacts []radio.Contact, channels []radio.Channel) (Destination, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch target {
	case "/", "~":
		n.move(Destination{Place: Root})
		return n.current, nil
	case "..":
		n.current, n.previous = n.previous, n.current
		return n.current, nil
	case "!":
		if n.lastSender == "" {
			return n.current, ErrNoLastSender
		}
		dest, err := resolve(n.lastSender, contacts, channels)
		if err != nil {
			return n.current, err
		}
		n.move(dest)
		return n.current, nil
	case "":
		return n.current, nil
	}

	name, scope, hasScope := strings.Cut(target, "%")
	dest, err := resolve(name, contacts, channels)
	if err != nil {
		return n.current, err
	}
	n.move(dest)
	if hasScope {
		n.floodScope = scope
	}
	return n.current, nil
}

// move records the transition, keeping one step of history.
func (n *Navigator) move(dest Destination) {
	n.previous = n.current
	n.current = dest
}

// NoteSender records the sender of the most recent private message,
// the target of `to !`. Called from event delivery.
func (n *Navigator) NoteSender(name string) {
	n.mu.Lock()
	n.lastSender = name
	n.mu.Unlock()
}

// LastSender returns the most recent message sender, if any.
func (n *Navigator) LastSender() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastSender, n.lastSender != ""
}

// FloodScope returns the active flood scope, empty when unset.
func (n *Navigator) FloodScope() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.floodScope
}

// SetFloodScope sets or clears the flood scope.
func (n *Navigator) SetFloodScope(scope string) {
	n.mu.Lock()
	n.floodScope = scope
	n.mu.Unlock()
}

// Prompt renders the readline prompt for the current state.
func (n *Navigator) Prompt() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	label := n.current.Label()
	if label == "" {
		label = n.deviceName
	}
	if n.floodScope != "" {
		label += "%" + n.floodScope
	}
	return label + "> "
}

// resolve matches name against contacts first, then channels: exact
// match wins, otherwise a unique case-insensitive prefix.
func resolve(name string, contacts []radio.Contact, channels []radio.Channel) (Destination, error) {
	for _, c := range contacts {
		if c.Name == name {
			return Destination{Place: AtContact, Contact: c}, nil
		}
	}
	for _, ch := range channels {
		if ch.Name == name {
			return Destination{Place: AtChannel, Channel: ch}, nil
		}
	}

	lower := strings.ToLower(name)
	var matches []Destination
	var labels []string
	for _, c := range contacts {
		if strings.HasPrefix(strings.ToLower(c.Name), lower) {
			matches = append(matches, Destination{Place: AtContact, Contact: c})
			labels = append(labels, c.Name)
		}
	}
	for _, ch := range channels {
		if strings.HasPrefix(strings.ToLower(ch.Name), lower) {
			matches = append(matches, Destination{Place: AtChannel, Channel: ch})
			labels = append(labels, "#"+ch.Name)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return Destination{}, &UnknownError{Token: name}
	default:
		return Destination{}, &AmbiguousError{Token: name, Matches: labels}
	}
}
