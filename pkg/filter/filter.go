// Package filter implements the contact selection mini-language used
// by apply_to:
//
//	t=N        contact type equals N
//	d          direct reachability (out path length >= 0)
//	f          flood-only (out path length < 0)
//	h<N h>N h=N  strict hop comparisons on the signed out path length
//	u<DUR      last modified before now-DUR (older than DUR)
//	u>DUR      last modified after now-DUR (newer than DUR)
//	u=DUR      last modified exactly DUR ago, at second granularity
//
// DUR is an integer with an optional unit suffix d, h, m or s; a bare
// integer means seconds. Clauses are comma-separated and combined
// with AND; order never matters. Any malformed clause fails the whole
// expression, so a bad filter can never select contacts.
package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chrstnwhlrt/meshcli/pkg/radio"
)

// ParseError reports the clause that could not be parsed and why.
type ParseError struct {
	Clause string
	Pos    int // zero-based clause index
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bad filter clause %q (clause %d): %s", e.Clause, e.Pos+1, e.Reason)
}

func (e *ParseError) ErrorCode() string { return "filter_parse_error" }

type clauseKind int

const (
	clauseType clauseKind = iota
	clauseHopMin            // OutPathLen >= n
	clauseHopMax            // OutPathLen <= n
	clauseHopEq             // OutPathLen == n
	clauseOlder             // LastModified before now-d
	clauseNewer             // LastModified after now-d
	clauseAgeEq             // age == d in whole seconds
)

type clause struct {
	kind clauseKind
	n    int
	d    time.Duration
}

// Filter is a parsed expression, safe for repeated evaluation.
type Filter struct {
	clauses []clause
	src     string
}

// Parse compiles a filter expression. The empty string and the
// keyword "all" match every contact.
func Parse(expr string) (*Filter, error) {
	f := &Filter{src: expr}
	for i, raw := range strings.Split(expr, ",") {
		part := strings.TrimSpace(raw)
		if part == "" || part == "all" {
			continue
		}
		c, err := parseClause(part)
		if err != nil {
			return nil, &ParseError{Clause: part, Pos: i, Reason: err.Error()}
		}
		f.clauses = append(f.clauses, c)
	}
	return f, nil
}

func parseClause(part string) (clause, error) {
	switch {
	case part == "d":
		return clause{kind: clauseHopMin, n: 0}, nil
	case part == "f":
		return clause{kind: clauseHopMax, n: -1}, nil
	case strings.HasPrefix(part, "t="):
		n, err := strconv.Atoi(part[2:])
		if err != nil {
			return clause{}, fmt.Errorf("contact type must be an integer")
		}
		return clause{kind: clauseType, n: n}, nil
	case strings.HasPrefix(part, "h<"):
		n, err := strconv.Atoi(part[2:])
		if err != nil {
			return clause{}, fmt.Errorf("hop count must be an integer")
		}
		return clause{kind: clauseHopMax, n: n - 1}, nil
	case strings.HasPrefix(part, "h>"):
		n, err := strconv.Atoi(part[2:])
		if err != nil {
			return clause{}, fmt.Errorf("hop count must be an integer")
		}
		return clause{kind: clauseHopMin, n: n + 1}, nil
	case strings.HasPrefix(part, "h="):
		n, err := strconv.Atoi(part[2:])
		if err != nil {
			return clause{}, fmt.Errorf("hop count must be an integer")
		}
		return clause{kind: clauseHopEq, n: n}, nil
	case strings.HasPrefix(part, "u<"):
		d, err := parseDuration(part[2:])
		if err != nil {
			return clause{}, err
		}
		return clause{kind: clauseOlder, d: d}, nil
	case strings.HasPrefix(part, "u>"):
		d, err := parseDuration(part[2:])
		if err != nil {
			return clause{}, err
		}
		return clause{kind: clauseNewer, d: d}, nil
	case strings.HasPrefix(part, "u="):
		d, err := parseDuration(part[2:])
		if err != nil {
			return clause{}, err
		}
		return clause{kind: clauseAgeEq, d: d}, nil
	default:
		return clause{}, fmt.Errorf("unknown clause")
	}
}

// parseDuration accepts an integer with an optional d/h/m/s suffix;
// no suffix means seconds.
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("missing duration")
	}
	unit := time.Second
	num := s
	switch s[len(s)-1] {
	case 'd':
		unit, num = 24*time.Hour, s[:len(s)-1]
	case 'h':
		unit, num = time.Hour, s[:len(s)-1]
	case 'm':
		unit, num = time.Minute, s[:len(s)-1]
	case 's':
		unit, num = time.Second, s[:len(s)-1]
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("bad duration %q", s)
	}
	return time.Duration(n) * unit, nil
}

// Match reports whether the contact satisfies every clause, with ages
// measured against now.
func (f *Filter) Match(c radio.Contact, now time.Time) bool {
	for _, cl := range f.clauses {
		if !cl.match(c, now) {
			return false
		}
	}
	return true
}

func (cl clause) match(c radio.Contact, now time.Time) bool {
	switch cl.kind {
	case clauseType:
		return int(c.Type) == cl.n
	case clauseHopMin:
		return c.OutPathLen >= cl.n
	case clauseHopMax:
		return c.OutPathLen <= cl.n
	case clauseHopEq:
		return c.OutPathLen == cl.n
	case clauseOlder:
		return c.LastModified.Before(now.Add(-cl.d))
	case clauseNewer:
		return c.LastModified.After(now.Add(-cl.d))
	case clauseAgeEq:
		age := now.Sub(c.LastModified).Truncate(time.Second)
		return age == cl.d
	default:
		return false
	}
}

// String returns the source expression the filter was parsed from.
func (f *Filter) String() string { return f.src }

// Select returns the contacts matching f, preserving input order.
func (f *Filter) Select(contacts []radio.Contact, now time.Time) []radio.Contact {
	out := make([]radio.Contact, 0, len(contacts))
	for _, c := range contacts {
		if f.Match(c, now) {
			out = append(out, c)
		}
	}
	return out
}
