package dispatch

import (
	"context"
	"strings"

	"github.com/pure-golang/mailto/template"
)

// Source tells where a message body came from.
type Source int

const (
	SourceExplicit Source = iota + 1
	SourceStored
	SourceUnavailable
)

func (s Source) String() string {
	switch s {
	case SourceExplicit:
		return "explicit"
	case SourceStored:
		return "stored"
	case SourceUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of body resolution. Err is set only for SourceUnavailable.
type Resolution struct {
	Source Source
	Body   string
	Err    error
}

// ResolveBody picks the message body: the caller's html when it is not blank,
// otherwise the stored template.
func ResolveBody(ctx context.Context, html string, reader template.Reader) Resolution {
	if strings.TrimSpace(html) != "" {
		return Resolution{Source: SourceExplicit, Body: html}
	}

	body, err := reader.Read(ctx)
	if err != nil {
		return Resolution{Source: SourceUnavailable, Err: err}
	}
	return Resolution{Source: SourceStored, Body: body}
}
