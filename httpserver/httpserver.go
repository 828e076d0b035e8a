package httpserver

import "io"

type Provider interface {
	Start() error
	io.Closer
}

// Runner starts serving in the background. The channel receives the serve
// error, if any, and is closed when serving stops.
type Runner interface {
	Run() <-chan error
}

type RunableProvider interface {
	Provider
	Runner
}
