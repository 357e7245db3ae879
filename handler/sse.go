package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"
)

// EventStreamMediaType is what a streaming client puts in Accept.
const EventStreamMediaType = "text/event-stream"

// WantsEventStream reports whether r accepts an event stream, either by
// header or through the ?datastar query parameter DataStar clients send.
func WantsEventStream(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), EventStreamMediaType) ||
		r.URL.Query().Has("datastar")
}

// StreamContext is a Context with an open event stream. Values go out as
// DataStar signal patches; the data lines carry plain JSON, so clients
// other than DataStar can read them too.
type StreamContext interface {
	Context
	SendSignal(name string, value any) error
	SendSignals(signals map[string]any) error
}

type stream struct {
	Context
	sse *datastar.ServerSentEventGenerator
}

func (s stream) SendSignal(name string, value any) error {
	return s.SendSignals(map[string]any{name: value})
}

func (s stream) SendSignals(signals map[string]any) error {
	payload, err := json.Marshal(signals)
	if err != nil {
		return err
	}
	return s.sse.PatchSignals(payload)
}

// SSEHandler owns the stream until it returns or the client goes away,
// which closes ctx.Done().
type SSEHandler func(ctx StreamContext) error

type sseResponse SSEHandler

func (fn sseResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if !WantsEventStream(r) {
		return NewHTTPError(http.StatusNotAcceptable, "not_acceptable").
			WithMessage("endpoint requires Accept: " + EventStreamMediaType)
	}
	if _, ok := w.(http.Flusher); !ok {
		return ErrStreamingUnsupported
	}
	return fn(stream{Context: NewContext(w, r), sse: datastar.NewSSE(w, r)})
}

// SSE streams from fn.
//
//	return handler.SSE(func(s handler.StreamContext) error {
//		for p := range progress {
//			if err := s.SendSignal("setup", p); err != nil {
//				return err
//			}
//		}
//		return nil
//	})
func SSE(fn SSEHandler) Response { return sseResponse(fn) }
