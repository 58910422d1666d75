package aichannel

import (
	"context"
	"fmt"
	"sync"
)

// FakeChannel is a deterministic AIChannel for tests: it replays scripted
// responses in call order, or falls back to echoing the last user
// message if the script is exhausted.
type FakeChannel struct {
	mu        sync.Mutex
	Responses []Result
	calls     int
	Err       error
}

// NewFakeChannel builds a fake that returns responses in order.
func NewFakeChannel(responses ...Result) *FakeChannel {
	return &FakeChannel{Responses: responses}
}

func (f *FakeChannel) next(req Request) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls < len(f.Responses) {
		r := f.Responses[f.calls]
		f.calls++
		return r
	}
	f.calls++
	last := ""
	if len(req.Messages) > 0 {
		last = req.Messages[len(req.Messages)-1].Content
	}
	return Result{
		Content:      fmt.Sprintf("echo: %s", last),
		Model:        req.Model,
		FinishReason: "stop",
	}
}

// Chat returns the next scripted response or an echo.
func (f *FakeChannel) Chat(ctx context.Context, req Request) (Result, error) {
	if f.Err != nil {
		f.mu.Lock()
		f.calls++
		f.mu.Unlock()
		return Result{}, f.Err
	}
	return f.next(req), nil
}

// ChatStream emits the response content as a single delta followed by
// the final result.
func (f *FakeChannel) ChatStream(ctx context.Context, req Request) (<-chan ContentDelta, <-chan Result, <-chan error) {
	deltas := make(chan ContentDelta, 1)
	results := make(chan Result, 1)
	errs := make(chan error, 1)

	go func() {
		defer close(deltas)
		defer close(results)
		defer close(errs)

		if f.Err != nil {
			f.mu.Lock()
			f.calls++
			f.mu.Unlock()
			errs <- f.Err
			return
		}
		r := f.next(req)
		deltas <- ContentDelta{Content: r.Content}
		results <- r
	}()

	return deltas, results, errs
}

// CallCount returns how many Chat/ChatStream calls have been made.
func (f *FakeChannel) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
