package batch

import "github.com/badno/letterbox/internal/images"

// Observer receives progress callbacks from a Runner. Calls are serialized,
// so implementations need no locking of their own.
type Observer interface {
	Planned(plan *Plan)
	Completed(task Task, result images.Result, err error)
}

// NopObserver ignores all callbacks.
type NopObserver struct{}

func (NopObserver) Planned(*Plan) {}

func (NopObserver) Completed(Task, images.Result, error) {}
