package provider

import (
	"context"

	"campus-notify/internal/domain"
)

// Result is the uniform outcome of a send attempt. Error is capped at
// domain.MaxErrorLen; providers never retry internally.
type Result struct {
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
}

func Success() Result {
	return Result{OK: true}
}

func Failure(err error) Result {
	return Result{OK: false, Error: domain.TruncateError(err.Error())}
}

func FailureStatus(statusCode int, err error) Result {
	return Result{OK: false, Error: domain.TruncateError(err.Error()), StatusCode: statusCode}
}

// ChannelProvider delivers one rendered content payload over its channel.
type ChannelProvider interface {
	Send(ctx context.Context, content *domain.NotificationContent) Result
}

// Registry maps variants to providers. Populated once at startup; adding a
// channel means registering an implementation, not editing the worker.
type Registry struct {
	providers map[domain.Variant]ChannelProvider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[domain.Variant]ChannelProvider)}
}

func (r *Registry) Register(variant domain.Variant, p ChannelProvider) {
	r.providers[variant] = p
}

func (r *Registry) Get(variant domain.Variant) (ChannelProvider, bool) {
	p, ok := r.providers[variant]
	return p, ok
}
