package ui

import (
	"context"
	"io"

	"greenpark/internal/toast"
)

// Toaster renders the visible notifications.
type Toaster struct {
	Items []toast.Notification
}

func (t Toaster) Render(_ context.Context, w io.Writer) error {
	return execute(w, "toaster", t)
}

// ToastProvider renders Children followed by the Toaster, so the
// notifications overlay the page.
type ToastProvider struct {
	Toasts   []toast.Notification
	Children Component
}

func (p ToastProvider) Render(ctx context.Context, w io.Writer) error {
	return Fragment(p.Children, Toaster{Items: p.Toasts}).Render(ctx, w)
}
