package ui

import "context"

// FormStatus is the state of the form enclosing a control.
type FormStatus struct {
	Pending bool
}

type formStatusKey struct{}

// WithFormStatus makes st the ambient status for controls rendered with
// the returned context.
func WithFormStatus(ctx context.Context, st FormStatus) context.Context {
	return context.WithValue(ctx, formStatusKey{}, st)
}

// FormStatusFromContext returns the ambient form status. Outside any form
// the status is not pending.
func FormStatusFromContext(ctx context.Context) FormStatus {
	st, _ := ctx.Value(formStatusKey{}).(FormStatus)
	return st
}
