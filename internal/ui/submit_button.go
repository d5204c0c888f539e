package ui

import (
	"context"
	"html/template"
	"io"
)

// DefaultPendingLabel is shown on a pending submit button.
const DefaultPendingLabel = "Envoi en cours…"

// SubmitButton is a form's submit control. Pending overrides the ambient
// FormStatus when set, including when set to false.
type SubmitButton struct {
	Label        string
	Children     Component
	PendingLabel string
	Pending      *bool
	Name         string
	Value        string
	Class        string
}

// Bool returns a pointer to b, for SubmitButton.Pending.
func Bool(b bool) *bool {
	return &b
}

// IsPending resolves the pending state for a render with ctx.
func (b SubmitButton) IsPending(ctx context.Context) bool {
	if b.Pending != nil {
		return *b.Pending
	}
	return FormStatusFromContext(ctx).Pending
}

type submitButtonView struct {
	Pending      bool
	Content      template.HTML
	PendingLabel string
	Name         string
	Value        string
	Class        string
}

func (b SubmitButton) Render(ctx context.Context, w io.Writer) error {
	view := submitButtonView{
		Pending:      b.IsPending(ctx),
		PendingLabel: b.PendingLabel,
		Name:         b.Name,
		Value:        b.Value,
		Class:        b.Class,
	}
	if view.PendingLabel == "" {
		view.PendingLabel = DefaultPendingLabel
	}
	if view.Class == "" {
		view.Class = "btn btn-primary"
	}

	if !view.Pending {
		children := b.Children
		if children == nil {
			children = Text(b.Label)
		}
		content, err := RenderHTML(ctx, children)
		if err != nil {
			return err
		}
		view.Content = content
	}
	return execute(w, "submit_button", view)
}
