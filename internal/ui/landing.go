package ui

import (
	"bytes"
	"context"
	"html/template"
	"io"

	"greenpark/internal/toast"
)

// Option is an entry of a select or radio group.
type Option struct {
	ID       int
	Label    string
	Selected bool
}

// ReservationForm holds the values echoed back into the form.
type ReservationForm struct {
	StartTime       string
	EndTime         string
	VehicleTypeID   int
	UserName        string
	UserEmail       string
	UserPhone       string
	VehiclePlate    string
	VehicleModel    string
	PaymentMethodID int
	Language        string
}

// Payment method ids as stored by the reservation backend.
const (
	PaymentOnSite = 1
	PaymentOnline = 2
)

// DefaultStreamPath is the websocket endpoint pushing toast snapshots.
const DefaultStreamPath = "/toasts/stream"

// LandingPage is the whole page served at "/".
type LandingPage struct {
	Title        string
	VehicleTypes []Option
	Form         ReservationForm
	Toasts       []toast.Notification
	// WhatsApp is omitted when nil.
	WhatsApp   *WhatsAppButton
	StreamPath string
}

type landingBodyView struct {
	Form           ReservationForm
	VehicleTypes   []Option
	PaymentMethods []Option
	CheckButton    template.HTML
	ReserveButton  template.HTML
	WhatsApp       template.HTML
}

type layoutView struct {
	Title      string
	Body       template.HTML
	StreamPath string
}

func (p LandingPage) Render(ctx context.Context, w io.Writer) error {
	body := ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return p.renderBody(ctx, w)
	})
	page, err := RenderHTML(ctx, ToastProvider{Toasts: p.Toasts, Children: body})
	if err != nil {
		return err
	}

	view := layoutView{Title: p.Title, Body: page, StreamPath: p.StreamPath}
	if view.Title == "" {
		view.Title = "GreenParking | Parking aéroport"
	}
	if view.StreamPath == "" {
		view.StreamPath = DefaultStreamPath
	}
	return execute(w, "layout", view)
}

func (p LandingPage) renderBody(ctx context.Context, w io.Writer) error {
	view := landingBodyView{
		Form:           p.Form,
		VehicleTypes:   make([]Option, len(p.VehicleTypes)),
		PaymentMethods: paymentOptions(p.Form.PaymentMethodID),
	}
	if view.Form.Language == "" {
		view.Form.Language = "fr"
	}
	for i, vt := range p.VehicleTypes {
		vt.Selected = vt.ID == p.Form.VehicleTypeID
		view.VehicleTypes[i] = vt
	}

	var err error
	check := SubmitButton{Label: "Vérifier la disponibilité", Name: "action", Value: "check", Class: "btn btn-secondary"}
	if view.CheckButton, err = RenderHTML(ctx, check); err != nil {
		return err
	}
	reserve := SubmitButton{Label: "Réserver", Name: "action", Value: "reserve", PendingLabel: "Paiement en cours…"}
	if view.ReserveButton, err = RenderHTML(ctx, reserve); err != nil {
		return err
	}
	if p.WhatsApp != nil {
		if view.WhatsApp, err = RenderHTML(ctx, *p.WhatsApp); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := execute(&buf, "landing_body", view); err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}

func paymentOptions(selected int) []Option {
	if selected == 0 {
		selected = PaymentOnline
	}
	return []Option{
		{ID: PaymentOnline, Label: "En ligne (montant total)", Selected: selected == PaymentOnline},
		{ID: PaymentOnSite, Label: "Sur place (acompte de 30 %)", Selected: selected == PaymentOnSite},
	}
}

// VehicleLabel returns the French label of a vehicle type name.
func VehicleLabel(name string) string {
	switch name {
	case "car":
		return "Voiture"
	case "motorcycle":
		return "Moto"
	case "suv":
		return "SUV / Van"
	}
	return name
}

// FallbackVehicleTypes is used when the backend cannot list vehicle types.
func FallbackVehicleTypes() []Option {
	names := []string{"car", "motorcycle", "suv"}
	out := make([]Option, len(names))
	for i, n := range names {
		out[i] = Option{ID: i + 1, Label: VehicleLabel(n)}
	}
	return out
}
