package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"greenpark/internal/entities"
)

//go:embed templates/reservation_email.html
var emailTemplateFS embed.FS

var emailTemplate = template.Must(template.ParseFS(emailTemplateFS, "templates/reservation_email.html"))

// MailClient sends an email. *sendgrid.Client implements it.
type MailClient interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// MessageClient sends an SMS or WhatsApp message. The Twilio
// *openapi.ApiService implements it.
type MessageClient interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type SenderConfig struct {
	FromEmail    string
	FromName     string
	SMSFrom      string
	WhatsAppFrom string
}

type SenderService struct {
	mail     MailClient
	messages MessageClient
	cfg      SenderConfig
	logger   *zap.Logger
	location *time.Location
	inflight sync.WaitGroup
}

var _ ReservationNotifier = (*SenderService)(nil)

// NewSenderService wires the given clients. A nil client disables the
// channel.
func NewSenderService(mailClient MailClient, messages MessageClient, cfg SenderConfig, logger *zap.Logger) *SenderService {
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		loc = time.FixedZone("CET", 1*60*60)
	}
	return &SenderService{
		mail:     mailClient,
		messages: messages,
		cfg:      cfg,
		logger:   logger,
		location: loc,
	}
}

// NewSendGridClient returns nil when apiKey is empty.
func NewSendGridClient(apiKey string) MailClient {
	if apiKey == "" {
		return nil
	}
	return sendgrid.NewSendClient(apiKey)
}

// NewTwilioClient returns nil when the credentials are incomplete.
func NewTwilioClient(accountSID, authToken string) MessageClient {
	if accountSID == "" || authToken == "" {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSID,
		Password:   authToken,
		AccountSid: accountSID,
	})
	return client.Api
}

// NotifyReservation sends the SMS and WhatsApp message synchronously and
// the email in the background.
func (s *SenderService) NotifyReservation(_ context.Context, reservation entities.ReservationResponse, status string) {
	if err := s.SendReservationSMS(reservation, status); err != nil {
		s.logger.Warn("Reservation SMS not sent", zap.String("code", reservation.Code), zap.Error(err))
	}
	if err := s.SendReservationWhatsApp(reservation, status); err != nil {
		s.logger.Warn("Reservation WhatsApp message not sent", zap.String("code", reservation.Code), zap.Error(err))
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		if err := s.SendReservationEmail(reservation, status); err != nil {
			s.logger.Warn("Reservation email not sent", zap.String("code", reservation.Code), zap.Error(err))
		}
	}()
}

// Wait blocks until background emails are sent.
func (s *SenderService) Wait() {
	s.inflight.Wait()
}

func (s *SenderService) SendReservationEmail(reservation entities.ReservationResponse, status string) error {
	if s.mail == nil || s.cfg.FromEmail == "" {
		return fmt.Errorf("email channel not configured")
	}

	data := entities.ReservationEmailData{
		UserName:           reservation.UserName,
		ReservationCode:    reservation.Code,
		VehicleModel:       reservation.VehicleModel,
		VehiclePlate:       reservation.VehiclePlate,
		StartTimeFormatted: reservation.StartTime.In(s.location).Format("02 Jan 2006 15:04 MST"),
		EndTimeFormatted:   reservation.EndTime.In(s.location).Format("02 Jan 2006 15:04 MST"),
		CurrentYear:        time.Now().In(s.location).Year(),
		Language:           reservation.Language,
		Status:             status,
	}
	subject, plain := emailText(data)

	var html bytes.Buffer
	if err := emailTemplate.Execute(&html, data); err != nil {
		return fmt.Errorf("render email for reservation %s: %w", data.ReservationCode, err)
	}

	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromEmail)
	to := mail.NewEmail(reservation.UserName, reservation.UserEmail)
	resp, err := s.mail.Send(mail.NewSingleEmail(from, subject, to, plain, html.String()))
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	s.logger.Info("Reservation email sent", zap.String("code", data.ReservationCode), zap.Int("status", resp.StatusCode))
	return nil
}

func (s *SenderService) SendReservationSMS(reservation entities.ReservationResponse, status string) error {
	if s.messages == nil || s.cfg.SMSFrom == "" {
		return fmt.Errorf("SMS channel not configured")
	}
	return s.sendMessage(s.cfg.SMSFrom, reservation.UserPhone, s.shortText(reservation, status))
}

// SendReservationWhatsApp sends the short notice through the Twilio
// WhatsApp channel.
func (s *SenderService) SendReservationWhatsApp(reservation entities.ReservationResponse, status string) error {
	if s.messages == nil || s.cfg.WhatsAppFrom == "" {
		return nil
	}
	return s.sendMessage(whatsAppAddress(s.cfg.WhatsAppFrom), whatsAppAddress(reservation.UserPhone), s.shortText(reservation, status))
}

func (s *SenderService) sendMessage(from, to, body string) error {
	if !strings.HasPrefix(strings.TrimPrefix(to, "whatsapp:"), "+") {
		s.logger.Warn("Destination number is not in E.164 format", zap.String("to", to))
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	resp, err := s.messages.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		s.logger.Info("Message sent", zap.String("to", to), zap.String("sid", *resp.Sid))
	}
	return nil
}

func whatsAppAddress(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

func (s *SenderService) shortText(reservation entities.ReservationResponse, status string) string {
	checkIn := reservation.StartTime.In(s.location).Format("02/01 15:04")
	switch reservation.Language {
	case "es":
		return fmt.Sprintf("GreenParking: ¡Tu reserva %s está %s!\nCheck-in: %s.\nMás detalles en tu correo.", reservation.Code, status, checkIn)
	case "it":
		return fmt.Sprintf("GreenParking: La tua prenotazione %s è %s!\nCheck-in: %s.\nAltri dettagli nella tua email.", reservation.Code, status, checkIn)
	case "fr":
		return fmt.Sprintf("GreenParking : votre réservation %s est %s !\nArrivée : %s.\nPlus de détails dans votre e-mail.", reservation.Code, status, checkIn)
	default:
		return fmt.Sprintf("GreenParking: Reservation %s is %s!\nCheck-in: %s.\nMore details in your email.", reservation.Code, status, checkIn)
	}
}

func emailText(d entities.ReservationEmailData) (subject, body string) {
	var greeting, intro, details, code, vehicle, plate, thanks, rights string
	switch d.Language {
	case "es":
		subject = fmt.Sprintf("Tu reserva en GreenParking está %s - Código: %s", d.Status, d.ReservationCode)
		greeting, intro, details = "Hola", "Tu reserva en GreenParking está", "Detalles de la reserva"
		code, vehicle, plate = "Código de Reserva", "Vehículo", "Patente"
		thanks, rights = "Gracias por elegir GreenParking.", "Todos los derechos reservados."
	case "it":
		subject = fmt.Sprintf("La tua prenotazione GreenParking è %s - Codice: %s", d.Status, d.ReservationCode)
		greeting, intro, details = "Ciao", "La tua prenotazione presso GreenParking è", "Dettagli della prenotazione"
		code, vehicle, plate = "Codice prenotazione", "Veicolo", "Targa"
		thanks, rights = "Grazie per aver scelto GreenParking.", "Tutti i diritti riservati."
	case "fr":
		subject = fmt.Sprintf("Votre réservation GreenParking est %s - Code : %s", d.Status, d.ReservationCode)
		greeting, intro, details = "Bonjour", "Votre réservation chez GreenParking est", "Détails de la réservation"
		code, vehicle, plate = "Code de réservation", "Véhicule", "Immatriculation"
		thanks, rights = "Merci d'avoir choisi GreenParking.", "Tous droits réservés."
	default:
		subject = fmt.Sprintf("Your GreenParking reservation is %s - Code: %s", d.Status, d.ReservationCode)
		greeting, intro, details = "Hello", "Your reservation at GreenParking is", "Reservation Details"
		code, vehicle, plate = "Reservation Code", "Vehicle", "Plate"
		thanks, rights = "Thank you for choosing GreenParking.", "All rights reserved."
	}

	body = fmt.Sprintf("%s %s,\n\n%s %s.\n\n%s:\n%s: %s\n%s: %s (%s: %s)\nCheck-in: %s\nCheck-out: %s\n\n%s\n\n© %d GreenParking. %s",
		greeting, d.UserName, intro, d.Status, details,
		code, d.ReservationCode,
		vehicle, d.VehicleModel, plate, d.VehiclePlate,
		d.StartTimeFormatted, d.EndTimeFormatted,
		thanks, d.CurrentYear, rights,
	)
	return subject, body
}
