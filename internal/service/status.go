package service

const (
	statusPending  = "pending"
	statusActive   = "active"
	statusFinished = "finished"
	statusCanceled = "canceled"

	statusConfirmed = "confirmed"

	paymentPending   = "pending"
	paymentSucceeded = "succeeded"
	paymentRefunded  = "refunded"
)

// StatusTranslation translates a reservation status for customer
// messages. Unknown languages get the English status.
func StatusTranslation(status, lang string) string {
	if status == "cancelled" {
		status = statusCanceled
	}
	if t, ok := statusTranslations[lang][status]; ok {
		return t
	}
	return status
}

var statusTranslations = map[string]map[string]string{
	"es": {
		statusPending:   "pendiente",
		statusActive:    "activa",
		statusFinished:  "finalizada",
		statusCanceled:  "cancelada",
		statusConfirmed: "confirmada",
	},
	"it": {
		statusPending:   "in attesa",
		statusActive:    "attiva",
		statusFinished:  "finito",
		statusCanceled:  "annullata",
		statusConfirmed: "confermata",
	},
	"fr": {
		statusPending:   "en attente",
		statusActive:    "active",
		statusFinished:  "terminée",
		statusCanceled:  "annulée",
		statusConfirmed: "confirmée",
	},
}
