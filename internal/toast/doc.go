// Package toast keeps the short-lived status messages shown on the landing
// page.
//
// A Store holds the ordered list of visible notifications for one visitor.
// Producers reach it through the request context instead of threading it
// through every call:
//
//	func (h *LandingHandler) Reserve(w http.ResponseWriter, r *http.Request) {
//	    if err := h.booker.CreateReservation(r.Context(), req); err != nil {
//	        toast.Error(r.Context(), "Impossible d'enregistrer la réservation.")
//	        return
//	    }
//	    toast.Success(r.Context(), "Réservation enregistrée.")
//	}
//
// Middleware installs the visitor's Store for every request. Calling
// FromContext on a context that went through no provider panics.
//
// Renderers observe a Store with Subscribe and redraw on every Event.
package toast
