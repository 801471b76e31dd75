package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the structured /calculate endpoints and the
// per-operation /calculator endpoints.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/calculate", h.Calculate)
	r.Post("/calculate/batch", h.Batch)

	r.Route("/calculator", func(r chi.Router) {
		r.Post("/scientific/{function}", h.Scientific)
		r.Post("/financial/compound", h.CompoundInterest)
		r.Post("/financial/loan", h.LoanPayment)
		r.Post("/statistics", h.Statistics)
		r.Post("/chain", h.Chain)
		r.Post("/{operation}", h.Binary)
	})
}
