package httpx

import (
	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-shop-api.git/internal/auth"
)

// Mount wires the full route table. Catalog reads are public; everything
// else requires a bearer token. Admin checks happen inside the services.
func Mount(r *chi.Mux, authSvc *auth.Service, ah *AuthHandler, ph *ProductsHandler, oh *OrdersHandler) {
	r.Post("/auth/register", ah.register)
	r.Post("/auth/login", ah.login)

	r.Get("/products", ph.list)
	r.Get("/products/{id}", ph.show)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(authSvc))

		r.Get("/user", ah.currentUser)
		r.Post("/auth/logout", ah.logout)

		r.Post("/products", ph.create)
		r.Put("/products/{id}", ph.update)
		r.Delete("/products/{id}", ph.delete)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", oh.list)
			r.Post("/", oh.create)
			r.Get("/{id}", oh.show)
			r.Patch("/{id}/cancel", oh.cancel)
		})
	})
}
