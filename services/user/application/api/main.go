package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/paycontrol/pkg/app"
	"github.com/ghuser/paycontrol/pkg/auth"
	"github.com/ghuser/paycontrol/services/user/application/handlers"
	appsvcs "github.com/ghuser/paycontrol/services/user/application/services"
)

// UserRoutes registers authentication endpoints on the provided chi router.
// Register and login are public; logout and me require a session.
func UserRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handlers.NewPostRegisterHandler(svcs, a.SessionStore).Execute)
		r.Post("/login", handlers.NewPostLoginHandler(svcs, a.SessionStore).Execute)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(a.SessionStore, a.Logger))
			r.Post("/logout", handlers.NewPostLogoutHandler(a.SessionStore).Execute)
			r.Get("/me", handlers.NewGetMeHandler(svcs).Execute)
		})
	})
}
