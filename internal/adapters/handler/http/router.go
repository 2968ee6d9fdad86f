package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sepeiunido/plataforma/internal/core/ports"
)

func NewHandler(
	auth ports.AuthService,
	authHandler *AuthHandler,
	pollHandler *PollHandler,
	voteHandler *VoteHandler,
	memberHandler *MemberHandler,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(SessionAuth(auth))

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("sepei unido"))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
		})

		r.With(RequireMember).Get("/me", authHandler.Me)

		r.Route("/polls", func(r chi.Router) {
			r.Get("/", pollHandler.ListPublished)
			r.Get("/active", pollHandler.ListActive)
			r.With(RequireAdmin).Get("/all", pollHandler.ListAll)
			r.With(RequireAdmin).Post("/", pollHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.With(RequireAdmin).Put("/", pollHandler.Update)
				r.With(RequireAdmin).Delete("/", pollHandler.Delete)
				r.With(RequireAdmin).Patch("/publish", pollHandler.SetPublished)
				r.With(RequireAdmin).Patch("/results-visibility", pollHandler.SetResultsPublic)
				r.Get("/results", pollHandler.Results)
				r.With(RequireMember).Post("/votes", voteHandler.Cast)
				r.With(RequireMember).Get("/votes", voteHandler.HasVoted)
			})
		})

		r.Route("/members/{id}", func(r chi.Router) {
			r.With(RequireAdmin).Get("/", memberHandler.Get)
			r.With(RequireAdmin).Patch("/verify", memberHandler.SetVerified)
			r.With(RequireAdmin).Patch("/authorize-voting", memberHandler.SetVotingAuthorized)
		})
	})

	return r
}
