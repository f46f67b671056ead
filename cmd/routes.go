package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	sessionMiddleware := alice.New(app.session)
	signupMiddleware := alice.New(app.signupLimiter.Limit, app.session)

	mux := pat.New()

	mux.Get("/health", http.HandlerFunc(app.health))

	// Site
	mux.Get("/api/site", http.HandlerFunc(app.siteHandler.GetChrome))
	mux.Get("/api/pages/:page", http.HandlerFunc(app.siteHandler.GetPage))
	mux.Get("/api/landing", http.HandlerFunc(app.siteHandler.GetLanding))

	// Marketplace
	mux.Get("/marketplace/service/:id", sessionMiddleware.ThenFunc(app.serviceHandler.GetServiceByID))
	mux.Get("/marketplace/provider/:id", sessionMiddleware.ThenFunc(app.serviceHandler.GetProviderByID))
	mux.Get("/marketplace", sessionMiddleware.ThenFunc(app.serviceHandler.GetServices))
	mux.Get("/ws/listing", sessionMiddleware.ThenFunc(app.ListingSocketHandler))

	// Categories
	mux.Get("/categories/:id", http.HandlerFunc(app.categoryHandler.GetCategoryByID))
	mux.Get("/categories", http.HandlerFunc(app.categoryHandler.GetAllCategories))

	// Service Favorites
	mux.Post("/favorites/:service_id/toggle", sessionMiddleware.ThenFunc(app.serviceFavorite.Toggle))
	mux.Get("/favorites/:service_id", sessionMiddleware.ThenFunc(app.serviceFavorite.IsFavorite))
	mux.Get("/favorites", sessionMiddleware.ThenFunc(app.serviceFavorite.GetFavorites))
	mux.Del("/favorites", sessionMiddleware.ThenFunc(app.serviceFavorite.Clear))

	// Sign-up
	mux.Get("/sign-up", signupMiddleware.ThenFunc(app.signupHandler.GetDraft))
	mux.Post("/sign-up/account", signupMiddleware.ThenFunc(app.signupHandler.SubmitAccount))
	mux.Post("/sign-up/profile", signupMiddleware.ThenFunc(app.signupHandler.SubmitProfile))
	mux.Post("/sign-up/back", signupMiddleware.ThenFunc(app.signupHandler.Back))
	mux.Post("/sign-up/finish", signupMiddleware.ThenFunc(app.signupHandler.Finish))
	mux.Del("/sign-up", signupMiddleware.ThenFunc(app.signupHandler.Abandon))

	return standardMiddleware.Then(mux)
}
