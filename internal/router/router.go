package router

import (
	"net/http"

	"github.com/hourbank/backend/internal/auth"
	"github.com/hourbank/backend/internal/exchange"
	"github.com/hourbank/backend/internal/middleware"
)

// New returns an http.Handler serving the API under /api/v1. Auth endpoints
// are open; everything else requires a bearer token.
func New(authHandler *auth.Handler, exchangeHandler *exchange.Handler, authSvc auth.Service) http.Handler {
	mux := http.NewServeMux()
	base := "/api/v1"

	mux.HandleFunc("POST "+base+"/auth/signup", authHandler.SignUp)
	mux.HandleFunc("POST "+base+"/auth/login", authHandler.Login)

	guard := middleware.BearerAuth(authSvc)
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, guard(h))
	}

	protected("POST "+base+"/exchange/register", exchangeHandler.Register)

	protected("GET "+base+"/account/me", exchangeHandler.GetMe)
	protected("GET "+base+"/account/balance", exchangeHandler.GetBalance)
	protected("GET "+base+"/account/reputation", exchangeHandler.GetReputation)

	protected("POST "+base+"/offers", exchangeHandler.CreateOffer)
	protected("GET "+base+"/offers", exchangeHandler.ListOffers)
	protected("GET "+base+"/offers/{id}", exchangeHandler.GetOffer)
	protected("POST "+base+"/offers/{id}/deactivate", exchangeHandler.DeactivateOffer)

	protected("POST "+base+"/requests", exchangeHandler.CreateRequest)
	protected("GET "+base+"/requests/{id}", exchangeHandler.GetRequest)
	protected("POST "+base+"/requests/{id}/complete", exchangeHandler.CompleteRequest)

	protected("GET "+base+"/events", exchangeHandler.ListEvents)

	return mux
}
