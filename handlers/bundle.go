package handlers

// HandlerBundle aggregates the HTTP handlers for route registration.
type HandlerBundle struct {
	Session      *SessionHandler
	Tracking     *TrackingHandler
	Availability *AvailabilityHandler
	Admin        *AdminHandler
	Wallet       *WalletHandler
}
