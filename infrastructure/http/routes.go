package http

import (
	adminusers "quickstock/frontend/adminUsers"
	exportspage "quickstock/frontend/exports"
	"quickstock/frontend/help"
	"quickstock/frontend/home"
	"quickstock/frontend/items"
	"quickstock/frontend/labels"
	locationspage "quickstock/frontend/locations"
	"quickstock/frontend/login"
	"quickstock/frontend/scanapi"

	"github.com/go-chi/chi/v5"
)

// RegisterLoginRoutes registers login/logout routes.
func (s *Server) RegisterLoginRoutes() {
	s.router.Get("/login", login.GetLoginScreenHandler)
	s.router.Post("/login", login.CreateLoginHandler(s.DB, s.SessionCache, s.UserCache))
	s.router.Post("/logout", login.LogoutHandler(s.DB, s.SessionCache))
}

// RegisterScanAPIRoutes registers the JSON endpoints used by scan stations.
func (s *Server) RegisterScanAPIRoutes(r chi.Router) {
	r.Post("/api/scan", scanapi.ScanCommandHandler(s.DB))
	r.Post("/api/quick-receive", scanapi.QuickReceiveCommandHandler(s.DB, s.Audit))
	r.Post("/api/quick-move", scanapi.QuickMoveCommandHandler(s.DB, s.Audit))
	r.Get("/locations/api/search", locationspage.SearchQueryHandler(s.DB))
	r.Get("/locations/api/{id}/contents", locationspage.ContentsQueryHandler(s.DB))
}

// RegisterAppRoutes registers pages every signed-in user can reach.
func (s *Server) RegisterAppRoutes(r chi.Router) chi.Router {
	r.Get("/", home.HomePageQueryHandler(s.DB))
	r.Get("/help", help.HelpPageQueryHandler())
	r.Get("/locations", locationspage.ListPageQueryHandler(s.DB))
	return r
}

// RegisterAdminRoutes registers admin-only pages. Role gating happens in
// AuthenticateMiddleware; scanners are not granted these paths.
func (s *Server) RegisterAdminRoutes(r chi.Router) chi.Router {
	r.Post("/locations", locationspage.CreateCommandHandler(s.DB, s.Audit))
	r.Post("/locations/bulk", locationspage.BulkCreateCommandHandler(s.DB, s.Audit))

	r.Get("/items/import", items.ImportPageQueryHandler(s.DB))
	r.Post("/items/import", items.ImportCommandHandler(s.DB, s.Audit))
	r.Post("/items/deactivate", items.DeactivateCommandHandler(s.DB, s.Audit))

	r.Get("/labels", labels.PageQueryHandler(s.DB))
	r.Post("/labels/items.pdf", labels.ItemLabelsPDFHandler(s.DB))
	r.Post("/labels/locations.pdf", labels.LocationLabelsPDFHandler(s.DB))

	r.Get("/exports", exportspage.ExportsPageQueryHandler(s.DB))
	r.Get("/exports/movements.csv", exportspage.MovementsExportCSVHandler(s.DB))
	r.Get("/exports/stock.csv", exportspage.StockExportCSVHandler(s.DB))

	r.Get("/admin/users", adminusers.UsersPageQueryHandler(s.DB))
	r.Post("/admin/users", adminusers.CreateUserCommandHandler(s.DB))
	return r
}
