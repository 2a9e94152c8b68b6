package entitlement

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/epreen/zimapp-web-sub001/pkg/billing"
	"github.com/epreen/zimapp-web-sub001/pkg/dispatch"
	"github.com/epreen/zimapp-web-sub001/pkg/entitlement"
	"github.com/epreen/zimapp-web-sub001/pkg/gate"
	"github.com/epreen/zimapp-web-sub001/pkg/logger"
	"github.com/epreen/zimapp-web-sub001/pkg/requestid"
)

// RouterOptions configures the entitlement module. Parser and Resolver are
// required; routes whose dependency is nil are not mounted.
type RouterOptions struct {
	Parser     *entitlement.TokenParser
	Resolver   *entitlement.Resolver
	Gate       *gate.Gate
	Dispatcher *dispatch.Dispatcher
	Billing    *billing.Handler
	Logger     *slog.Logger
}

// Router creates the entitlement HTTP API.
//
//	r := chi.NewRouter()
//	r.Mount("/v1", entitlement.Router(entitlement.RouterOptions{
//	    Parser:   parser,
//	    Resolver: resolver,
//	    Gate:     gate,
//	}))
func Router(opts RouterOptions) chi.Router {
	h := &handlers{
		resolver:   opts.Resolver,
		gate:       opts.Gate,
		dispatcher: opts.Dispatcher,
		billing:    opts.Billing,
		log:        logger.OrDiscard(opts.Logger).With(logger.Component("http")),
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)

	if opts.Billing != nil {
		r.Post("/webhooks/{provider}", h.webhook)
	}

	r.Group(func(r chi.Router) {
		r.Use(entitlement.Middleware(opts.Parser, opts.Resolver, opts.Logger))

		r.Get("/me", h.me)
		if opts.Gate != nil {
			r.Post("/uploads/check", h.checkUpload)
			r.Post("/quotas/{action}/check", h.checkQuota)
		}
		if opts.Dispatcher != nil {
			r.Post("/features/{feature}/complete", h.completeFeature)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, h.log, http.StatusNotFound, "not_found", "")
	})

	return r
}
