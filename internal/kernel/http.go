package kernel

import (
	"net/http"
	"time"

	"github.com/sudeviagro/backoffice/app/routes"
	"github.com/sudeviagro/backoffice/config"
	"github.com/sudeviagro/backoffice/pkg/metrics"
	"github.com/sudeviagro/backoffice/pkg/middleware"
	"github.com/sudeviagro/backoffice/pkg/reqid"
	"github.com/sudeviagro/backoffice/pkg/router"
)

// Router registers the global middleware and every route.
func Router(d routes.Deps) (*router.Router, error) {
	r := router.New()

	// Outermost first: metrics sees the full latency, recovery catches
	// panics before the request id and logger run.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.CORSFromConfig()))
	r.Use(middleware.RateLimit(config.GetInt("RATE_LIMIT_PER_MINUTE", 200), time.Minute))

	if err := routes.RegisterAPI(r, d); err != nil {
		return nil, err
	}
	return r, nil
}

// Handler is Router(d).Handler().
func Handler(d routes.Deps) (http.Handler, error) {
	r, err := Router(d)
	if err != nil {
		return nil, err
	}
	return r.Handler(), nil
}
