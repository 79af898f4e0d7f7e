package router

import (
	"fmt"

	"net/http"

	"github.com/go-chi/chi"

	"github.com/samber/do"

	"github.com/oakridge-sis/secure-sync-server/pkg/web/middleware"
	"github.com/oakridge-sis/secure-sync-server/pkg/web/router/routes"
)

func Router(i *do.Injector) chi.Router {
	baseRouter := chi.NewRouter()
	baseRouter.Use(middleware.Log)

	apiV1Router := chi.NewRouter()
	apiV1Router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "secure-sync-server")
	})

	tokenRouter := chi.NewRouter()
	tokenRouter.Use(middleware.ConfigureAuth(i, "sync-admin"))
	tokenRouter.Mount("/", routes.TokenRoutes(i))
	apiV1Router.Mount("/tokens", tokenRouter)

	deviceRouter := chi.NewRouter()
	deviceRouter.Use(middleware.ConfigureAuth(i, "sync-admin", "registrar"))
	deviceRouter.Mount("/", routes.DeviceRoutes(i))
	apiV1Router.Mount("/devices", deviceRouter)

	syncRouter := chi.NewRouter()
	syncRouter.Use(middleware.ConfigureAuth(i, "sync-admin"))
	syncRouter.Mount("/", routes.SyncRoutes(i))
	apiV1Router.Mount("/sync", syncRouter)

	baseRouter.Mount("/api/v1", apiV1Router)
	return baseRouter
}
