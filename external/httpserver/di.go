package httpserver

import (
	"github.com/foxseedlab/ahirun/internal/config"
	"github.com/foxseedlab/ahirun/internal/finalize"
	"github.com/foxseedlab/ahirun/internal/journal"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		engine := do.MustInvoke[*journal.Engine](i)
		router := do.MustInvoke[*finalize.Router](i)
		return New(cfg.ListenAddr, engine, router), nil
	})
}
