package finalize

import (
	"github.com/foxseedlab/ahirun/internal/blobstore"
	"github.com/foxseedlab/ahirun/internal/config"
	"github.com/foxseedlab/ahirun/internal/docstore"
	"github.com/foxseedlab/ahirun/internal/notify"
	"github.com/foxseedlab/ahirun/internal/transcriber"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Router, error) {
		cfg := do.MustInvoke[*config.Config](i)
		store := do.MustInvoke[docstore.Store](i)
		blobs := do.MustInvoke[blobstore.Store](i)
		stt := do.MustInvoke[transcriber.Transcriber](i)
		notifier := do.MustInvoke[notify.Sender](i)
		return NewRouter(store, blobs, stt, notifier, cfg.PromptMarker), nil
	})
}
