package journal

import (
	"github.com/foxseedlab/ahirun/internal/blobstore"
	"github.com/foxseedlab/ahirun/internal/docstore"
	"github.com/foxseedlab/ahirun/internal/synthesizer"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Engine, error) {
		store := do.MustInvoke[docstore.Store](i)
		blobs := do.MustInvoke[blobstore.Store](i)
		synth := do.MustInvoke[synthesizer.Synthesizer](i)
		return NewEngine(store, blobs, synth), nil
	})
}
