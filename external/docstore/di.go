package docstore

import (
	"context"
	"time"

	"github.com/foxseedlab/ahirun/internal/config"
	"github.com/foxseedlab/ahirun/internal/docstore"
	"github.com/samber/do/v2"
)

const clientInitTimeout = 15 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (docstore.Store, error) {
		c := do.MustInvoke[*config.Config](i)
		ctx, cancel := context.WithTimeout(context.Background(), clientInitTimeout)
		defer cancel()
		return NewFirestoreStore(ctx, FirestoreConfig{
			ProjectID:       c.GoogleCloudProjectID,
			CredentialsJSON: c.GoogleCloudCredentialsJSON,
		})
	})
}
