package blobstore

import (
	"context"
	"time"

	"github.com/foxseedlab/ahirun/internal/blobstore"
	"github.com/foxseedlab/ahirun/internal/config"
	"github.com/samber/do/v2"
)

const clientInitTimeout = 15 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (blobstore.Store, error) {
		c := do.MustInvoke[*config.Config](i)
		ctx, cancel := context.WithTimeout(context.Background(), clientInitTimeout)
		defer cancel()
		return NewGCSStore(ctx, GCSConfig{
			CredentialsJSON: c.GoogleCloudCredentialsJSON,
			Bucket:          c.StorageBucket,
		})
	})
}
