package commands

import (
	"context"
	"fmt"

	"github.com/bagdasarian/org-service/internal/repository/postgres"
	"github.com/bagdasarian/org-service/migrations"
	"github.com/rs/zerolog/log"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := bootstrap(ctx, globals)
	if err != nil {
		return err
	}
	defer rt.close()

	applied, err := postgres.Migrate(ctx, rt.db, migrations.FS)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	log.Info().Int("applied", applied).Msg("migrations applied")
	return nil
}
