package migrations

import (
	"context"
	"fmt"

	"github.com/suspybot/suspy/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.FlaggedLink)(nil),
			(*types.GuildSetting)(nil),
			(*types.GuildBlocklist)(nil),
		}

		for _, model := range models {
			_, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table: %w", err)
			}
		}

		// Lookup indexes for the hot read paths
		indexes := []struct {
			name  string
			table string
			cols  string
		}{
			{"flagged_links_url_created_at_idx", "flagged_links", "url, created_at"},
			{"guild_settings_guild_id_idx", "guild_settings", "guild_id"},
			{"guild_blocklists_guild_id_idx", "guild_blocklists", "guild_id"},
			{"guild_blocklists_guild_id_flag_id_idx", "guild_blocklists", "guild_id, flag_id"},
		}

		for _, idx := range indexes {
			_, err := db.NewRaw(fmt.Sprintf(
				"CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
				idx.name, idx.table, idx.cols)).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create index %s: %w", idx.name, err)
			}
		}

		_, err := db.NewRaw(
			"ALTER TABLE guild_blocklists ADD CONSTRAINT guild_blocklists_flag_id_fkey " +
				"FOREIGN KEY (flag_id) REFERENCES flagged_links (id)").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to add flag_id foreign key: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		tables := []string{"guild_blocklists", "guild_settings", "flagged_links"}

		for _, table := range tables {
			_, err := db.NewRaw(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop table %s: %w", table, err)
			}
		}

		return nil
	})
}
