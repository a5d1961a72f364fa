package cli

import (
	"github.com/spf13/cobra"

	"dbforge/internal/migration"
	"dbforge/internal/parser/toml"
)

const (
	actionCreate = toml.ActionCreate
	actionAlter  = toml.ActionAlter
	actionDrop   = toml.ActionDrop
)

var scaffoldShort = map[toml.Action]string{
	actionCreate: "Scaffold a migration that creates a table",
	actionAlter:  "Scaffold a migration that alters a table",
	actionDrop:   "Scaffold a migration that drops a table",
}

func (a *App) scaffoldCommand(action toml.Action) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   string(action) + " <table>",
		Short: scaffoldShort[action],
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = a.cfg.MigrationsDir
			}
			path, err := migration.WriteScaffold(dir, action, args[0], a.Now())
			if err != nil {
				return err
			}
			a.logger.Debug("scaffolded migration", "action", string(action), "table", args[0], "path", path)
			a.success("Created %s", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Migrations directory (default: migrations_dir from the config)")
	return cmd
}
