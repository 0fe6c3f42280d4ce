package cmd

import (
	"context"
	"fmt"

	"stock-manager/feature/backup"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// backupCmd is the parent command for backup operations.
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage remote catalog snapshots",
	Long:  `Create, list and restore full-catalog snapshots stored in the backup bucket.`,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Take a snapshot and upload it",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, l, err := initBackend()
		if err != nil {
			return err
		}
		defer l.Sync()

		info, err := backend.CreateBackup(context.Background())
		if err != nil {
			return err
		}
		l.Info("Backup created", zap.String("object", info.Name), zap.Int64("bytes", info.Size))
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, l, err := initBackend()
		if err != nil {
			return err
		}
		defer l.Sync()

		infos, err := backend.ListBackups(context.Background())
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("No backups found.")
			return nil
		}
		for _, info := range infos {
			fmt.Printf("%s\t%d bytes\t%s\n", info.Name, info.Size, info.Modified.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [name]",
	Short: "Restore a snapshot (newest when no name is given)",
	Long: `Restores a snapshot, replacing the entire catalog. Without a name the most
recent snapshot is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, l, err := initBackend()
		if err != nil {
			return err
		}
		defer l.Sync()

		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		if err := backend.RestoreBackup(context.Background(), name); err != nil {
			return err
		}
		l.Info("Restore completed", zap.String("name", name))
		return nil
	},
}

func init() {
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	RootCmd.AddCommand(backupCmd)
}

// initBackend builds the configured backup backend plus the logger the
// command should log through.
func initBackend() (backup.Backend, *zap.Logger, error) {
	rt, err := initRuntime()
	if err != nil {
		return nil, nil, err
	}
	engine := backup.NewEngine(rt.db, rt.logger)
	backend, err := backup.NewBackend(rt.cfg.Backup, rt.cfg.Storage, engine, rt.logger)
	if err != nil {
		_ = rt.logger.Sync()
		return nil, nil, err
	}
	return backend, rt.logger, nil
}
