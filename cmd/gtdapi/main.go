package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/terzigolu/gtd-go/api"
	"github.com/terzigolu/gtd-go/internal/gtd"
	"github.com/terzigolu/gtd-go/pkg/config"
	"github.com/terzigolu/gtd-go/pkg/repository"
)

// Version will be set during build with ldflags
var Version = "1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "gtdapi",
		Short:   "GTD task management API",
		Version: Version,
	}
	rootCmd.AddCommand(serveCmd(), cronCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

type app struct {
	cfg *config.Config
	svc *gtd.Service
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	db, err := repository.NewDatabase(cfg)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, svc: gtd.NewService(db)}, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := repository.NewDatabase(cfg)
			if err != nil {
				return err
			}
			svc := gtd.NewService(db)
			log.Printf("listening on %s", cfg.ServerAddr())
			return api.NewRouter(db, svc).Run(cfg.ServerAddr())
		},
	}
}

// cronCmd groups the periodic sweeps so an external scheduler can invoke
// them out-of-band. Every sweep is idempotent; rerunning converges.
func cronCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cron",
		Short: "Run periodic task sweeps",
	}
	cmd.AddCommand(
		sweepCmd("focus-due", "Set focus on active tasks due today or earlier", func(a *app) (int64, error) {
			return a.svc.SweepFocusDueToday()
		}),
		sweepCmd("overdue", "Mark active tasks past their due date as overdue", func(a *app) (int64, error) {
			return a.svc.SweepOverdue()
		}),
		sweepCmd("promote-waiting", "Move waiting tasks whose time has come to anytime", func(a *app) (int64, error) {
			return a.svc.SweepPromoteWaiting()
		}),
		sweepCmd("all", "Run every sweep once", func(a *app) (int64, error) {
			var total int64
			for _, sweep := range []func() (int64, error){
				a.svc.SweepFocusDueToday,
				a.svc.SweepOverdue,
				a.svc.SweepPromoteWaiting,
			} {
				n, err := sweep()
				if err != nil {
					return total, err
				}
				total += n
			}
			return total, nil
		}),
	)
	return cmd
}

func sweepCmd(use, short string, run func(*app) (int64, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			n, err := run(a)
			if err != nil {
				return err
			}
			log.Printf("%s: %d task(s) updated", use, n)
			return nil
		},
	}
}
