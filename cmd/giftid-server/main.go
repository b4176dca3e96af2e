// Command giftid-server runs the gift id generator behind an HTTP API.
// Flags follow the shape of sarchlab-akita's cobra root command, adapted
// from a subcommand tree to a single command with its own flags since this
// service has exactly one job.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"giftid/internal/config"
	"giftid/internal/giftid"
	"giftid/internal/httpapi"
	"giftid/internal/logger"
	"giftid/internal/profile"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		workshopID int
		port       int
		host       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "giftid-server",
		Short: "Serves the workshop fleet's gift id generator over HTTP.",
		Long: `giftid-server runs a stateless 64-bit gift id generator for a single ` +
			`workshop instance and exposes it over HTTP: generate, decode, and health.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyConfigDefaults(cmd, cfg, &workshopID, &port, &host)

			return run(workshopID, port, host)
		},
	}

	cmd.Flags().IntVar(&workshopID, "workshop-id", 1, "workshop id in [0, 1023], baked into every minted id")
	cmd.Flags().IntVar(&port, "port", 8080, "TCP port to bind")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "bind address")
	cmd.Flags().StringVar(&configPath, "config", "", "optional YAML file with workshop-id/port/host defaults, overridden by any flag set explicitly")

	return cmd
}

// applyConfigDefaults lets a loaded config file supply defaults for any of
// the three flags the operator did not pass explicitly on the command
// line. Flags always win: this only fills in what was left at its
// zero-flag default.
func applyConfigDefaults(cmd *cobra.Command, cfg *config.Config, workshopID, port *int, host *string) {
	if cfg == nil {
		return
	}
	if !cmd.Flags().Changed("workshop-id") && cfg.WorkshopID != nil {
		*workshopID = *cfg.WorkshopID
	}
	if !cmd.Flags().Changed("port") && cfg.Port != nil {
		*port = *cfg.Port
	}
	if !cmd.Flags().Changed("host") && cfg.Host != nil {
		*host = *cfg.Host
	}
}

func run(workshopID, port int, host string) error {
	profile.StartPprof()

	logger.Init()
	defer logger.Sync()

	if workshopID < 0 || workshopID > 1023 {
		return fmt.Errorf("--workshop-id must be in [0, 1023], got %d", workshopID)
	}

	gen, err := giftid.NewGenerator(uint16(workshopID))
	if err != nil {
		return err
	}

	srv := httpapi.New(gen)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	addr := fmt.Sprintf("%s:%d", host, port)
	logger.L().Infow("starting gift id server", "addr", addr, "workshop_id", workshopID)

	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.L().Info("gift id server shut down cleanly")
	return nil
}
