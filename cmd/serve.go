package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papergraph/papergraph/interact"
	"github.com/papergraph/papergraph/physics"
	"github.com/papergraph/papergraph/render"
	"github.com/papergraph/papergraph/server"
)

var serveFlags struct {
	addr   string
	width  float64
	height float64
	kMin   float64
	kMax   float64
	seed   int64
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve interactive visualization sessions over WebSocket",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		physCfg := physics.DefaultConfig()
		physCfg.Width = serveFlags.width
		physCfg.Height = serveFlags.height
		physCfg.Seed = serveFlags.seed

		interCfg := interact.DefaultInteractConfig()
		interCfg.KMin = serveFlags.kMin
		interCfg.KMax = serveFlags.kMax

		opts := render.DefaultOptions()
		opts.Width = serveFlags.width
		opts.Height = serveFlags.height

		srv := server.New(server.Config{
			Physics:  physCfg,
			Interact: interCfg,
			Render:   opts,
		}, logger)
		return srv.Start(ctx, serveFlags.addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", ":8080", "listen address")
	serveCmd.Flags().Float64Var(&serveFlags.width, "width", 800, "canvas width")
	serveCmd.Flags().Float64Var(&serveFlags.height, "height", 600, "canvas height")
	serveCmd.Flags().Float64Var(&serveFlags.kMin, "zoom-min", 0.1, "minimum zoom scale")
	serveCmd.Flags().Float64Var(&serveFlags.kMax, "zoom-max", 4, "maximum zoom scale")
	serveCmd.Flags().Int64Var(&serveFlags.seed, "seed", 1, "layout seed")
	rootCmd.AddCommand(serveCmd)
}
