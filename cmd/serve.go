package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/clip2md/core/normalize"
	"github.com/gaurav-prasanna/clip2md/server"
)

var (
	flagAddr      string
	flagStaticDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP conversion endpoint",
	Long: `Serve exposes POST /convert, accepting {"html": "..."} and answering
{"markdown": "..."}, together with /healthz and /metrics. With --static_dir
the paste page in that directory is served as well.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			conf.Server.Addr = flagAddr
		}
		if cmd.Flags().Changed("static_dir") {
			conf.Server.StaticDir = flagStaticDir
		}
		if err := conf.Validate(); err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(conf.Server, normalize.New(nil, conf.Options), slog.Default())
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides config, default :3000)")
	serveCmd.Flags().StringVar(&flagStaticDir, "static_dir", "", "Directory of static files to serve (overrides config)")
}
