package cmd

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"steganography/config"
	"steganography/handlers"
)

func newServeCmd(a *app) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gin.SetMode(gin.ReleaseMode)
			router := handlers.NewRouter(a.cfg.Server, log.Logger)

			addr := fmt.Sprintf(":%d", a.cfg.Server.Port)
			log.Info().
				Str("addr", addr).
				Strs("allow_origins", a.cfg.Server.AllowOrigins).
				Int64("max_upload_mb", a.cfg.Server.MaxUploadMB).
				Msg("server starting")

			if err := router.Run(addr); err != nil {
				return fmt.Errorf("failed to start server: %w", err)
			}
			return nil
		},
	}

	serveCmd.Flags().Int("port", config.DefaultPort, "listen port (env STEGO_SERVER_PORT or PORT)")
	serveCmd.Flags().Int64("max-upload-mb", config.DefaultMaxUploadMB, "multipart upload limit in MiB")
	_ = a.v.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = a.v.BindPFlag("server.max-upload-mb", serveCmd.Flags().Lookup("max-upload-mb"))

	return serveCmd
}
