package main

import (
	"github.com/advdv/shttp/srv"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the demo server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := srv.ParseEnv[Env]()()
			if err != nil {
				return err
			}

			return srv.NewApp[Env](routing,
				srv.WithS3Static(env.StaticPattern),
				srv.WithFx(fx.Invoke(registerRelay)),
			).Start(cmd.Context())
		},
	}
}
