package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const tokenEnv = "FORMFLOW_TOKEN"

func tokenFlag(cmd *cobra.Command, token *string) {
	cmd.Flags().StringVar(token, "token", "", "access token (default: $"+tokenEnv+")")
}

func resolveToken(token string) string {
	if token != "" {
		return token
	}
	return os.Getenv(tokenEnv)
}

func newCreateCmd(opts *rootOptions) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a furniture item interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, _, err := opts.load()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			path, err := app.CreateFurniture(ctx, newSession(cmd), resolveToken(token))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created. Catalog: %s\n", path)
			return nil
		},
	}
	tokenFlag(cmd, &token)
	return cmd
}

func newEditCmd(opts *rootOptions) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a furniture item interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, _, err := opts.load()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			path, err := app.EditFurniture(ctx, newSession(cmd), resolveToken(token), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved. Catalog: %s\n", path)
			return nil
		},
	}
	tokenFlag(cmd, &token)
	return cmd
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Register a user interactively and print the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, _, err := opts.load()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			user, _, err := app.RegisterUser(ctx, newSession(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n%s=%s\n", user.Email, tokenEnv, user.AccessToken)
			return nil
		},
	}
}
