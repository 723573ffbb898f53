package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"screenbot/internal/model"
	"screenbot/internal/service"
)

func newTokenCmd() *cobra.Command {
	var (
		candidate model.Candidate
		secret    string
		ttl       time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a chat token for the WebSocket transport",
		Long: `Issue a signed chat token. Clients connect to /v1/ws/chat?token=<token>;
the admin adds chat=<id> to attach to the alert chat.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if candidate.UserID == 0 {
				return errors.New("--user-id is required")
			}
			if secret == "" {
				return errors.New("CHAT_TOKEN_SECRET or --secret is required")
			}
			authSvc := service.NewAuthService(secret, 0, "", ttl)
			token, err := authSvc.GenerateChatToken(candidate)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().Int64Var(&candidate.UserID, "user-id", 0, "Chat user ID")
	cmd.Flags().StringVar(&candidate.Username, "username", "", "Handle, without @")
	cmd.Flags().StringVar(&candidate.FullName, "full-name", "", "Display name")
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("CHAT_TOKEN_SECRET"), "Signing secret")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
