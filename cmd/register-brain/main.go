// Command register-brain registers a Telegram chat as the "brain" group:
// every message is processed without a trigger, the brain repo is mounted
// into the agent container and git-synced around each run.
//
//	register-brain tg:YOUR_CHAT_ID
//
// Send /chatid to the bot in Telegram to learn the chat id. BRAIN_REPO_PATH
// overrides the brain repo location.
package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/linkerlin/nanoclaw-brain/internal/cli"
	"github.com/linkerlin/nanoclaw-brain/internal/config"
	"github.com/linkerlin/nanoclaw-brain/internal/db"
	"github.com/linkerlin/nanoclaw-brain/internal/report"
	"github.com/linkerlin/nanoclaw-brain/internal/seed"
	"github.com/linkerlin/nanoclaw-brain/internal/types"
)

func main() {
	os.Exit(cli.Run(context.Background(), newCommand(time.Now), os.Args[1:]))
}

func newCommand(now func() time.Time) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "register-brain <chatJID>",
		Short: "Register a Telegram chat as the brain group",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var jid string
			if len(args) > 0 {
				jid = args[0]
			}
			// Reject bad input before the store is opened.
			if err := seed.ValidateChatJID(jid, types.TelegramPrefix); err != nil {
				return err
			}

			cfg := config.Load(v)
			cli.SetupLogging(cmd.ErrOrStderr(), cfg.LogLevel)

			store, err := db.Open(cmd.Context(), cfg.DBPath())
			if err != nil {
				return err
			}
			defer store.Close()

			reg := seed.BrainRegistration(jid, cfg.BrainRepo, cfg.CredsDir)
			g, err := seed.Register(cmd.Context(), store, reg, types.TelegramPrefix, now())
			if err != nil {
				return err
			}
			report.New(cmd.OutOrStdout()).Registration(g, cfg.BrainRepo)
			return nil
		},
	}

	cli.BindCommonFlags(cmd, v)
	return cmd
}
