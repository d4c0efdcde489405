// Command inject-message seeds a synthetic inbound message into the
// nanoclaw store, for testing triggers without a live chat.
//
//	inject-message [chatJID] [messageText]
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
)

func main() {
	os.Exit(cli.Run(context.Background(), newCommand(time.Now), os.Args[1:]))
}

func newCommand(now func() time.Time) *cobra.Command {
	v := viper.New()
	var id string

	cmd := &cobra.Command{
		Use:   "inject-message [chatJID] [messageText]",
		Short: "Insert a synthetic message and refresh the chat's activity time",
		Long: `Insert a synthetic inbound message into the nanoclaw store.

The chat defaults to ` + seed.DefaultChatJID + ` and the text to "` + seed.DefaultMessage + `".
A message with the same id is replaced; by default the id is derived from the
current time.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(v)
			cli.SetupLogging(cmd.ErrOrStderr(), cfg.LogLevel)

			in := seed.Injection{
				ChatJID: seed.DefaultChatJID,
				Content: seed.DefaultMessage,
				ID:      id,
			}
			if len(args) > 0 {
				in.ChatJID = args[0]
			}
			if len(args) > 1 {
				in.Content = args[1]
			}

			store, err := db.Open(cmd.Context(), cfg.DBPath())
			if err != nil {
				return err
			}
			defer store.Close()

			msg, err := seed.InjectMessage(cmd.Context(), store, in, now())
			if err != nil {
				return err
			}
			report.New(cmd.OutOrStdout()).Injection(msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "message id to write (replaces an existing message with that id)")
	cli.BindCommonFlags(cmd, v)
	return cmd
}
