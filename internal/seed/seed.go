// Package seed creates and updates the chat, message and registration rows
// the nanoclaw host reads.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linkerlin/nanoclaw-brain/internal/container"
	"github.com/linkerlin/nanoclaw-brain/internal/types"
)

// Defaults used when the seeder is invoked without arguments.
const (
	DefaultChatJID    = "tg:5026821928"
	DefaultMessage    = "test message"
	DefaultSenderName = "Jon"
	DefaultChatName   = "Jon's Brain"
	DefaultChannel    = "telegram"
)

// Brain registration values.
const (
	BrainName    = "Jon's Brain"
	BrainFolder  = "brain"
	BrainTrigger = "@Brain"
)

// MessageStore is the part of the store the seeder writes to.
type MessageStore interface {
	EnsureMessageSchema(ctx context.Context) error
	SaveMessage(ctx context.Context, m types.Message) error
	UpsertChat(ctx context.Context, c types.Chat) error
}

// GroupStore is the part of the store the registrar writes to.
type GroupStore interface {
	EnsureGroupSchema(ctx context.Context) error
	RegisterGroup(ctx context.Context, g types.RegisteredGroup) error
}

// UsageError reports missing or malformed command input. Hints tell the
// user how to fix it.
type UsageError struct {
	Msg   string
	Hints []string
}

func (e *UsageError) Error() string { return e.Msg }

// Injection describes a synthetic inbound message.
type Injection struct {
	ChatJID string
	Content string
	// ID replaces the generated "inject-<millis>" identifier when set.
	ID string
}

// MessageID returns the identifier an injection at now receives.
func MessageID(now time.Time) string {
	return fmt.Sprintf("inject-%d", now.UnixMilli())
}

// InjectMessage stores in as a message from the chat itself and refreshes
// the chat's last activity. The two writes are not atomic: if the chat
// upsert fails the message stays committed.
func InjectMessage(ctx context.Context, store MessageStore, in Injection, now time.Time) (types.Message, error) {
	id := in.ID
	if id == "" {
		id = MessageID(now)
	}
	msg := types.Message{
		ID:         id,
		ChatJID:    in.ChatJID,
		Sender:     in.ChatJID,
		SenderName: DefaultSenderName,
		Content:    in.Content,
		Timestamp:  now,
	}

	if err := store.EnsureMessageSchema(ctx); err != nil {
		return types.Message{}, err
	}
	if err := store.SaveMessage(ctx, msg); err != nil {
		return types.Message{}, fmt.Errorf("inject message %s: %w", id, err)
	}
	chat := types.Chat{
		JID:             in.ChatJID,
		Name:            DefaultChatName,
		LastMessageTime: now,
		Channel:         DefaultChannel,
	}
	if err := store.UpsertChat(ctx, chat); err != nil {
		return types.Message{}, fmt.Errorf("touch chat %s: %w", in.ChatJID, err)
	}

	slog.Debug("injected message", "id", id, "jid", in.ChatJID)
	return msg, nil
}

// RegistrarUsage is the usage line of the registrar command.
const RegistrarUsage = "register-brain tg:YOUR_CHAT_ID"

// ValidateChatJID checks that jid is present and namespaced by prefix.
func ValidateChatJID(jid, prefix string) error {
	if types.HasChannelPrefix(jid, prefix) {
		return nil
	}
	msg := "missing chat id"
	if jid != "" {
		msg = fmt.Sprintf("chat id %q must start with %q", jid, prefix)
	}
	return &UsageError{
		Msg: msg,
		Hints: []string{
			"Usage: " + RegistrarUsage,
			"",
			"Get your chat ID by sending /chatid to your bot in Telegram.",
			"Set BRAIN_REPO_PATH env var to override brain repo location (default: ~/src/mylife/brain)",
		},
	}
}

// Registration is a chat-to-container mapping waiting to be stored.
type Registration struct {
	JID             string
	Name            string
	Folder          string
	TriggerPattern  string
	RequiresTrigger bool
	Container       *types.ContainerConfig
}

// BrainRegistration maps jid to the brain workspace: every message is
// processed, the brain repo at repoPath is mounted and git-synced, and the
// Google credentials under credsDir are mounted writable.
func BrainRegistration(jid, repoPath, credsDir string) Registration {
	return Registration{
		JID:             jid,
		Name:            BrainName,
		Folder:          BrainFolder,
		TriggerPattern:  BrainTrigger,
		RequiresTrigger: false,
		Container:       container.Build(repoPath, container.BrainMounts(credsDir), true),
	}
}

// Register validates reg.JID against prefix, ensures the registration table
// exists and stores reg, replacing any earlier registration of the same
// chat. The store is not touched when validation fails.
func Register(ctx context.Context, store GroupStore, reg Registration, prefix string, now time.Time) (types.RegisteredGroup, error) {
	if err := ValidateChatJID(reg.JID, prefix); err != nil {
		return types.RegisteredGroup{}, err
	}

	g := types.RegisteredGroup{
		JID:             reg.JID,
		Name:            reg.Name,
		Folder:          reg.Folder,
		TriggerPattern:  reg.TriggerPattern,
		AddedAt:         now,
		ContainerConfig: reg.Container,
		RequiresTrigger: reg.RequiresTrigger,
	}
	if err := store.EnsureGroupSchema(ctx); err != nil {
		return types.RegisteredGroup{}, err
	}
	if err := store.RegisterGroup(ctx, g); err != nil {
		return types.RegisteredGroup{}, fmt.Errorf("register %s as %s: %w", g.JID, g.Folder, err)
	}

	slog.Debug("registered group", "jid", g.JID, "folder", g.Folder, "requires_trigger", g.RequiresTrigger)
	return g, nil
}
