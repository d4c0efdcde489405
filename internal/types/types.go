package types

import (
	"strings"
	"time"
)

// TelegramPrefix namespaces Telegram chat JIDs, e.g. "tg:5026821928".
const TelegramPrefix = "tg:"

// Chat is the per-conversation row the host keeps activity state on.
type Chat struct {
	JID             string
	Name            string
	LastMessageTime time.Time
	Channel         string
	IsGroup         bool
}

// Message represents an inbound or outbound chat message.
type Message struct {
	ID           string
	ChatJID      string
	Sender       string
	SenderName   string
	Content      string
	Timestamp    time.Time
	IsFromMe     bool
	IsBotMessage bool
}

// RegisteredGroup maps a chat to its trigger policy and container template.
type RegisteredGroup struct {
	JID             string
	Name            string
	Folder          string
	TriggerPattern  string
	AddedAt         time.Time
	ContainerConfig *ContainerConfig
	RequiresTrigger bool
}

// ContainerConfig is the execution-environment template consumed by the
// container runtime. The JSON shape is owned by the runtime.
type ContainerConfig struct {
	AdditionalMounts []AdditionalMount `json:"additionalMounts"`
	GitSync          *GitSync          `json:"gitSync,omitempty"`
}

// AdditionalMount is one host directory exposed under /workspace/extra.
type AdditionalMount struct {
	HostPath      string `json:"hostPath"`
	ContainerPath string `json:"containerPath"`
	Readonly      bool   `json:"readonly"`
}

// GitSync asks the host to pull RepoPath before a run and push after writes.
type GitSync struct {
	RepoPath string `json:"repoPath"`
}

// HasChannelPrefix reports whether jid is namespaced by prefix and carries
// an identifier after it.
func HasChannelPrefix(jid, prefix string) bool {
	return strings.HasPrefix(jid, prefix) && len(jid) > len(prefix)
}
