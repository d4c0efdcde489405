package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasChannelPrefix(t *testing.T) {
	tests := []struct {
		name string
		jid  string
		want bool
	}{
		{name: "telegram dm", jid: "tg:5026821928", want: true},
		{name: "negative group id", jid: "tg:-100123", want: true},
		{name: "bare prefix", jid: "tg:", want: false},
		{name: "no prefix", jid: "bad-id", want: false},
		{name: "whatsapp jid", jid: "123@s.whatsapp.net", want: false},
		{name: "prefix not leading", jid: "x-tg:123", want: false},
		{name: "empty", jid: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, HasChannelPrefix(tt.jid, TelegramPrefix))
		})
	}
}

func TestContainerConfig_JSONShape(t *testing.T) {
	cfg := ContainerConfig{
		AdditionalMounts: []AdditionalMount{
			{HostPath: "/repo/context", ContainerPath: "context", Readonly: false},
		},
		GitSync: &GitSync{RepoPath: "/repo"},
	}

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.JSONEq(t,
		`{"additionalMounts":[{"hostPath":"/repo/context","containerPath":"context","readonly":false}],"gitSync":{"repoPath":"/repo"}}`,
		string(data))

	cfg.GitSync = nil
	data, err = json.Marshal(cfg)
	require.NoError(t, err)
	require.NotContains(t, string(data), "gitSync")
}
