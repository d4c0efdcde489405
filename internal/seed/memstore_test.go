package seed

import (
	"context"
	"fmt"

	"github.com/linkerlin/nanoclaw-brain/internal/types"
)

// memStore is an in-memory MessageStore and GroupStore with the same
// conflict semantics as the SQLite store.
type memStore struct {
	calls    int
	chats    map[string]types.Chat
	messages map[string]types.Message
	groups   map[string]types.RegisteredGroup

	failChat  error
	failGroup error
}

func newMemStore() *memStore {
	return &memStore{
		chats:    make(map[string]types.Chat),
		messages: make(map[string]types.Message),
		groups:   make(map[string]types.RegisteredGroup),
	}
}

func (s *memStore) EnsureMessageSchema(context.Context) error {
	s.calls++
	return nil
}

func (s *memStore) EnsureGroupSchema(context.Context) error {
	s.calls++
	return nil
}

func (s *memStore) SaveMessage(_ context.Context, m types.Message) error {
	s.calls++
	s.messages[m.ID] = m
	return nil
}

func (s *memStore) UpsertChat(_ context.Context, c types.Chat) error {
	s.calls++
	if s.failChat != nil {
		return s.failChat
	}
	if existing, ok := s.chats[c.JID]; ok {
		existing.LastMessageTime = c.LastMessageTime
		s.chats[c.JID] = existing
		return nil
	}
	s.chats[c.JID] = c
	return nil
}

func (s *memStore) RegisterGroup(_ context.Context, g types.RegisteredGroup) error {
	s.calls++
	if s.failGroup != nil {
		return s.failGroup
	}
	for jid, other := range s.groups {
		if jid != g.JID && other.Folder == g.Folder {
			return fmt.Errorf("UNIQUE constraint failed: registered_groups.folder")
		}
	}
	s.groups[g.JID] = g
	return nil
}
