package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/linkerlin/nanoclaw-brain/internal/types"
	_ "modernc.org/sqlite"
)

// TimeLayout is the ISO-8601 form the host writes timestamps in.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// DB wraps a *sql.DB with nanoclaw-specific operations.
type DB struct {
	db *sql.DB
}

// messageSchema mirrors the host's chats and messages tables.
const messageSchema = `
CREATE TABLE IF NOT EXISTS chats (
  jid TEXT PRIMARY KEY,
  name TEXT,
  last_message_time TEXT,
  channel TEXT,
  is_group INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS messages (
  id TEXT PRIMARY KEY,
  chat_jid TEXT,
  sender TEXT,
  sender_name TEXT,
  content TEXT,
  timestamp TEXT,
  is_from_me INTEGER,
  is_bot_message INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages(chat_jid, timestamp);
`

const groupSchema = `
CREATE TABLE IF NOT EXISTS registered_groups (
  jid TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  folder TEXT NOT NULL UNIQUE,
  trigger_pattern TEXT NOT NULL,
  added_at TEXT NOT NULL,
  container_config TEXT,
  requires_trigger INTEGER DEFAULT 1
);
`

// Open opens (or creates) the SQLite database at the given path. Tables are
// not created here; see EnsureMessageSchema and EnsureGroupSchema.
func Open(ctx context.Context, path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &StorageError{Op: "create store dir", Err: err}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &StorageError{Op: "open db", Err: err}
	}
	sqldb.SetMaxOpenConns(1)
	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, &StorageError{Op: "ping db", Err: err}
	}
	slog.Debug("store opened", "path", path)
	return &DB{db: sqldb}, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// EnsureMessageSchema creates the chats and messages tables if absent.
func (d *DB) EnsureMessageSchema(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, messageSchema); err != nil {
		return &StorageError{Op: "create message schema", Err: err}
	}
	return nil
}

// EnsureGroupSchema creates the registered_groups table if absent. An
// existing table is left as is.
func (d *DB) EnsureGroupSchema(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, groupSchema); err != nil {
		return &StorageError{Op: "create group schema", Err: err}
	}
	return nil
}

// SaveMessage inserts a message. A message with the same id is replaced
// entirely.
func (d *DB) SaveMessage(ctx context.Context, m types.Message) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO messages (id, chat_jid, sender, sender_name, content, timestamp, is_from_me, is_bot_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ChatJID, m.Sender, m.SenderName, m.Content, ts(m.Timestamp),
		boolInt(m.IsFromMe), boolInt(m.IsBotMessage),
	)
	return classify("save message", "messages", err)
}

// UpsertChat inserts a chat record. If the chat already exists only its
// last_message_time is refreshed.
func (d *DB) UpsertChat(ctx context.Context, c types.Chat) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO chats (jid, name, last_message_time, channel, is_group)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(jid) DO UPDATE SET last_message_time=excluded.last_message_time`,
		c.JID, c.Name, ts(c.LastMessageTime), c.Channel, boolInt(c.IsGroup),
	)
	return classify("upsert chat", "chats", err)
}

// RegisterGroup inserts or fully replaces the registration for g.JID.
// A folder already held by another jid fails with *ConstraintError and the
// other registration is left untouched.
func (d *DB) RegisterGroup(ctx context.Context, g types.RegisteredGroup) error {
	cfg, err := marshalContainerConfig(g.ContainerConfig)
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx, `
		INSERT INTO registered_groups (jid, name, folder, trigger_pattern, added_at, container_config, requires_trigger)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(jid) DO UPDATE SET
			name=excluded.name,
			folder=excluded.folder,
			trigger_pattern=excluded.trigger_pattern,
			added_at=excluded.added_at,
			container_config=excluded.container_config,
			requires_trigger=excluded.requires_trigger`,
		g.JID, g.Name, g.Folder, g.TriggerPattern, ts(g.AddedAt), cfg, boolInt(g.RequiresTrigger),
	)
	return classify("register group", "registered_groups", err)
}

// GetChat returns the chat with the given jid.
func (d *DB) GetChat(ctx context.Context, jid string) (types.Chat, error) {
	var c types.Chat
	var name, last, channel sql.NullString
	var isGroup sql.NullInt64
	err := d.db.QueryRowContext(ctx, `
		SELECT jid, name, last_message_time, channel, is_group FROM chats WHERE jid = ?`, jid,
	).Scan(&c.JID, &name, &last, &channel, &isGroup)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Chat{}, fmt.Errorf("chat %s: %w", jid, ErrNotFound)
	}
	if err != nil {
		return types.Chat{}, &StorageError{Op: "get chat", Err: err}
	}
	c.Name = name.String
	c.Channel = channel.String
	c.IsGroup = isGroup.Int64 != 0
	c.LastMessageTime = parseTS(last.String)
	return c, nil
}

// GetMessage returns the message with the given id.
func (d *DB) GetMessage(ctx context.Context, id string) (types.Message, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, chat_jid, sender, sender_name, content, timestamp, is_from_me, is_bot_message
		FROM messages WHERE id = ?`, id)
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Message{}, fmt.Errorf("message %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Message{}, &StorageError{Op: "get message", Err: err}
	}
	return m, nil
}

// GetMessages returns the N most recent messages for a chat in
// chronological order.
func (d *DB) GetMessages(ctx context.Context, chatJID string, limit int) ([]types.Message, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, chat_jid, sender, sender_name, content, timestamp, is_from_me, is_bot_message
		FROM messages
		WHERE chat_jid = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, chatJID, limit)
	if err != nil {
		return nil, &StorageError{Op: "get messages", Err: err}
	}
	defer rows.Close()

	var msgs []types.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, &StorageError{Op: "scan message", Err: err}
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "get messages", Err: err}
	}
	// Reverse to chronological order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// GetRegisteredGroup returns the registration for jid.
func (d *DB) GetRegisteredGroup(ctx context.Context, jid string) (types.RegisteredGroup, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT jid, name, folder, trigger_pattern, added_at, container_config, requires_trigger
		FROM registered_groups WHERE jid = ?`, jid)
	g, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.RegisteredGroup{}, fmt.Errorf("registered group %s: %w", jid, ErrNotFound)
	}
	if err != nil {
		return types.RegisteredGroup{}, &StorageError{Op: "get registered group", Err: err}
	}
	return g, nil
}

// GetRegisteredGroups returns all registered groups ordered by jid.
func (d *DB) GetRegisteredGroups(ctx context.Context) ([]types.RegisteredGroup, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT jid, name, folder, trigger_pattern, added_at, container_config, requires_trigger
		FROM registered_groups ORDER BY jid`)
	if err != nil {
		return nil, &StorageError{Op: "get registered groups", Err: err}
	}
	defer rows.Close()

	var groups []types.RegisteredGroup
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, &StorageError{Op: "scan registered group", Err: err}
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "get registered groups", Err: err}
	}
	return groups, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(s scanner) (types.Message, error) {
	var m types.Message
	var chatJID, sender, senderName, content, timestamp sql.NullString
	var fromMe, botMsg sql.NullInt64
	if err := s.Scan(&m.ID, &chatJID, &sender, &senderName, &content, &timestamp, &fromMe, &botMsg); err != nil {
		return types.Message{}, err
	}
	m.ChatJID = chatJID.String
	m.Sender = sender.String
	m.SenderName = senderName.String
	m.Content = content.String
	m.Timestamp = parseTS(timestamp.String)
	m.IsFromMe = fromMe.Int64 != 0
	m.IsBotMessage = botMsg.Int64 != 0
	return m, nil
}

func scanGroup(s scanner) (types.RegisteredGroup, error) {
	var g types.RegisteredGroup
	var addedAt string
	var cfg sql.NullString
	var req sql.NullInt64
	if err := s.Scan(&g.JID, &g.Name, &g.Folder, &g.TriggerPattern, &addedAt, &cfg, &req); err != nil {
		return types.RegisteredGroup{}, err
	}
	g.AddedAt = parseTS(addedAt)
	// A NULL requires_trigger never occurs with the column default, treat
	// it like the default anyway.
	g.RequiresTrigger = !req.Valid || req.Int64 != 0
	if cfg.Valid && cfg.String != "" {
		var cc types.ContainerConfig
		if err := json.Unmarshal([]byte(cfg.String), &cc); err != nil {
			return types.RegisteredGroup{}, fmt.Errorf("decode container_config for %s: %w", g.JID, err)
		}
		g.ContainerConfig = &cc
	}
	return g, nil
}

func marshalContainerConfig(cfg *types.ContainerConfig) (any, error) {
	if cfg == nil {
		return nil, nil
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode container_config: %w", err)
	}
	return string(data), nil
}

func ts(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func parseTS(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
