package app

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"rights-arcade/internal/domain"
)

// AnonymousAuthor is used when a post has no author name.
const AnonymousAuthor = "Anonymous"

// ForumService keeps each profile's message list in memory and writes it
// back a short while after the last change.
type ForumService struct {
	kv    KVStore
	delay time.Duration
	now   func() time.Time

	mu     sync.Mutex
	boards map[string]*forumBoard
}

type forumBoard struct {
	messages []domain.ForumMessage
	lastID   int64
	dirty    bool
	timer    *time.Timer
}

func NewForumService(kv KVStore, flushDelay time.Duration) *ForumService {
	return &ForumService{
		kv:     kv,
		delay:  flushDelay,
		now:    time.Now,
		boards: make(map[string]*forumBoard),
	}
}

// Messages returns the profile's messages, oldest first.
func (f *ForumService) Messages(ctx context.Context, profile string) []domain.ForumMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneMessages(f.boardLocked(ctx, profile).messages)
}

// Post adds a message, or a reply when replyTo is non-zero. Replies to replies
// attach to the top-level parent.
func (f *ForumService) Post(ctx context.Context, profile, author, text string, replyTo int64) (domain.ForumMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ForumMessage{}, domain.ErrEmptyMessage
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = AnonymousAuthor
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	board := f.boardLocked(ctx, profile)
	now := f.now()
	id := now.UnixMilli()
	if id <= board.lastID {
		id = board.lastID + 1
	}
	msg := domain.ForumMessage{ID: id, Author: author, Text: text, Timestamp: now, Replies: []domain.ForumMessage{}}

	if replyTo == 0 {
		board.messages = append(board.messages, msg)
	} else {
		parent := topLevelIndex(board.messages, replyTo)
		if parent < 0 {
			return domain.ForumMessage{}, domain.ErrMessageNotFound
		}
		msg.Replies = nil
		board.messages[parent].Replies = append(board.messages[parent].Replies, msg)
	}
	board.lastID = id
	f.scheduleLocked(profile, board)
	return msg, nil
}

// Flush writes every pending board now.
func (f *ForumService) Flush(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var firstErr error
	for profile, board := range f.boards {
		if board.timer != nil {
			board.timer.Stop()
			board.timer = nil
		}
		if err := f.writeLocked(ctx, profile, board); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *ForumService) boardLocked(ctx context.Context, profile string) *forumBoard {
	if board, ok := f.boards[profile]; ok {
		return board
	}
	board := &forumBoard{}
	if msgs, ok := readJSON[[]domain.ForumMessage](ctx, f.kv, profile, KeyForumMessages); ok {
		board.messages = msgs
	}
	for _, m := range board.messages {
		board.lastID = max(board.lastID, m.ID)
		for _, r := range m.Replies {
			board.lastID = max(board.lastID, r.ID)
		}
	}
	f.boards[profile] = board
	return board
}

func (f *ForumService) scheduleLocked(profile string, board *forumBoard) {
	board.dirty = true
	if board.timer != nil {
		board.timer.Stop()
	}
	board.timer = time.AfterFunc(f.delay, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if err := f.writeLocked(context.Background(), profile, board); err != nil {
			log.Printf("forum flush for %s failed: %v", profile, err)
		}
	})
}

func (f *ForumService) writeLocked(ctx context.Context, profile string, board *forumBoard) error {
	if !board.dirty {
		return nil
	}
	if err := writeJSON(ctx, f.kv, profile, KeyForumMessages, board.messages); err != nil {
		return err
	}
	board.dirty = false
	return nil
}

func topLevelIndex(messages []domain.ForumMessage, id int64) int {
	for i, m := range messages {
		if m.ID == id {
			return i
		}
		for _, r := range m.Replies {
			if r.ID == id {
				return i
			}
		}
	}
	return -1
}

func cloneMessages(in []domain.ForumMessage) []domain.ForumMessage {
	out := make([]domain.ForumMessage, len(in))
	for i, m := range in {
		out[i] = m
		out[i].Replies = append([]domain.ForumMessage{}, m.Replies...)
	}
	return out
}
