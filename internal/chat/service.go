package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tayyargsayer/projectgen/internal/genai"
	"github.com/tayyargsayer/projectgen/internal/logger"
	"github.com/tayyargsayer/projectgen/internal/metrics"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("chat session not found")

// assistantFailureNotice is appended as the assistant turn when the model
// call fails, so the history keeps alternating user/assistant pairs.
const assistantFailureNotice = "Sorry, I could not produce an answer just now. Please try sending your question again."

// ChatGenerator is the slice of the AI client the chat service needs.
type ChatGenerator interface {
	Chat(ctx context.Context, system string, turns []genai.Turn, opts genai.Options) (*genai.Result, error)
}

// Service runs follow-up conversations about generated guides.
type Service struct {
	ai            ChatGenerator
	sessions      *SessionManager
	maxMessageLen int
	logger        *logger.Logger
}

func NewService(ai ChatGenerator, sessions *SessionManager, maxMessageLen int, log *logger.Logger) *Service {
	return &Service{
		ai:            ai,
		sessions:      sessions,
		maxMessageLen: maxMessageLen,
		logger:        log.WithComponent("chat"),
	}
}

// CreateSession opens a new conversation, optionally anchored to a guide.
func (s *Service) CreateSession(projectContext string) *Session {
	return s.sessions.Create(projectContext)
}

// Session returns an existing session.
func (s *Service) Session(id string) (*Session, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// RemoveSession deletes a session.
func (s *Service) RemoveSession(id string) error {
	if !s.sessions.Remove(id) {
		return ErrSessionNotFound
	}
	return nil
}

// SendMessage appends the user message, asks the model for a reply in the
// session's project context, and appends the reply. The history always grows
// by exactly two messages per call that reaches the model: on failure a
// fixed failure notice takes the assistant slot.
func (s *Service) SendMessage(ctx context.Context, sessionID, text string) (Message, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return Message{}, ErrSessionNotFound
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, fmt.Errorf("%w: message must not be empty", genai.ErrInvalidRequest)
	}
	if utf8.RuneCountInString(text) > s.maxMessageLen {
		return Message{}, fmt.Errorf("%w: message is too long (at most %d characters)", genai.ErrInvalidRequest, s.maxMessageLen)
	}

	// One exchange at a time per session: the history snapshot, the model
	// call and the append pair must not interleave with another send.
	session.sendMu.Lock()
	defer session.sendMu.Unlock()

	turns := historyTurns(session.History())
	turns = append(turns, genai.Turn{Role: genai.RoleUser, Text: text})

	ctx = logger.WithSessionID(ctx, sessionID)
	res, err := s.ai.Chat(ctx, BuildSystemPrompt(session.ProjectContext), turns, genai.DefaultOptions())

	session.Append(RoleUser, text)
	if err != nil {
		session.Append(RoleAssistant, assistantFailureNotice)
		metrics.ChatMessagesTotal.WithLabelValues(metrics.OutcomeGenerationError).Inc()
		s.logger.LogError(ctx, err, "chat reply failed", "session_id", sessionID)
		return Message{}, err
	}

	reply := session.Append(RoleAssistant, res.Text)
	metrics.ChatMessagesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.logger.InfoContext(ctx, "chat reply produced",
		"session_id", sessionID,
		"history_length", session.Len(),
		"completion_tokens", res.Usage.CompletionTokens,
	)
	return reply, nil
}

func historyTurns(history []Message) []genai.Turn {
	turns := make([]genai.Turn, 0, len(history)+1)
	for _, msg := range history {
		role := genai.RoleUser
		if msg.Role == RoleAssistant {
			role = genai.RoleModel
		}
		turns = append(turns, genai.Turn{Role: role, Text: msg.Content})
	}
	return turns
}
