// Package calagent assembles a conversational calendar assistant on top of
// the Cal.com API. It wires an agent, its model and the calendar tools to a
// session store so multi-turn conversations keep their context.
package calagent

import (
	"context"
	"fmt"

	"github.com/hupe1980/calagent/agent"
	"github.com/hupe1980/calagent/core"
	"github.com/hupe1980/calagent/logging"
	"github.com/hupe1980/calagent/session"
)

// Options configures the assistant.
type Options struct {
	// Sessions stores conversation transcripts. Defaults to an in-memory store.
	Sessions core.SessionStore

	// Logger is used for structured diagnostics.
	Logger logging.Logger
}

// Assistant binds an agent to persistent conversation sessions. Each Chat
// call appends the user message to the session transcript, runs the agent
// over the accumulated history and persists everything the agent produced.
type Assistant struct {
	agent    *agent.Agent
	sessions core.SessionStore
	logger   logging.Logger
}

// New creates an assistant around the given agent.
func New(a *agent.Agent, optFns ...func(o *Options)) *Assistant {
	opts := Options{
		Sessions: session.NewInMemoryStore(),
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Assistant{
		agent:    a,
		sessions: opts.Sessions,
		logger:   opts.Logger,
	}
}

// Chat processes one user message within the identified session and returns
// the assistant's final text answer. Intermediate tool activity is persisted
// in the session transcript but not returned.
func (as *Assistant) Chat(ctx context.Context, sessionID, text string) (string, error) {
	if text == "" {
		return "", fmt.Errorf("chat text must not be empty")
	}

	sess, err := as.sessions.Get(sessionID)
	if err != nil {
		return "", fmt.Errorf("load session %s: %w", sessionID, err)
	}

	userContent := core.NewUserContent(text)
	if err := as.sessions.AppendTurn(sessionID, core.NewTurn(userContent)); err != nil {
		return "", fmt.Errorf("append user turn: %w", err)
	}

	as.logger.Debug("chat.start", "session_id", sessionID, "turns", len(sess.GetTurns()))

	result, err := as.agent.Run(ctx, sessionID, sess.History())
	if err != nil {
		return "", fmt.Errorf("run agent: %w", err)
	}

	for _, c := range result.Produced {
		if err := as.sessions.AppendTurn(sessionID, core.NewTurn(c)); err != nil {
			return "", fmt.Errorf("append agent turn: %w", err)
		}
	}

	as.logger.Info("chat.done", "session_id", sessionID, "produced", len(result.Produced))

	return result.Text, nil
}

// Session returns the transcript container for the given session ID, creating
// it when absent.
func (as *Assistant) Session(sessionID string) (*core.Session, error) {
	return as.sessions.Get(sessionID)
}
