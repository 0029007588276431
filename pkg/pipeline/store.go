package pipeline

import (
	"context"
	"time"

	"gsu-chatbot-be/internal/pkg/logger"
)

// Cache is a hot tier keyed by session id.
type Cache interface {
	Get(ctx context.Context, sessionID string) (*PipelineState, bool)
	Set(ctx context.Context, state *PipelineState) error
}

// Durable is the relational tier. Load returns nil, nil for unknown sessions.
type Durable interface {
	Load(ctx context.Context, sessionID string) (*PipelineState, error)
	Save(ctx context.Context, state *PipelineState) error
}

// Store keeps three tiers. The local cache is in-process and written on every
// update, so it is authoritative for the life of the process. The shared
// cache (optional, e.g. Redis) and the durable tier are written through on a
// best-effort basis and may lag the local cache when they fail.
type Store struct {
	local   Cache
	shared  Cache
	durable Durable
	logger  logger.ILogger
	now     func() time.Time
}

// NewStore wires the tiers. shared and durable may be nil.
func NewStore(local, shared Cache, durable Durable, logger logger.ILogger) *Store {
	return &Store{
		local:   local,
		shared:  shared,
		durable: durable,
		logger:  logger,
		now:     time.Now,
	}
}

// Get never fails: absent or unreachable sessions read as idle.
func (s *Store) Get(ctx context.Context, sessionID string) *PipelineState {
	if sessionID == "" {
		return idleState(sessionID)
	}
	if s.shared != nil {
		if st, ok := s.shared.Get(ctx, sessionID); ok {
			s.populate(ctx, s.local, st)
			return st
		}
	}
	if st, ok := s.local.Get(ctx, sessionID); ok {
		return st
	}
	if s.durable == nil {
		return idleState(sessionID)
	}

	st, err := s.durable.Load(ctx, sessionID)
	if err != nil {
		s.logger.Warn("PIPELINE", "Durable state read failed, treating session as idle", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return idleState(sessionID)
	}
	if st == nil {
		return idleState(sessionID)
	}
	st.SessionID = sessionID
	if st.State == "" {
		st.State = StateIdle
	}
	s.populate(ctx, s.local, st)
	if s.shared != nil {
		s.populate(ctx, s.shared, st)
	}
	return st
}

// Update merges patch into the current data and moves the session to state.
// It returns false only for an empty session id.
func (s *Store) Update(ctx context.Context, sessionID string, state State, patch Data) bool {
	if sessionID == "" {
		s.logger.Warn("PIPELINE", "Update without session id ignored", nil)
		return false
	}
	current := s.Get(ctx, sessionID)
	return s.write(ctx, &PipelineState{
		SessionID: sessionID,
		State:     state,
		Data:      current.Data.Merge(patch),
		UpdatedAt: s.now().UTC(),
	})
}

// Reset returns the session to idle with no collected data.
func (s *Store) Reset(ctx context.Context, sessionID string) bool {
	if sessionID == "" {
		return false
	}
	return s.write(ctx, &PipelineState{
		SessionID: sessionID,
		State:     StateIdle,
		UpdatedAt: s.now().UTC(),
	})
}

func (s *Store) IsInPipeline(ctx context.Context, sessionID string) bool {
	return s.Get(ctx, sessionID).State.IsActive()
}

func (s *Store) populate(ctx context.Context, c Cache, st *PipelineState) {
	if err := c.Set(ctx, st); err != nil {
		s.logger.Warn("PIPELINE", "Cache populate failed", map[string]interface{}{"session_id": st.SessionID, "error": err.Error()})
	}
}

func (s *Store) write(ctx context.Context, st *PipelineState) bool {
	if err := s.local.Set(ctx, st); err != nil {
		s.logger.Error("PIPELINE", "Local cache write failed", map[string]interface{}{
			"session_id": st.SessionID,
			"error":      err.Error(),
		})
	}

	if s.shared != nil {
		if err := s.shared.Set(ctx, st); err != nil {
			s.logger.Warn("PIPELINE", "Shared cache write failed, local only", map[string]interface{}{
				"session_id": st.SessionID,
				"error":      err.Error(),
			})
		}
	}

	if s.durable != nil {
		if err := s.durable.Save(ctx, st); err != nil {
			s.logger.Warn("PIPELINE", "Durable state write failed, cache only", map[string]interface{}{
				"session_id": st.SessionID,
				"state":      st.State,
				"error":      err.Error(),
			})
		}
	}

	s.logger.Debug("PIPELINE", "State updated", map[string]interface{}{
		"session_id": st.SessionID,
		"state":      st.State,
	})
	return true
}
