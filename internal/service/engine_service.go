package service

import (
	"context"
	"soulsprint/internal/apperr"
	"soulsprint/internal/cache"
	"soulsprint/internal/logger"
	"soulsprint/internal/model"
	"soulsprint/internal/repository"
	"soulsprint/internal/routing"
	"soulsprint/internal/session"
	"soulsprint/internal/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Responder writes the agent side of a chat exchange
type Responder interface {
	Reply(ctx context.Context, tier model.Tier, history model.Transcript, message string) (string, error)
	Fallback(tier model.Tier) string
}

// EngineService is the core API: questionnaire, chat and task routing for a session
type EngineService struct {
	holder      *session.Holder
	assessor    session.Assessor
	extractor   signal.Extractor
	responder   Responder
	router      *routing.Router
	completions repository.CompletionRepo
	escalations cache.EscalationCache
	broadcaster Broadcaster
	log         *logger.Logger
	tracer      trace.Tracer
	aiTimeout   time.Duration
}

// NewEngineService creates the engine over its collaborators
func NewEngineService(
	holder *session.Holder,
	assessor session.Assessor,
	extractor signal.Extractor,
	responder Responder,
	router *routing.Router,
	completions repository.CompletionRepo,
	escalations cache.EscalationCache,
	log *logger.Logger,
	aiTimeout time.Duration,
) *EngineService {
	if aiTimeout <= 0 {
		aiTimeout = 15 * time.Second
	}
	return &EngineService{
		holder:      holder,
		assessor:    assessor,
		extractor:   extractor,
		responder:   responder,
		router:      router,
		completions: completions,
		escalations: escalations,
		broadcaster: nopBroadcaster{},
		log:         log,
		tracer:      otel.Tracer("soulsprint/service"),
		aiTimeout:   aiTimeout,
	}
}

// SetBroadcaster sets the broadcaster (called after hub is created)
func (s *EngineService) SetBroadcaster(b Broadcaster) {
	if b == nil {
		b = nopBroadcaster{}
	}
	s.broadcaster = b
}

// StartSession creates a new session in NotStarted
func (s *EngineService) StartSession(ctx context.Context) (*model.SessionState, error) {
	st, err := s.holder.Create(ctx, uuid.New().String())
	if err != nil {
		return nil, err
	}
	s.log.Info("session started", "session_id", st.ID)
	return st, nil
}

// GetSession returns the last committed state
func (s *EngineService) GetSession(ctx context.Context, sessionID string) (*model.SessionState, error) {
	return s.holder.Get(ctx, sessionID)
}

// SubmitAnswer records the next questionnaire answer
func (s *EngineService) SubmitAnswer(ctx context.Context, sessionID string, value int) (*model.AnswerProgress, error) {
	var completed bool
	st, err := s.holder.Update(ctx, sessionID, func(ctx context.Context, st *model.SessionState) error {
		before := st.Assessment
		if err := session.SubmitAnswer(st, value, s.assessor, s.holder.Now()); err != nil {
			return err
		}
		completed = before == nil && st.Assessment != nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	progress := &model.AnswerProgress{
		Status:     st.Status,
		Answered:   len(st.Answers),
		Remaining:  model.QuestionCount - len(st.Answers),
		Assessment: st.Assessment,
	}
	if progress.Remaining > 0 {
		q := model.Questions[len(st.Answers)]
		progress.Next = &q
	}

	if completed {
		s.log.Info("assessment complete", "session_id", st.ID, "tier", st.Assessment.Tier, "score", st.Assessment.Score)
		s.broadcaster.BroadcastToSession(st.ID, EventAssessmentComplete, st.Assessment)
	}
	return progress, nil
}

// GetAssessment returns the session's assessment, or AssessmentNotReady
func (s *EngineService) GetAssessment(ctx context.Context, sessionID string) (*model.RiskAssessment, error) {
	st, err := s.holder.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if st.Assessment == nil {
		return nil, apperr.Wrap(apperr.ErrAssessmentNotReady, "%d of %d answers recorded", len(st.Answers), model.QuestionCount)
	}
	return st.Assessment, nil
}

// ResetAssessment returns the session to NotStarted
func (s *EngineService) ResetAssessment(ctx context.Context, sessionID string, clearTranscript bool) (*model.SessionState, error) {
	st, err := s.holder.Update(ctx, sessionID, func(ctx context.Context, st *model.SessionState) error {
		session.Reset(st, clearTranscript, s.holder.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.escalations.Remove(ctx, sessionID); err != nil {
		s.log.Warn("failed to clear escalation index", "session_id", sessionID, "error", err)
	}
	s.broadcaster.BroadcastToSession(sessionID, EventSessionReset, st.View())
	return st, nil
}

// GetTranscript returns the session's chat history
func (s *EngineService) GetTranscript(ctx context.Context, sessionID string) (model.Transcript, error) {
	st, err := s.holder.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return st.Transcript, nil
}

// SendChatMessage appends a user message, produces the agent reply and a new
// intensity signal concurrently, and commits both in one update. If ctx ends
// before the commit nothing is recorded.
func (s *EngineService) SendChatMessage(ctx context.Context, sessionID, text string) (*model.ChatResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Wrap(apperr.ErrEmptyMessage, "message has no content")
	}

	ctx, span := s.tracer.Start(ctx, "engine.SendChatMessage")
	defer span.End()

	var (
		reply         string
		sig           model.IntensitySignal
		newEscalation bool
	)
	st, err := s.holder.Update(ctx, sessionID, func(ctx context.Context, st *model.SessionState) error {
		now := s.holder.Now()
		userTurn := model.ChatTurn{Speaker: model.SpeakerUser, Text: text, At: now}
		transcript := append(append(model.Transcript{}, st.Transcript...), userTurn)
		tier := session.EffectiveTier(st)

		var err error
		reply, sig, err = s.exchange(ctx, tier, st, transcript, text)
		if err != nil {
			return err
		}

		wasEscalated := st.Escalated
		agentTurn := model.ChatTurn{Speaker: model.SpeakerAgent, Text: reply, At: s.holder.Now()}
		session.ApplyChatExchange(st, userTurn, agentTurn, sig, s.holder.Now())
		newEscalation = st.Escalated && !wasEscalated
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("signal.level", string(sig.Level)),
		attribute.String("signal.source", string(sig.Source)),
		attribute.Bool("session.escalated", st.Escalated),
	)

	s.broadcaster.BroadcastToSession(st.ID, EventSignalUpdate, sig)
	if newEscalation {
		s.log.Warn("session escalated to professional help", "session_id", st.ID, "level", sig.Level)
		if err := s.escalations.Add(ctx, st.ID, *st.EscalatedAt); err != nil {
			s.log.Warn("failed to index escalation", "session_id", st.ID, "error", err)
		}
		s.broadcaster.BroadcastToStaff(EventEscalation, cache.EscalationEntry{SessionID: st.ID, EscalatedAt: *st.EscalatedAt})
	}

	routed, err := s.route(ctx, st)
	if err != nil {
		return nil, err
	}
	if newEscalation {
		s.broadcaster.BroadcastToSession(st.ID, EventEscalation, routed)
	}

	return &model.ChatResult{
		Reply:   reply,
		Signal:  sig,
		Routing: routed,
	}, nil
}

// exchange runs reply generation and signal extraction side by side. Degraded
// external calls fall back; only the caller's cancellation is an error.
func (s *EngineService) exchange(ctx context.Context, tier model.Tier, st *model.SessionState, transcript model.Transcript, text string) (string, model.IntensitySignal, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()

	var (
		reply string
		sig   model.IntensitySignal
	)
	g, gctx := errgroup.WithContext(callCtx)

	g.Go(func() error {
		rctx, span := s.tracer.Start(gctx, "engine.reply")
		defer span.End()
		out, err := s.responder.Reply(rctx, tier, st.Transcript, text)
		if err != nil {
			span.RecordError(err)
			s.log.Warn("reply generation degraded, using canned reply", "session_id", st.ID, "error", err)
			out = s.responder.Fallback(tier)
		}
		reply = out
		return nil
	})

	g.Go(func() error {
		ectx, span := s.tracer.Start(gctx, "engine.extract_signal")
		defer span.End()
		out, err := s.extractor.Extract(ectx, transcript)
		if err != nil {
			span.RecordError(err)
			s.log.Warn("signal extraction degraded, keeping last signal", "session_id", st.ID, "error", err)
			out = st.Signal
			out.Evidence = append([]string(nil), st.Signal.Evidence...)
			out.Source = model.SourceFallback
		}
		sig = out
		return nil
	})

	if err := g.Wait(); err != nil {
		return "", model.IntensitySignal{}, err
	}
	if err := ctx.Err(); err != nil {
		return "", model.IntensitySignal{}, err
	}
	return reply, sig, nil
}

// GetRecommendedTasks routes the session by its effective tier and last signal
func (s *EngineService) GetRecommendedTasks(ctx context.Context, sessionID string) (*model.RouteResult, error) {
	st, err := s.holder.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.route(ctx, st)
}

func (s *EngineService) route(ctx context.Context, st *model.SessionState) (*model.RouteResult, error) {
	tier := session.EffectiveTier(st)
	if st.Escalated {
		return s.router.Escalate(tier), nil
	}

	sig := st.Signal
	res, err := s.router.Route(tier, &sig)
	if err != nil {
		return nil, err
	}
	if len(res.Tasks) == 0 {
		return res, nil
	}

	done, err := s.completions.ListBySession(ctx, st.ID)
	if err != nil {
		s.log.Warn("could not load task completions", "session_id", st.ID, "error", err)
		return res, nil
	}
	// tasks are daily; only today's completions count
	today := dayOf(s.holder.Now())
	completed := make(map[model.TaskID]bool, len(done))
	for _, c := range done {
		if dayOf(c.CompletedAt) == today {
			completed[c.TaskID] = true
		}
	}
	for i := range res.Tasks {
		res.Tasks[i].Completed = completed[res.Tasks[i].ID]
	}
	return res, nil
}

// CompleteTask records that the session finished a catalog task
func (s *EngineService) CompleteTask(ctx context.Context, sessionID string, taskID model.TaskID) (*model.TaskCompletion, error) {
	if !s.inCatalog(taskID) {
		return nil, apperr.Wrap(apperr.ErrUnknownTask, "task %q", taskID)
	}
	if _, err := s.holder.Get(ctx, sessionID); err != nil {
		return nil, err
	}

	completion := &model.TaskCompletion{
		SessionID:   sessionID,
		TaskID:      taskID,
		CompletedAt: s.holder.Now(),
	}
	if err := s.completions.Create(ctx, completion); err != nil {
		return nil, err
	}
	s.broadcaster.BroadcastToSession(sessionID, EventTaskCompleted, completion)
	return completion, nil
}

func (s *EngineService) inCatalog(taskID model.TaskID) bool {
	for _, t := range s.router.Catalog() {
		if t.ID == taskID {
			return true
		}
	}
	return false
}

// EndSession deletes the session and everything recorded for it
func (s *EngineService) EndSession(ctx context.Context, sessionID string) error {
	if _, err := s.holder.Get(ctx, sessionID); err != nil {
		return err
	}
	if err := s.holder.Delete(ctx, sessionID); err != nil {
		return err
	}
	if err := s.completions.DeleteBySession(ctx, sessionID); err != nil {
		s.log.Warn("failed to delete task completions", "session_id", sessionID, "error", err)
	}
	if err := s.escalations.Remove(ctx, sessionID); err != nil {
		s.log.Warn("failed to clear escalation index", "session_id", sessionID, "error", err)
	}
	s.broadcaster.DisconnectSession(sessionID)
	s.log.Info("session ended", "session_id", sessionID)
	return nil
}

// RecentEscalations lists escalated sessions, newest first
func (s *EngineService) RecentEscalations(ctx context.Context, limit int) ([]cache.EscalationEntry, error) {
	return s.escalations.Recent(ctx, limit)
}
