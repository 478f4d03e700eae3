package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ghelleks/botany-battle-sub000/internal/clock"
	"github.com/ghelleks/botany-battle-sub000/internal/errors"
	"github.com/ghelleks/botany-battle-sub000/internal/game"
	"github.com/ghelleks/botany-battle-sub000/internal/logger"
	"github.com/ghelleks/botany-battle-sub000/internal/models"
	"github.com/ghelleks/botany-battle-sub000/internal/repository"
)

// AnswerSubmission is one answer as reported by the caller. The core only
// compares Selected against Correct; question selection and content live
// outside this service.
type AnswerSubmission struct {
	PlantID  string `json:"plant_id"`
	Selected string `json:"selected"`
	Correct  string `json:"correct"`
}

// SessionView is a session together with its live timer snapshot and the
// anti-cheat verdict on that snapshot.
type SessionView struct {
	Session    *models.GameSession      `json:"session"`
	Timer      models.TimerSnapshot     `json:"timer"`
	TimerState string                   `json:"timer_state"`
	Validation *models.ValidationResult `json:"validation"`
}

// GameService owns the lifecycle of play sessions: it serializes every
// mutation of one session behind a per-session lock, drives the timer,
// checkpoints timer state, and routes finished sessions through scoring
// and trophy calculation into the score repository.
type GameService interface {
	StartSession(ctx context.Context, mode models.Mode, difficulty models.Difficulty) (*SessionView, error)
	GetSession(ctx context.Context, id string) (*SessionView, *models.GameResult, error)
	SubmitAnswer(ctx context.Context, id string, sub AnswerSubmission) (*SessionView, *models.GameResult, error)
	PauseSession(ctx context.Context, id string) (*SessionView, error)
	ResumeSession(ctx context.Context, id string) (*SessionView, error)
	FinishSession(ctx context.Context, id string) (*models.GameResult, error)
	AbandonSession(ctx context.Context, id string) error
	RecoverSession(ctx context.Context, id string) (*SessionView, error)
	AddTime(ctx context.Context, id string, seconds float64) (*SessionView, error)
	SetTimeRemaining(ctx context.Context, id string, seconds float64) (*SessionView, *models.GameResult, error)

	Leaderboard(ctx context.Context, mode models.Mode, difficulty models.Difficulty, limit int) ([]models.ScoreRecord, error)
	PersonalBest(ctx context.Context, mode models.Mode, difficulty models.Difficulty) (*models.ScoreRecord, error)
	PersonalBests(ctx context.Context) ([]models.ScoreRecord, error)
	Stats(ctx context.Context) (*models.Stats, error)

	// Run drives periodic ticks and checkpoints for all live sessions
	// until ctx is cancelled. Callers that poll through GetSession (or
	// tests using a manual clock) can skip it: every service call also
	// syncs the session it touches.
	Run(ctx context.Context)
	// PruneIdle checkpoints and unloads sessions with no activity for
	// the given duration. They stay recoverable via RecoverSession.
	PruneIdle(ctx context.Context, idleFor time.Duration) int
	ActiveSessions() int
}

// GameServiceConfig carries the gameplay tunables.
type GameServiceConfig struct {
	RoundDuration      time.Duration // beat_the_clock countdown length
	QuestionTarget     int           // speedrun question count
	TickInterval       time.Duration
	CheckpointInterval time.Duration
}

type gameService struct {
	timerRepo repository.TimerStateRepository
	scoreRepo repository.ScoreRepository
	clk       clock.Clock
	validator *game.Validator
	cfg       GameServiceConfig

	mu   sync.RWMutex
	live map[string]*liveSession
}

// liveSession pairs a session with its timer. The mutex is the
// single-writer guard of the concurrency model: answers, ticks,
// pause/resume, and completion for one session all serialize on it.
type liveSession struct {
	session        *models.GameSession
	timer          *game.Timer
	lastAnswerTime float64 // active seconds at the previous answer
	lastCheckpoint time.Time
	mu             sync.Mutex
}

// NewGameService creates a GameService backed by the given repositories
// and clock. A nil clock falls back to the system clock.
func NewGameService(timerRepo repository.TimerStateRepository, scoreRepo repository.ScoreRepository, clk clock.Clock, cfg GameServiceConfig) GameService {
	if clk == nil {
		clk = clock.System
	}
	if cfg.RoundDuration <= 0 {
		cfg.RoundDuration = 60 * time.Second
	}
	if cfg.QuestionTarget <= 0 {
		cfg.QuestionTarget = 25
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 250 * time.Millisecond
	}
	if cfg.CheckpointInterval <= 0 {
		cfg.CheckpointInterval = 10 * time.Second
	}
	return &gameService{
		timerRepo: timerRepo,
		scoreRepo: scoreRepo,
		clk:       clk,
		validator: game.NewValidator(game.DefaultValidatorConfig()),
		cfg:       cfg,
		live:      make(map[string]*liveSession),
	}
}

func (s *gameService) StartSession(ctx context.Context, mode models.Mode, difficulty models.Difficulty) (*SessionView, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: mode=%s, difficulty=%s", mode, difficulty)

	if !mode.Valid() {
		return nil, errors.NewValidationError("mode", "must be 'beat_the_clock' or 'speedrun'")
	}
	if !difficulty.Valid() {
		return nil, errors.NewValidationError("difficulty", "must be 'easy', 'medium', 'hard', or 'expert'")
	}

	now := s.clk.Now()
	session := &models.GameSession{
		ID:             uuid.NewString(),
		Mode:           mode,
		Difficulty:     difficulty,
		State:          models.StateActive,
		StartedAt:      now,
		LastActivityAt: now,
	}

	timer := game.NewTimer(s.clk)
	if mode == models.ModeBeatTheClock {
		session.RoundDuration = s.cfg.RoundDuration.Seconds()
		timer.Start(s.cfg.RoundDuration)
	} else {
		session.QuestionTarget = s.cfg.QuestionTarget
		timer.StartStopwatch()
	}

	ls := &liveSession{session: session, timer: timer, lastCheckpoint: now}
	s.mu.Lock()
	s.live[session.ID] = ls
	s.mu.Unlock()

	ls.mu.Lock()
	defer ls.mu.Unlock()
	s.checkpointLocked(ctx, ls)

	log.Info("session started: id=%s, mode=%s, difficulty=%s", session.ID, mode, difficulty)
	return s.viewLocked(ls), nil
}

// GetSession returns the live view of a session. If the countdown expired
// since the last call, the session completes here and the result is
// returned instead of a view.
func (s *gameService) GetSession(ctx context.Context, id string) (*SessionView, *models.GameResult, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()

	snap := s.syncLocked(ctx, ls)
	if snap.IsExpired && ls.session.State != models.StateCompleted {
		result, err := s.completeLocked(ctx, ls)
		return nil, result, err
	}
	return s.viewLocked(ls), nil, nil
}

func (s *gameService) SubmitAnswer(ctx context.Context, id string, sub AnswerSubmission) (*SessionView, *models.GameResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting answer: session_id=%s, plant_id=%s", id, sub.PlantID)

	ls, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()

	session := ls.session
	if session.State == models.StatePaused {
		return nil, nil, errors.NewConflictError("session is paused")
	}

	snap := s.syncLocked(ctx, ls)
	if snap.IsExpired {
		// The round ran out before this answer arrived; it does not count.
		result, err := s.completeLocked(ctx, ls)
		return nil, result, err
	}

	answer := models.AnswerRecord{
		PlantID:      sub.PlantID,
		Selected:     sub.Selected,
		Correct:      sub.Correct,
		IsCorrect:    sub.Selected == sub.Correct,
		AnsweredAt:   s.clk.Now(),
		TimeToAnswer: snap.TotalTime - ls.lastAnswerTime,
	}
	if answer.TimeToAnswer < 0 {
		answer.TimeToAnswer = 0
	}
	ls.lastAnswerTime = snap.TotalTime

	session.Answers = append(session.Answers, answer)
	session.QuestionsAnswered++
	if answer.IsCorrect {
		session.CorrectAnswers++
	}
	session.LastActivityAt = s.clk.Now()

	if session.Mode == models.ModeSpeedrun && session.QuestionsAnswered >= session.QuestionTarget {
		log.Info("speedrun target reached: session_id=%s, correct=%d/%d", id, session.CorrectAnswers, session.QuestionsAnswered)
		result, err := s.completeLocked(ctx, ls)
		return nil, result, err
	}

	return s.viewLocked(ls), nil, nil
}

func (s *gameService) PauseSession(ctx context.Context, id string) (*SessionView, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()

	// An already-paused or completed timer makes this a no-op; UI
	// double-taps are expected and harmless.
	if ls.timer.Pause() {
		ls.session.State = models.StatePaused
		ls.session.LastActivityAt = s.clk.Now()
		s.syncCountersLocked(ls)
		s.checkpointLocked(ctx, ls)
		logger.FromContext(ctx).Info("session paused: id=%s", id)
	}
	return s.viewLocked(ls), nil
}

func (s *gameService) ResumeSession(ctx context.Context, id string) (*SessionView, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.timer.Resume() {
		ls.session.State = models.StateActive
		ls.session.LastActivityAt = s.clk.Now()
		s.syncCountersLocked(ls)
		s.checkpointLocked(ctx, ls)
		logger.FromContext(ctx).Info("session resumed: id=%s", id)
	}
	return s.viewLocked(ls), nil
}

// FinishSession completes a session on caller request, scoring whatever
// was answered so far.
func (s *gameService) FinishSession(ctx context.Context, id string) (*models.GameResult, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return s.completeLocked(ctx, ls)
}

// AbandonSession discards a session without scoring it.
func (s *gameService) AbandonSession(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	ls, err := s.lookup(id)
	if err != nil {
		return err
	}
	ls.mu.Lock()
	ls.timer.Stop()
	ls.session.State = models.StateCompleted
	ls.mu.Unlock()

	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()

	if err := s.timerRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete timer state for abandoned session %s: %v", id, err)
		return errors.NewInternalError(err)
	}
	log.Info("session abandoned: id=%s", id)
	return nil
}

// RecoverSession rebuilds a session from its persisted timer checkpoint
// after a process restart. Elapsed time is reconstructed from the record:
// downtime counts as play time for a session that was active at the
// checkpoint, and as pause time for one that was paused. The answer
// history is not checkpointed, so streak bonuses restart after recovery.
func (s *gameService) RecoverSession(ctx context.Context, id string) (*SessionView, error) {
	log := logger.FromContext(ctx)
	log.Debug("recovering session: id=%s", id)

	s.mu.RLock()
	ls, ok := s.live[id]
	s.mu.RUnlock()
	if ok {
		ls.mu.Lock()
		defer ls.mu.Unlock()
		s.syncLocked(ctx, ls)
		return s.viewLocked(ls), nil
	}

	rec, err := s.timerRepo.Load(ctx, id)
	if err != nil {
		log.Error("failed to load timer state: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if rec == nil {
		return nil, errors.NewNotFoundError("session", id)
	}

	timer := game.RestoreTimer(s.clk, rec)
	session := &models.GameSession{
		ID:                rec.SessionID,
		Mode:              rec.Mode,
		Difficulty:        rec.Difficulty,
		State:             models.StateActive,
		QuestionsAnswered: rec.QuestionsAnswered,
		CorrectAnswers:    rec.CorrectAnswers,
		RoundDuration:     rec.RoundDuration,
		QuestionTarget:    rec.QuestionTarget,
		StartedAt:         rec.StartedAt,
		LastActivityAt:    s.clk.Now(),
	}
	if !rec.WasActive {
		session.State = models.StatePaused
	}

	ls = &liveSession{session: session, timer: timer, lastCheckpoint: s.clk.Now()}
	ls.lastAnswerTime = timer.Snapshot().TotalTime

	s.mu.Lock()
	s.live[id] = ls
	s.mu.Unlock()

	ls.mu.Lock()
	defer ls.mu.Unlock()
	s.syncLocked(ctx, ls)
	log.Info("session recovered: id=%s, mode=%s, answered=%d", id, rec.Mode, rec.QuestionsAnswered)
	return s.viewLocked(ls), nil
}

// AddTime extends a live countdown. Non-positive amounts are ignored.
func (s *gameService) AddTime(ctx context.Context, id string, seconds float64) (*SessionView, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.timer.AddTime(time.Duration(seconds * float64(time.Second))) {
		logger.FromContext(ctx).Info("added %.1fs to session %s", seconds, id)
		s.checkpointLocked(ctx, ls)
	}
	return s.viewLocked(ls), nil
}

// SetTimeRemaining overrides the remaining time of a live countdown.
// Negative values clamp to 0, and 0 forces expiry, so the result of the
// completed session may be returned in place of a view.
func (s *gameService) SetTimeRemaining(ctx context.Context, id string, seconds float64) (*SessionView, *models.GameResult, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()

	snap := ls.timer.SetTimeRemaining(time.Duration(seconds * float64(time.Second)))
	s.syncCountersLocked(ls)
	if snap.IsExpired && ls.session.State != models.StateCompleted {
		result, err := s.completeLocked(ctx, ls)
		return nil, result, err
	}
	s.checkpointLocked(ctx, ls)
	return s.viewLocked(ls), nil, nil
}

func (s *gameService) Leaderboard(ctx context.Context, mode models.Mode, difficulty models.Difficulty, limit int) ([]models.ScoreRecord, error) {
	if !mode.Valid() {
		return nil, errors.NewValidationError("mode", "must be 'beat_the_clock' or 'speedrun'")
	}
	if !difficulty.Valid() {
		return nil, errors.NewValidationError("difficulty", "must be 'easy', 'medium', 'hard', or 'expert'")
	}
	records, err := s.scoreRepo.Leaderboard(ctx, mode, difficulty, limit)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return records, nil
}

func (s *gameService) PersonalBest(ctx context.Context, mode models.Mode, difficulty models.Difficulty) (*models.ScoreRecord, error) {
	if !mode.Valid() {
		return nil, errors.NewValidationError("mode", "must be 'beat_the_clock' or 'speedrun'")
	}
	if !difficulty.Valid() {
		return nil, errors.NewValidationError("difficulty", "must be 'easy', 'medium', 'hard', or 'expert'")
	}
	rec, err := s.scoreRepo.PersonalBest(ctx, mode, difficulty)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return rec, nil
}

func (s *gameService) PersonalBests(ctx context.Context) ([]models.ScoreRecord, error) {
	records, err := s.scoreRepo.PersonalBests(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return records, nil
}

func (s *gameService) Stats(ctx context.Context) (*models.Stats, error) {
	stats, err := s.scoreRepo.Stats(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return stats, nil
}

// Run ticks every live session on a real-time cadence so countdowns
// expire even when no caller is polling. Exits when ctx is done.
func (s *gameService) Run(ctx context.Context) {
	log := logger.Default().WithPrefix("game-ticker")
	log.Info("session ticker started: interval=%s", s.cfg.TickInterval)

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("session ticker stopped")
			return
		case <-ticker.C:
			s.tickAll(ctx)
		}
	}
}

func (s *gameService) tickAll(ctx context.Context) {
	s.mu.RLock()
	sessions := make([]*liveSession, 0, len(s.live))
	for _, ls := range s.live {
		sessions = append(sessions, ls)
	}
	s.mu.RUnlock()

	for _, ls := range sessions {
		ls.mu.Lock()
		if ls.session.State == models.StateCompleted {
			ls.mu.Unlock()
			continue
		}
		snap := s.syncLocked(ctx, ls)
		if snap.IsExpired {
			if _, err := s.completeLocked(ctx, ls); err != nil {
				logger.FromContext(ctx).Error("failed to complete expired session %s: %v", ls.session.ID, err)
			}
		}
		ls.mu.Unlock()
	}
}

func (s *gameService) PruneIdle(ctx context.Context, idleFor time.Duration) int {
	log := logger.FromContext(ctx)
	cutoff := s.clk.Now().Add(-idleFor)

	s.mu.Lock()
	var idle []*liveSession
	for id, ls := range s.live {
		if ls.session.LastActivityAt.Before(cutoff) {
			idle = append(idle, ls)
			delete(s.live, id)
		}
	}
	s.mu.Unlock()

	for _, ls := range idle {
		ls.mu.Lock()
		// Pause before the final checkpoint so the downtime ahead counts
		// as pause time when the session is recovered.
		if ls.timer.Pause() {
			ls.session.State = models.StatePaused
		}
		s.checkpointLocked(ctx, ls)
		ls.mu.Unlock()
		log.Info("unloaded idle session: id=%s", ls.session.ID)
	}
	return len(idle)
}

func (s *gameService) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.live)
}

func (s *gameService) lookup(id string) (*liveSession, error) {
	s.mu.RLock()
	ls, ok := s.live[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.NewNotFoundError("session", id)
	}
	return ls, nil
}

// syncLocked drives the timer and refreshes the session counters,
// writing a periodic checkpoint when one is due.
func (s *gameService) syncLocked(ctx context.Context, ls *liveSession) models.TimerSnapshot {
	snap := ls.timer.Tick()
	ls.session.TotalGameTime = snap.TotalTime
	ls.session.TotalPausedTime = snap.PausedTime

	if ls.session.State != models.StateCompleted &&
		s.clk.Now().Sub(ls.lastCheckpoint) >= s.cfg.CheckpointInterval {
		s.checkpointLocked(ctx, ls)
	}
	return snap
}

func (s *gameService) syncCountersLocked(ls *liveSession) {
	snap := ls.timer.Snapshot()
	ls.session.TotalGameTime = snap.TotalTime
	ls.session.TotalPausedTime = snap.PausedTime
}

// checkpointLocked persists the timer state. Failures are logged and
// swallowed: a missed checkpoint degrades recovery, not the session.
func (s *gameService) checkpointLocked(ctx context.Context, ls *liveSession) {
	startedAt, pausedSeconds, active := ls.timer.CheckpointState()
	rec := &models.TimerStateRecord{
		SessionID:         ls.session.ID,
		Mode:              ls.session.Mode,
		Difficulty:        ls.session.Difficulty,
		StartedAt:         startedAt,
		PausedSeconds:     pausedSeconds,
		WasActive:         active,
		LastSavedAt:       s.clk.Now(),
		QuestionsAnswered: ls.session.QuestionsAnswered,
		CorrectAnswers:    ls.session.CorrectAnswers,
		RoundDuration:     ls.session.RoundDuration,
		QuestionTarget:    ls.session.QuestionTarget,
	}
	if err := s.timerRepo.Save(ctx, rec); err != nil {
		logger.FromContext(ctx).Warn("checkpoint failed for session %s: %v", ls.session.ID, err)
		return
	}
	ls.lastCheckpoint = s.clk.Now()
}

// completeLocked runs the completion pipeline: freeze the timer, validate
// the final snapshot, score the session, award trophies, persist the
// score, and drop the timer checkpoint.
func (s *gameService) completeLocked(ctx context.Context, ls *liveSession) (*models.GameResult, error) {
	log := logger.FromContext(ctx)
	session := ls.session

	snap := ls.timer.Complete()
	session.TotalGameTime = snap.TotalTime
	session.TotalPausedTime = snap.PausedTime
	session.State = models.StateCompleted
	now := s.clk.Now()
	session.CompletedAt = &now

	validation := s.validator.Validate(session, snap)
	if !validation.Valid {
		log.Warn("session %s failed validation: %v", session.ID, validation.Warnings)
	}

	var rec *models.ScoreRecord
	if session.Mode == models.ModeSpeedrun {
		score := game.ScoreSpeedrun(session, now)
		rec = score.Record(session.ID)
	} else {
		score := game.ScoreBeatTheClock(session, now)
		rec = score.Record(session.ID)
	}

	reward := game.CalculateTrophies(session)
	rec.Trophies = reward.TotalTrophies

	if err := s.scoreRepo.SaveScore(ctx, rec); err != nil {
		log.Error("failed to save score for session %s: %v", session.ID, err)
		return nil, errors.NewInternalError(err)
	}

	if err := s.timerRepo.Delete(ctx, session.ID); err != nil {
		// The score is saved; a leftover checkpoint row is janitor work.
		log.Warn("failed to delete timer state for session %s: %v", session.ID, err)
	}

	s.mu.Lock()
	delete(s.live, session.ID)
	s.mu.Unlock()

	log.Info("session completed: id=%s, mode=%s, correct=%d/%d, trophies=%d, new_record=%t",
		session.ID, session.Mode, session.CorrectAnswers, session.QuestionsAnswered, reward.TotalTrophies, rec.IsNewRecord)

	return &models.GameResult{
		Session:    session,
		Score:      rec,
		Reward:     &reward,
		Validation: &validation,
	}, nil
}

// viewLocked snapshots the session for callers outside the lock. The
// ticker keeps mutating the live session, so the view carries a copy.
func (s *gameService) viewLocked(ls *liveSession) *SessionView {
	snap := ls.timer.Snapshot()
	validation := s.validator.Validate(ls.session, snap)
	return &SessionView{
		Session:    ls.session.Clone(),
		Timer:      snap,
		TimerState: ls.timer.State().String(),
		Validation: &validation,
	}
}
