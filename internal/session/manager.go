// Package session owns the per-user session lifecycle: one state store
// per authenticated user plus the background loops that keep its world
// moving (bus drift, presence, subscription expiry, sentiment analysis).
package session

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/uppa/uppa_core/internal/cache"
	"github.com/uppa/uppa_core/internal/collab"
	"github.com/uppa/uppa_core/internal/config"
	"github.com/uppa/uppa_core/internal/models"
	"github.com/uppa/uppa_core/internal/store"
)

// busJitterDegrees bounds the simulated bus drift per tick
const busJitterDegrees = 0.0005

// Session is one authenticated user's state store plus the cancel
// handle for its background loops.
type Session struct {
	Token     string
	UserName  string
	Store     *store.Store
	CreatedAt int64

	cancel context.CancelFunc
}

// Manager creates, looks up and tears down sessions. Safe for
// concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	timers     config.TimerConfig
	storeCfg   store.Config
	classifier collab.Classifier
	newInitial func() store.AppState
}

// NewManager builds a manager. newInitial produces the pre-login state
// for each fresh session.
func NewManager(timers config.TimerConfig, storeCfg store.Config, classifier collab.Classifier, newInitial func() store.AppState) *Manager {
	return &Manager{
		sessions:   make(map[string]*Session),
		timers:     timers,
		storeCfg:   storeCfg,
		classifier: classifier,
		newInitial: newInitial,
	}
}

// Login creates a session for the given user name, dispatches the login
// transition and starts the background loops.
func (m *Manager) Login(ctx context.Context, userName string) *Session {
	sess := m.startSession(uuid.NewString(), userName, time.Now().UnixMilli())

	// Best effort: a Redis outage only costs cross-instance lookup
	if err := cache.StoreSession(ctx, cache.SessionRecord{
		Token:     sess.Token,
		UserName:  sess.UserName,
		CreatedAt: sess.CreatedAt,
	}, cache.LoadConfigFromEnv().SessionTTL); err != nil {
		log.Printf("Warning: failed to persist session to Redis: %v", err)
	}

	return sess
}

// startSession builds the store, registers the session and starts its
// background loops.
func (m *Manager) startSession(token, userName string, createdAt int64) *Session {
	st := store.New(m.newInitial(), m.storeCfg)
	st.Dispatch(store.Login{UserName: userName})
	st.Dispatch(store.SetMapReady{Ready: true})

	sessCtx, cancel := context.WithCancel(context.Background())
	sess := &Session{
		Token:     token,
		UserName:  userName,
		Store:     st,
		CreatedAt: createdAt,
		cancel:    cancel,
	}

	m.mu.Lock()
	if existing, ok := m.sessions[token]; ok {
		// Two requests raced to resume the same token; keep the winner
		m.mu.Unlock()
		cancel()
		return existing
	}
	m.sessions[token] = sess
	m.mu.Unlock()

	go m.runBusJitter(sessCtx, sess)
	go m.runConnectedUsers(sessCtx, sess)
	go m.runExpirySweep(sessCtx, sess)
	go m.runSentimentScan(sessCtx, sess)

	return sess
}

// Get returns the session for a token
func (m *Manager) Get(token string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[token]
	return sess, ok
}

// Resume returns the live session for a token, re-materializing it from
// the Redis record when the token was issued by another instance (or a
// previous run). The resumed session starts over from a fresh login;
// only the token/user association survives the instance boundary.
func (m *Manager) Resume(ctx context.Context, token string) (*Session, bool) {
	if sess, ok := m.Get(token); ok {
		return sess, true
	}

	rec, err := cache.GetSession(ctx, token)
	if err != nil || rec == nil {
		return nil, false
	}

	log.Printf("Resuming session for %s from Redis", rec.UserName)
	return m.startSession(rec.Token, rec.UserName, rec.CreatedAt), true
}

// Logout stops a session's loops and discards it
func (m *Manager) Logout(ctx context.Context, token string) {
	m.mu.Lock()
	sess, ok := m.sessions[token]
	if ok {
		delete(m.sessions, token)
	}
	m.mu.Unlock()

	if !ok {
		return
	}

	sess.Store.Dispatch(store.Logout{})
	sess.cancel()

	if err := cache.DeleteSession(ctx, token); err != nil {
		log.Printf("Warning: failed to delete session from Redis: %v", err)
	}
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close tears down every session
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, sess := range m.sessions {
		sess.cancel()
		delete(m.sessions, token)
	}
}

// runBusJitter drifts every bus location a little each tick so the map
// feels alive even without real reports coming in.
func (m *Manager) runBusJitter(ctx context.Context, sess *Session) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ticker := time.NewTicker(m.timers.BusJitter)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			state := sess.Store.State()
			for id, bus := range state.Buses {
				if bus.CurrentLocation == nil {
					continue
				}
				sess.Store.Dispatch(store.SetBusLocation{
					BusLineID: id,
					Location: models.Coordinates{
						Lat: bus.CurrentLocation.Lat + (rng.Float64()-0.5)*2*busJitterDegrees,
						Lng: bus.CurrentLocation.Lng + (rng.Float64()-0.5)*2*busJitterDegrees,
					},
				})
			}
		}
	}
}

// runConnectedUsers nudges the presence counter up or down, never below one
func (m *Manager) runConnectedUsers(ctx context.Context, sess *Session) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ticker := time.NewTicker(m.timers.ConnectedUsers)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count := sess.Store.State().ConnectedUsers + rng.Intn(3) - 1
			if count < 1 {
				count = 1
			}
			sess.Store.Dispatch(store.UpdateConnectedUsers{Count: count})
		}
	}
}

// runExpirySweep deactivates services whose subscription ran out
func (m *Manager) runExpirySweep(ctx context.Context, sess *Session) {
	ticker := time.NewTicker(m.timers.ExpirySweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sess.Store.Dispatch(store.DeactivateExpiredServices{Now: time.Now().UnixMilli()})
		}
	}
}

// runSentimentScan resolves one pending sentiment per tick: the newest
// report, chat message, global message or review still marked unknown.
// Classification failures are logged and retried on the next tick.
func (m *Manager) runSentimentScan(ctx context.Context, sess *Session) {
	ticker := time.NewTicker(m.timers.SentimentScan)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.resolveOneSentiment(ctx, sess)
		}
	}
}

func (m *Manager) resolveOneSentiment(ctx context.Context, sess *Session) {
	state := sess.Store.State()

	for _, r := range state.Reports {
		if r.Sentiment != models.SentimentUnknown {
			continue
		}
		sentiment, err := m.classifier.Classify(ctx, r.Description)
		if err != nil {
			log.Printf("Warning: sentiment classification failed for report %s: %v", r.ID, err)
			return
		}
		sess.Store.Dispatch(store.SetSentiment{ID: r.ID, Target: store.TargetReport, Sentiment: sentiment})
		return
	}

	for _, msgs := range state.ChatMessages {
		for _, msg := range msgs {
			if msg.Sentiment != models.SentimentUnknown {
				continue
			}
			sentiment, err := m.classifier.Classify(ctx, msg.Text)
			if err != nil {
				log.Printf("Warning: sentiment classification failed for message %s: %v", msg.ID, err)
				return
			}
			sess.Store.Dispatch(store.SetSentiment{ID: msg.ID, Target: store.TargetChat, Sentiment: sentiment})
			return
		}
	}

	for _, msg := range state.GlobalChatMessages {
		if msg.Sentiment != models.SentimentUnknown {
			continue
		}
		sentiment, err := m.classifier.Classify(ctx, msg.Text)
		if err != nil {
			log.Printf("Warning: sentiment classification failed for message %s: %v", msg.ID, err)
			return
		}
		sess.Store.Dispatch(store.SetSentiment{ID: msg.ID, Target: store.TargetGlobalChat, Sentiment: sentiment})
		return
	}

	for _, svc := range state.Services {
		for _, entry := range svc.RatingHistory {
			if entry.Sentiment != models.SentimentUnknown {
				continue
			}
			// A review without a comment has nothing to classify; settle
			// it as neutral so it leaves the pending set.
			sentiment := models.SentimentNeutral
			if entry.Comment != "" {
				var err error
				sentiment, err = m.classifier.Classify(ctx, entry.Comment)
				if err != nil {
					log.Printf("Warning: sentiment classification failed for review of %s: %v", svc.ID, err)
					return
				}
			}
			sess.Store.Dispatch(store.SetReviewSentiment{
				ServiceID: svc.ID,
				Timestamp: entry.Timestamp,
				Sentiment: sentiment,
			})
			return
		}
	}
}
