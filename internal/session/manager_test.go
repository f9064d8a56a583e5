package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/uppa/uppa_core/internal/collab"
	"github.com/uppa/uppa_core/internal/config"
	"github.com/uppa/uppa_core/internal/fixtures"
	"github.com/uppa/uppa_core/internal/models"
	"github.com/uppa/uppa_core/internal/store"
)

func testManager() *Manager {
	return NewManager(
		config.TimerConfig{},
		store.DefaultConfig(),
		collab.NewLexiconClassifier(),
		func() store.AppState {
			return store.NewState(fixtures.BusLines())
		},
	)
}

func testSession(m *Manager, userName string) *Session {
	st := store.New(m.newInitial(), m.storeCfg)
	st.Dispatch(store.Login{UserName: userName})
	return &Session{Token: "test-token", UserName: userName, Store: st}
}

func TestStartSession(t *testing.T) {
	quiet := config.TimerConfig{
		BusJitter:      time.Hour,
		ConnectedUsers: time.Hour,
		ExpirySweep:    time.Hour,
		SentimentScan:  time.Hour,
	}
	m := NewManager(quiet, store.DefaultConfig(), collab.NewLexiconClassifier(), func() store.AppState {
		return store.NewState(fixtures.BusLines())
	})
	defer m.Close()

	t.Run("Registers a logged-in session under its token", func(t *testing.T) {
		sess := m.startSession("tok-1", "Ana", 42)
		assert.Equal(t, "tok-1", sess.Token)
		assert.Equal(t, int64(42), sess.CreatedAt)

		state := sess.Store.State()
		assert.Equal(t, "Ana", state.CurrentUser.Name)
		assert.True(t, state.MapReady)

		got, ok := m.Get("tok-1")
		assert.True(t, ok)
		assert.Same(t, sess, got)
	})

	t.Run("Racing the same token keeps the first session", func(t *testing.T) {
		first := m.startSession("tok-2", "Ana", 1)
		second := m.startSession("tok-2", "Ana", 2)
		assert.Same(t, first, second)
	})
}

func TestResolveOneSentiment(t *testing.T) {
	ctx := context.Background()

	t.Run("Newest unknown report is resolved first", func(t *testing.T) {
		m := testManager()
		sess := testSession(m, "Ana")

		sess.Store.Dispatch(store.AddReport{Report: models.Report{
			ID:          "r1",
			BusLineID:   "LINEA_152",
			Type:        models.ReportDelay,
			Description: "demora horrible",
			Sentiment:   models.SentimentUnknown,
		}})

		m.resolveOneSentiment(ctx, sess)
		state := sess.Store.State()
		assert.Equal(t, models.SentimentNegative, state.Reports[0].Sentiment)
	})

	t.Run("One entity per pass", func(t *testing.T) {
		m := testManager()
		sess := testSession(m, "Ana")

		sess.Store.Dispatch(store.AddReport{Report: models.Report{
			ID: "r1", BusLineID: "LINEA_152", Type: models.ReportDelay,
			Description: "excelente servicio", Sentiment: models.SentimentUnknown,
		}})
		sess.Store.Dispatch(store.AddGlobalChatMessage{Message: models.GlobalChatMessage{
			ID: "g1", Text: "todo mal", Sentiment: models.SentimentUnknown,
		}})

		m.resolveOneSentiment(ctx, sess)
		state := sess.Store.State()
		assert.Equal(t, models.SentimentPositive, state.Reports[0].Sentiment)
		assert.Equal(t, models.SentimentUnknown, state.GlobalChatMessages[0].Sentiment)

		m.resolveOneSentiment(ctx, sess)
		state = sess.Store.State()
		assert.Equal(t, models.SentimentNegative, state.GlobalChatMessages[0].Sentiment)
	})

	t.Run("Uncommented reviews settle as neutral", func(t *testing.T) {
		m := testManager()
		sess := testSession(m, "Ana")

		sess.Store.Dispatch(store.RegisterService{Service: models.MicromobilityService{
			ID: "svc1", ProviderUserID: fixtures.DefaultUserID, Type: models.ServiceMoto,
			SubscriptionHours: 1, RatingHistory: []models.RatingHistoryEntry{},
		}})
		sess.Store.Dispatch(store.SubmitTripReview{
			ServiceID: "svc1", Timestamp: 1, OverallRating: 5,
			Scores: models.RatingScores{Punctuality: 5, Safety: 5, Cleanliness: 5, Kindness: 5},
		})

		m.resolveOneSentiment(ctx, sess)
		state := sess.Store.State()
		assert.Equal(t, models.SentimentNeutral, state.Services[0].RatingHistory[0].Sentiment)

		// Nothing left pending afterwards
		before := sess.Store.State()
		m.resolveOneSentiment(ctx, sess)
		assert.Equal(t, before, sess.Store.State())
	})

	t.Run("Commented reviews resolve by timestamp", func(t *testing.T) {
		m := testManager()
		sess := testSession(m, "Ana")

		sess.Store.Dispatch(store.RegisterService{Service: models.MicromobilityService{
			ID: "svc1", ProviderUserID: fixtures.DefaultUserID, Type: models.ServiceMoto,
			SubscriptionHours: 1, RatingHistory: []models.RatingHistoryEntry{},
		}})
		sess.Store.Dispatch(store.SubmitTripReview{
			ServiceID: "svc1", Timestamp: 7, OverallRating: 5, Comment: "muy amable y seguro",
			Scores: models.RatingScores{Punctuality: 5, Safety: 5, Cleanliness: 5, Kindness: 5},
		})

		m.resolveOneSentiment(ctx, sess)
		state := sess.Store.State()
		assert.Equal(t, models.SentimentPositive, state.Services[0].RatingHistory[0].Sentiment)
	})

	t.Run("Nothing pending is a no-op", func(t *testing.T) {
		m := testManager()
		sess := testSession(m, "Ana")

		before := sess.Store.State()
		m.resolveOneSentiment(ctx, sess)
		assert.Equal(t, before, sess.Store.State())
	})
}
