package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pefman/arena-duel/internal/catalog"
	"github.com/pefman/arena-duel/internal/engine"
	"github.com/pefman/arena-duel/internal/game"
	"github.com/pefman/arena-duel/internal/models"
	"github.com/pefman/arena-duel/internal/server"
	"github.com/pefman/arena-duel/internal/session"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat, err := catalog.New(
		[]models.Weapon{
			{ID: 1, Name: "club", MinDamage: 10, MaxDamage: 10, StaminaPerHit: 2},
			{ID: 2, Name: "stick", MinDamage: 1, MaxDamage: 1},
		},
		[]models.Armor{{ID: 1, Name: "rags"}},
	)
	require.NoError(t, err)
	store := session.NewStore(time.Minute, session.WithArenaFactory(func() *game.Arena {
		return game.NewArena(game.WithDice(engine.Fixed{Frac: 0.5, Int: 5}))
	}))
	srv := httptest.NewServer(server.New(server.Options{
		Equipment:  cat,
		Sessions:   store,
		SessionKey: []byte("0123456789abcdef0123456789abcdef"),
		Version:    "v1.2.3",
		BuildTime:  "2024-01-01",
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientCatalog(t *testing.T) {
	ctx := context.Background()
	c := NewClient(newServer(t).URL + "/")

	classes, err := c.Classes(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, "Thief", classes[1].Name)

	weapons, err := c.Weapons(ctx)
	require.NoError(t, err)
	assert.Len(t, weapons, 2)

	armors, err := c.Armors(ctx)
	require.NoError(t, err)
	assert.Len(t, armors, 1)

	v, bt, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1.2.3", v)
	assert.Equal(t, "2024-01-01", bt)
}

func TestClientEquipmentCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	for i := 0; i < 3; i++ {
		_, err := c.Weapons(context.Background())
		require.NoError(t, err)
		_, err = c.Armors(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), hits.Load(), "one fetch per list")
}

func TestClientDuel(t *testing.T) {
	ctx := context.Background()
	c := NewClient(newServer(t).URL)

	_, err := c.StartFight(ctx)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusConflict, se.Code)
	assert.NotErrorIs(t, err, ErrGameOver)

	err = c.ChooseHero(ctx, models.Loadout{Name: "bob", Class: "Thief", Weapon: "laser", Armor: "rags"})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnprocessableEntity, se.Code)
	assert.Contains(t, se.Message, "laser")

	require.NoError(t, c.ChooseHero(ctx, models.Loadout{Name: "bob", Class: "Thief", Weapon: "club", Armor: "rags"}))
	require.NoError(t, c.ChooseEnemy(ctx, models.Loadout{Name: "gor", Class: "Warrior", Weapon: "stick", Armor: "rags"}))

	start, err := c.StartFight(ctx)
	require.NoError(t, err)
	assert.Equal(t, "The fight has begun!", start.Result)

	for {
		resp, err := c.Hit(ctx)
		require.NoError(t, err)
		if resp.State.Status == game.StatusFinished {
			assert.Equal(t, "You won!", resp.BattleResult)
			break
		}
	}

	resp, err := c.UseSkill(ctx)
	assert.ErrorIs(t, err, ErrGameOver)
	assert.Equal(t, "Game over.", resp.BattleResult)
	_, err = c.PassTurn(ctx)
	assert.True(t, errors.Is(err, ErrGameOver))

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	require.NotNil(t, st.Record)
	assert.Equal(t, 1, st.Record.Wins)

	state, err := c.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, game.OutcomePlayerWins, state.State.Outcome)

	ended, err := c.EndFight(ctx)
	require.NoError(t, err)
	assert.Equal(t, game.StatusNotStarted, ended.State.Status)
}

func TestClientTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := NewClientWithConfig(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Classes(context.Background())
	require.Error(t, err)
}
