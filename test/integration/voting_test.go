package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pollResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Published      bool      `json:"published"`
	ResultsPublic  bool      `json:"results_public"`
	MultipleChoice bool      `json:"multiple_choice"`
	Options        []struct {
		ID   uuid.UUID `json:"id"`
		Text string    `json:"text"`
	} `json:"options"`
}

type overviewResponse struct {
	pollResponse
	Status       string `json:"status"`
	TotalBallots int64  `json:"total_ballots"`
	HasVoted     bool   `json:"has_voted"`
	Results      []struct {
		OptionID   uuid.UUID `json:"option_id"`
		Text       string    `json:"text"`
		Votes      int64     `json:"votes"`
		Percentage float64   `json:"percentage"`
	} `json:"results"`
}

func (app *TestApp) createPoll(t *testing.T, adminToken string, payload map[string]any) pollResponse {
	t.Helper()

	resp := app.postJSON(t, "/api/polls", payload, adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var poll pollResponse
	decodeBody(t, resp, &poll)
	return poll
}

func openWindowPayload(title string, options ...string) map[string]any {
	now := time.Now()
	return map[string]any{
		"title":     title,
		"kind":      "votacion",
		"opens_at":  now.Add(-time.Hour),
		"closes_at": now.Add(time.Hour),
		"options":   options,
	}
}

func (app *TestApp) setToggle(t *testing.T, token, path string, value bool) {
	t.Helper()

	resp := app.doJSON(t, http.MethodPatch, path, map[string]bool{"value": value}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestVotingLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	app := setupTestApp(t)
	defer app.Teardown(t)

	admin := app.registerMember(t, true, true, true)
	alice := app.registerMember(t, true, true, false)
	bruno := app.registerMember(t, true, true, false)

	poll := app.createPoll(t, admin.Token, openWindowPayload("Turnos de guardia", "Turno A", "Turno B", "Turno C"))
	require.Len(t, poll.Options, 3)
	assert.False(t, poll.Published)

	// Ballots are rejected until the poll is published.
	resp := app.postJSON(t, "/api/polls/"+poll.ID.String()+"/votes",
		map[string]any{"option_ids": []uuid.UUID{poll.Options[0].ID}}, alice.Token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	app.setToggle(t, admin.Token, "/api/polls/"+poll.ID.String()+"/publish", true)

	// The poll now shows up on the member-facing active list, without
	// results while resultados_publicos is off.
	var active []overviewResponse
	resp = app.getJSON(t, "/api/polls/active", alice.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &active)
	require.Len(t, active, 1)
	assert.Equal(t, "active", active[0].Status)
	assert.False(t, active[0].HasVoted)
	assert.Empty(t, active[0].Results)

	resp = app.postJSON(t, "/api/polls/"+poll.ID.String()+"/votes",
		map[string]any{"option_ids": []uuid.UUID{poll.Options[0].ID}}, alice.Token)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var voted struct {
		HasVoted bool `json:"has_voted"`
	}
	resp = app.getJSON(t, "/api/polls/"+poll.ID.String()+"/votes", alice.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &voted)
	assert.True(t, voted.HasVoted)

	// A second cast by the same member is rejected, even for another option.
	resp = app.postJSON(t, "/api/polls/"+poll.ID.String()+"/votes",
		map[string]any{"option_ids": []uuid.UUID{poll.Options[1].ID}}, alice.Token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = app.postJSON(t, "/api/polls/"+poll.ID.String()+"/votes",
		map[string]any{"option_ids": []uuid.UUID{poll.Options[1].ID}}, bruno.Token)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	app.setToggle(t, admin.Token, "/api/polls/"+poll.ID.String()+"/results-visibility", true)

	resp = app.getJSON(t, "/api/polls/active", alice.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &active)
	require.Len(t, active, 1)
	assert.Equal(t, int64(2), active[0].TotalBallots)
	assert.True(t, active[0].HasVoted)
	require.Len(t, active[0].Results, 3)
	assert.Equal(t, int64(1), active[0].Results[0].Votes)
	assert.InDelta(t, 50.0, active[0].Results[0].Percentage, 0.01)
	assert.InDelta(t, 50.0, active[0].Results[1].Percentage, 0.01)
	assert.Equal(t, int64(0), active[0].Results[2].Votes)
}

func TestVotingGates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	app := setupTestApp(t)
	defer app.Teardown(t)

	admin := app.registerMember(t, true, true, true)
	unverified := app.registerMember(t, false, true, false)
	unauthorized := app.registerMember(t, true, false, false)
	voter := app.registerMember(t, true, true, false)

	poll := app.createPoll(t, admin.Token, openWindowPayload("Material nuevo", "Sí", "No"))
	app.setToggle(t, admin.Token, "/api/polls/"+poll.ID.String()+"/publish", true)

	body := map[string]any{"option_ids": []uuid.UUID{poll.Options[0].ID}}

	resp := app.postJSON(t, "/api/polls/"+poll.ID.String()+"/votes", body, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = app.postJSON(t, "/api/polls/"+poll.ID.String()+"/votes", body, unverified.Token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = app.postJSON(t, "/api/polls/"+poll.ID.String()+"/votes", body, unauthorized.Token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Once the admin authorizes the member, the same request goes through.
	app.setToggle(t, admin.Token, "/api/members/"+unauthorized.ID.String()+"/authorize-voting", true)
	resp = app.postJSON(t, "/api/polls/"+poll.ID.String()+"/votes", body, unauthorized.Token)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Window gates: a scheduled poll and a closed one both reject ballots.
	now := time.Now()
	scheduled := app.createPoll(t, admin.Token, map[string]any{
		"title": "Futura", "kind": "votacion",
		"opens_at": now.Add(time.Hour), "closes_at": now.Add(2 * time.Hour),
		"options": []string{"Sí", "No"},
	})
	app.setToggle(t, admin.Token, "/api/polls/"+scheduled.ID.String()+"/publish", true)

	closed := app.createPoll(t, admin.Token, map[string]any{
		"title": "Pasada", "kind": "votacion",
		"opens_at": now.Add(-2 * time.Hour), "closes_at": now.Add(-time.Hour),
		"options": []string{"Sí", "No"},
	})
	app.setToggle(t, admin.Token, "/api/polls/"+closed.ID.String()+"/publish", true)

	resp = app.postJSON(t, "/api/polls/"+scheduled.ID.String()+"/votes",
		map[string]any{"option_ids": []uuid.UUID{scheduled.Options[0].ID}}, voter.Token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	resp = app.postJSON(t, "/api/polls/"+closed.ID.String()+"/votes",
		map[string]any{"option_ids": []uuid.UUID{closed.Options[0].ID}}, voter.Token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	// Neither out-of-window poll appears on the active list.
	var active []overviewResponse
	resp = app.getJSON(t, "/api/polls/active", voter.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &active)
	require.Len(t, active, 1)
	assert.Equal(t, poll.ID, active[0].ID)
}

func TestMultipleChoiceVoting(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	app := setupTestApp(t)
	defer app.Teardown(t)

	admin := app.registerMember(t, true, true, true)
	voter := app.registerMember(t, true, true, false)

	now := time.Now()
	poll := app.createPoll(t, admin.Token, map[string]any{
		"title": "Equipamiento", "kind": "encuesta",
		"opens_at": now.Add(-time.Hour), "closes_at": now.Add(time.Hour),
		"multiple_choice": true,
		"results_public":  true,
		"options":         []string{"Cascos", "Guantes", "Botas"},
	})
	app.setToggle(t, admin.Token, "/api/polls/"+poll.ID.String()+"/publish", true)

	resp := app.postJSON(t, "/api/polls/"+poll.ID.String()+"/votes",
		map[string]any{"option_ids": []uuid.UUID{poll.Options[0].ID, poll.Options[2].ID}}, voter.Token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// The whole selection lands as one event; a follow-up cast is rejected.
	resp = app.postJSON(t, "/api/polls/"+poll.ID.String()+"/votes",
		map[string]any{"option_ids": []uuid.UUID{poll.Options[1].ID}}, voter.Token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	var results []struct {
		Text       string  `json:"text"`
		Votes      int64   `json:"votes"`
		Percentage float64 `json:"percentage"`
	}
	resp = app.getJSON(t, "/api/polls/"+poll.ID.String()+"/results", voter.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &results)
	require.Len(t, results, 3)
	assert.Equal(t, int64(1), results[0].Votes)
	assert.Equal(t, int64(0), results[1].Votes)
	assert.Equal(t, int64(1), results[2].Votes)
	assert.InDelta(t, 50.0, results[0].Percentage, 0.01)

	// The unique index backs the application-level check: a direct insert
	// for the same voter and option is rejected by the database itself.
	_, err := app.DB.Exec(
		"INSERT INTO votos (id, votacion_id, opcion_id, user_id, user_email, fecha_voto) VALUES ($1, $2, $3, $4, $5, NOW())",
		uuid.New(), poll.ID, poll.Options[0].ID, voter.DNI, voter.Email,
	)
	assert.Error(t, err)
}

func TestDeletePollCascades(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	app := setupTestApp(t)
	defer app.Teardown(t)

	admin := app.registerMember(t, true, true, true)
	voter := app.registerMember(t, true, true, false)

	poll := app.createPoll(t, admin.Token, openWindowPayload("Calendario", "Opción 1", "Opción 2"))
	app.setToggle(t, admin.Token, "/api/polls/"+poll.ID.String()+"/publish", true)

	resp := app.postJSON(t, "/api/polls/"+poll.ID.String()+"/votes",
		map[string]any{"option_ids": []uuid.UUID{poll.Options[0].ID}}, voter.Token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, http.MethodDelete, "/api/polls/"+poll.ID.String(), nil, admin.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	for _, table := range []string{"opciones", "votos"} {
		var count int
		require.NoError(t, app.DB.QueryRow(
			"SELECT COUNT(*) FROM "+table+" WHERE votacion_id = $1", poll.ID,
		).Scan(&count))
		assert.Zero(t, count, table)
	}

	resp = app.getJSON(t, "/api/polls/"+poll.ID.String()+"/results", voter.Token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAdminOnlyPollManagement(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	app := setupTestApp(t)
	defer app.Teardown(t)

	admin := app.registerMember(t, true, true, true)
	member := app.registerMember(t, true, true, false)

	resp := app.postJSON(t, "/api/polls", openWindowPayload("Prohibida", "Sí", "No"), member.Token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	poll := app.createPoll(t, admin.Token, openWindowPayload("Borrador", "Sí", "No"))

	// Unpublished polls stay off the member-facing lists but show up on the
	// admin list.
	var published []overviewResponse
	resp = app.getJSON(t, "/api/polls", member.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &published)
	assert.Empty(t, published)

	resp = app.getJSON(t, "/api/polls/all", member.Token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	var all []overviewResponse
	resp = app.getJSON(t, "/api/polls/all", admin.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &all)
	require.Len(t, all, 1)
	assert.Equal(t, poll.ID, all[0].ID)
	assert.NotNil(t, all[0].Results, "admin list always carries the tabulation")
}
