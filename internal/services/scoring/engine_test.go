package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partypop/partypop/internal/model"
)

func quizRoom(correct int) *model.Room {
	return &model.Room{
		Round: 1,
		Players: []*model.Player{
			{ID: "p1", Name: "Anna", Connected: true},
			{ID: "p2", Name: "Ben", Connected: true},
		},
		Submissions: map[model.PlayerID]string{},
		Content: &model.RoundContent{
			Quiz: &model.QuizQuestion{CorrectIndex: correct},
		},
	}
}

func TestQuizAnswer(t *testing.T) {
	engine := New(DefaultConfig())
	room := quizRoom(2)

	awards := engine.QuizAnswer(room, "p1", 2)
	require.Len(t, awards, 1)
	assert.Equal(t, model.PlayerID("p1"), awards[0].Player)
	assert.Equal(t, 100, awards[0].Delta)

	assert.Empty(t, engine.QuizAnswer(room, "p1", 1))

	// Resubmission carries the same idempotency key.
	again := engine.QuizAnswer(room, "p1", 2)
	require.Len(t, again, 1)
	assert.Equal(t, awards[0].Key, again[0].Key)
}

func TestQuizAnswerWithoutContent(t *testing.T) {
	engine := New(DefaultConfig())
	room := quizRoom(0)
	room.Content = nil

	assert.Empty(t, engine.QuizAnswer(room, "p1", 0))
}

func TestDrawingGuessRankedAwards(t *testing.T) {
	engine := New(DefaultConfig())
	room := &model.Room{Round: 1}

	for _, tc := range []struct {
		rank  int
		delta int
	}{
		{0, 100},
		{1, 80},
		{4, 20},
		{5, 0},
		{9, 0},
	} {
		awards := engine.DrawingGuess(room, "drawer", "guesser", tc.rank)
		require.Len(t, awards, 2)
		assert.Equal(t, tc.delta, awards[0].Delta, "rank %d", tc.rank)
		assert.Equal(t, 40, awards[1].Delta)
		assert.Equal(t, model.PlayerID("drawer"), awards[1].Player)
	}
}

func TestEmojiGuessFloor(t *testing.T) {
	engine := New(DefaultConfig())
	room := &model.Room{Round: 1}

	for _, tc := range []struct {
		rank  int
		delta int
	}{
		{0, 120},
		{1, 100},
		{3, 60},
		{4, 40},
		{8, 40},
	} {
		awards := engine.EmojiGuess(room, "p1", tc.rank)
		require.Len(t, awards, 1)
		assert.Equal(t, tc.delta, awards[0].Delta, "rank %d", tc.rank)
	}
}

func TestVotingResultWaitsForAllVotes(t *testing.T) {
	engine := New(DefaultConfig())
	room := quizRoom(0)
	room.Submissions["p1"] = "p2"

	assert.Empty(t, engine.VotingResult(room))
}

func TestVotingResultAwardsNonChosen(t *testing.T) {
	engine := New(DefaultConfig())
	room := &model.Room{
		Round: 1,
		Players: []*model.Player{
			{ID: "p1", Name: "Anna", Connected: true},
			{ID: "p2", Name: "Ben", Connected: true},
			{ID: "p3", Name: "Cleo", Connected: true},
		},
		Submissions: map[model.PlayerID]string{
			"p1": "p2",
			"p2": "p1",
			"p3": "p2",
		},
	}

	awards := engine.VotingResult(room)
	require.Len(t, awards, 2)
	for _, a := range awards {
		assert.NotEqual(t, model.PlayerID("p2"), a.Player)
		assert.Equal(t, 50, a.Delta)
	}
}

func TestVotingResultTieBreaksByName(t *testing.T) {
	engine := New(DefaultConfig())
	room := &model.Room{
		Round: 1,
		Players: []*model.Player{
			{ID: "p1", Name: "Zara", Connected: true},
			{ID: "p2", Name: "Anna", Connected: true},
		},
		Submissions: map[model.PlayerID]string{
			"p1": "p2",
			"p2": "p1",
		},
	}

	// One vote each; "Anna" sorts before "Zara", so p2 is chosen.
	awards := engine.VotingResult(room)
	require.Len(t, awards, 1)
	assert.Equal(t, model.PlayerID("p1"), awards[0].Player)
}

func TestVotingResultCountsDisconnectedTargets(t *testing.T) {
	engine := New(DefaultConfig())
	room := &model.Room{
		Round: 1,
		Players: []*model.Player{
			{ID: "p1", Name: "Anna", Connected: true},
			{ID: "p2", Name: "Ben", Connected: true},
			{ID: "p3", Name: "Cleo", Connected: false},
		},
		Submissions: map[model.PlayerID]string{
			"p1": "p3",
			"p2": "p3",
		},
	}

	// Only connected players must vote; the disconnected target still loses.
	awards := engine.VotingResult(room)
	require.Len(t, awards, 2)
	for _, a := range awards {
		assert.NotEqual(t, model.PlayerID("p3"), a.Player)
	}
}

func TestCategoryResult(t *testing.T) {
	engine := New(DefaultConfig())
	room := &model.Room{
		Round: 1,
		Category: &model.CategoryRound{
			WinnerID:   "p1",
			WinningBid: 4,
			Validated:  true,
			Succeeded:  true,
		},
	}

	awards := engine.CategoryResult(room)
	require.Len(t, awards, 1)
	assert.Equal(t, 200, awards[0].Delta)

	room.Category.Succeeded = false
	awards = engine.CategoryResult(room)
	require.Len(t, awards, 1)
	assert.Equal(t, -50, awards[0].Delta)
}

func TestCategoryResultRequiresValidation(t *testing.T) {
	engine := New(DefaultConfig())
	room := &model.Room{
		Round:    1,
		Category: &model.CategoryRound{WinnerID: "p1", WinningBid: 4},
	}

	assert.Empty(t, engine.CategoryResult(room))
}

func TestNormalize(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"Häuser-Boot", "hauserboot"},
		{"  Café  ", "cafe"},
		{"Über Cool!", "ubercool"},
		{"König der Löwen", "konigderlowen"},
		{"R2-D2", "r2d2"},
		{"!!!", ""},
	} {
		assert.Equal(t, tc.want, Normalize(tc.in), "input %q", tc.in)
	}
}

func TestGuessMatches(t *testing.T) {
	assert.True(t, GuessMatches("häuserboot", "Häuser-Boot"))
	assert.True(t, GuessMatches("PAC MAN", "Pac-Man"))
	assert.False(t, GuessMatches("", ""))
	assert.False(t, GuessMatches("!!!", "!!!"))
	assert.False(t, GuessMatches("titanic", "Jurassic Park"))
}
