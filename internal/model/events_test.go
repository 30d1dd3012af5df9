package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAction(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  string
		want PlayerAction
	}{
		{
			name: "host next round",
			raw:  `{"type":"host_next_round","nextMode":"quiz"}`,
			want: HostNextRound{NextMode: ModeQuiz},
		},
		{
			name: "host set round seconds",
			raw:  `{"type":"host_set_round_seconds","roundSeconds":90}`,
			want: HostSetRoundSeconds{RoundSeconds: 90},
		},
		{
			name: "host set editions",
			raw:  `{"type":"host_set_editions","editions":["film","gaming"]}`,
			want: HostSetPools{Pools: []PoolKey{PoolFilm, PoolGaming}},
		},
		{
			name: "host set max rounds",
			raw:  `{"type":"host_set_max_rounds","maxRounds":3}`,
			want: HostSetMaxRounds{MaxRounds: 3},
		},
		{
			name: "quiz submit",
			raw:  `{"type":"quiz_submit","answerIndex":2}`,
			want: QuizSubmit{AnswerIndex: 2},
		},
		{
			name: "voting submit",
			raw:  `{"type":"voting_submit","targetPlayerId":"p2"}`,
			want: VotingSubmit{Target: "p2"},
		},
		{
			name: "drawing guess",
			raw:  `{"type":"drawing_guess","guess":"Vulkan"}`,
			want: DrawingGuess{Guess: "Vulkan"},
		},
		{
			name: "emoji submit",
			raw:  `{"type":"emoji_submit","guess":"Titanic"}`,
			want: EmojiSubmit{Guess: "Titanic"},
		},
		{
			name: "category bid",
			raw:  `{"type":"category_bid","bid":7}`,
			want: CategoryBid{Bid: 7},
		},
		{
			name: "category words",
			raw:  `{"type":"category_words","words":["Bayern","Dortmund"]}`,
			want: CategoryWords{Words: []string{"Bayern", "Dortmund"}},
		},
		{
			name: "category validate",
			raw:  `{"type":"category_validate","accepted":[true,false]}`,
			want: CategoryValidate{Accepted: []bool{true, false}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeAction(json.RawMessage(tc.raw))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeActionRoundTrip(t *testing.T) {
	action, err := DecodeAction(json.RawMessage(`{"type":"quiz_submit","answerIndex":1}`))
	require.NoError(t, err)
	assert.Equal(t, "quiz_submit", ActionType(action))
}

func TestDecodeActionUnknownType(t *testing.T) {
	_, err := DecodeAction(json.RawMessage(`{"type":"karaoke_submit"}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestDecodeActionMalformed(t *testing.T) {
	_, err := DecodeAction(json.RawMessage(`{"type":`))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = DecodeAction(json.RawMessage(`{"type":"quiz_submit","answerIndex":"two"}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
