package model

// QuizQuestion is one multiple-choice question.
type QuizQuestion struct {
	Text         string  `json:"text"`
	Answers      []string `json:"answers"`
	CorrectIndex int     `json:"correctIndex"`
	Pool         PoolKey `json:"edition"`
}

// DrawingWord is the secret word for a drawing round.
type DrawingWord struct {
	Word string  `json:"word"`
	Pool PoolKey `json:"edition"`
}

// VotingPrompt is the question players vote on.
type VotingPrompt struct {
	Prompt string  `json:"prompt"`
	Pool   PoolKey `json:"edition"`
}

// EmojiRiddle pairs an emoji sequence with its answer.
type EmojiRiddle struct {
	Emoji  string  `json:"emoji"`
	Answer string  `json:"answer"`
	Pool   PoolKey `json:"edition"`
}

// CategoryPrompt names the category for a category battle.
type CategoryPrompt struct {
	Prompt string  `json:"prompt"`
	Pool   PoolKey `json:"edition"`
}

// RoundContent is the content item selected for one round. Exactly one of
// the mode fields is set, matching Mode.
type RoundContent struct {
	Mode     GameMode        `json:"mode"`
	Quiz     *QuizQuestion   `json:"question,omitempty"`
	Drawing  *DrawingWord    `json:"drawing,omitempty"`
	Voting   *VotingPrompt   `json:"voting,omitempty"`
	Emoji    *EmojiRiddle    `json:"emoji,omitempty"`
	Category *CategoryPrompt `json:"category,omitempty"`
}
