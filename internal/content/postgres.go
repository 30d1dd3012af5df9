package content

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/partypop/partypop/internal/model"
)

// PostgresConfig holds configuration for the Postgres content provider.
type PostgresConfig struct {
	URL          string
	QueryTimeout time.Duration
}

// DefaultPostgresConfig returns sensible defaults.
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		QueryTimeout: 3 * time.Second,
	}
}

// PostgresProvider reads content pools from Postgres. Rows are always read
// in id order so the seed-based pick stays deterministic across calls.
type PostgresProvider struct {
	db  *sqlx.DB
	cfg PostgresConfig
}

var _ Provider = (*PostgresProvider)(nil)

// NewPostgresProvider connects to Postgres and verifies the connection.
func NewPostgresProvider(cfg PostgresConfig) (*PostgresProvider, error) {
	db, err := sqlx.Connect("postgres", cfg.URL)
	if err != nil {
		return nil, err
	}
	return &PostgresProvider{db: db, cfg: cfg}, nil
}

// NewPostgresProviderWithDB wraps an existing connection (for testing).
func NewPostgresProviderWithDB(db *sqlx.DB, cfg PostgresConfig) *PostgresProvider {
	return &PostgresProvider{db: db, cfg: cfg}
}

// Close releases the connection pool.
func (p *PostgresProvider) Close() error {
	return p.db.Close()
}

// CheckHealth pings the database.
func (p *PostgresProvider) CheckHealth(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.QueryTimeout)
	defer cancel()
	return p.db.PingContext(ctx)
}

// Lookup selects the seed-determined row for the round.
func (p *PostgresProvider) Lookup(ctx context.Context, code model.RoomCode, round int, mode model.GameMode, pools []model.PoolKey) (*model.RoundContent, error) {
	pools = normalizePools(mode, pools)
	seed := Seed(code, round, mode)

	ctx, cancel := context.WithTimeout(ctx, p.cfg.QueryTimeout)
	defer cancel()

	poolArgs := make([]string, len(pools))
	for i, pool := range pools {
		poolArgs[i] = string(pool)
	}

	switch mode {
	case model.ModeQuiz:
		var rows []struct {
			Pool         model.PoolKey `db:"edition"`
			Question     string        `db:"question"`
			Answers      pq.StringArray `db:"answers"`
			CorrectIndex int           `db:"correct_index"`
		}
		if err := p.selectPool(ctx, &rows,
			`select edition, question, answers, correct_index
			 from quiz_questions
			 where is_active = true and edition = any($1)
			 order by id`, poolArgs); err != nil {
			return nil, err
		}
		idx := pickIndex(seed, len(rows))
		if idx < 0 {
			return nil, model.ErrNoContent
		}
		row := rows[idx]
		return &model.RoundContent{Mode: mode, Quiz: &model.QuizQuestion{
			Text:         row.Question,
			Answers:      row.Answers,
			CorrectIndex: row.CorrectIndex,
			Pool:         row.Pool,
		}}, nil

	case model.ModeDrawing:
		var rows []struct {
			Pool model.PoolKey `db:"edition"`
			Word string        `db:"word"`
		}
		if err := p.selectPool(ctx, &rows,
			`select edition, word
			 from drawing_words
			 where is_active = true and edition = any($1)
			 order by id`, poolArgs); err != nil {
			return nil, err
		}
		idx := pickIndex(seed, len(rows))
		if idx < 0 {
			return nil, model.ErrNoContent
		}
		row := rows[idx]
		return &model.RoundContent{Mode: mode, Drawing: &model.DrawingWord{
			Word: row.Word,
			Pool: row.Pool,
		}}, nil

	case model.ModeVoting:
		var rows []struct {
			Pool   model.PoolKey `db:"edition"`
			Prompt string        `db:"prompt"`
		}
		if err := p.selectPool(ctx, &rows,
			`select edition, prompt
			 from voting_prompts
			 where is_active = true and edition = any($1)
			 order by id`, poolArgs); err != nil {
			return nil, err
		}
		idx := pickIndex(seed, len(rows))
		if idx < 0 {
			return nil, model.ErrNoContent
		}
		row := rows[idx]
		return &model.RoundContent{Mode: mode, Voting: &model.VotingPrompt{
			Prompt: row.Prompt,
			Pool:   row.Pool,
		}}, nil

	case model.ModeEmoji:
		var rows []struct {
			Pool   model.PoolKey `db:"edition"`
			Emoji  string        `db:"emoji"`
			Answer string        `db:"answer"`
		}
		if err := p.selectPool(ctx, &rows,
			`select edition, emoji, answer
			 from emoji_riddles
			 where is_active = true and edition = any($1)
			 order by id`, poolArgs); err != nil {
			return nil, err
		}
		idx := pickIndex(seed, len(rows))
		if idx < 0 {
			return nil, model.ErrNoContent
		}
		row := rows[idx]
		return &model.RoundContent{Mode: mode, Emoji: &model.EmojiRiddle{
			Emoji:  row.Emoji,
			Answer: row.Answer,
			Pool:   row.Pool,
		}}, nil

	case model.ModeCategory:
		var rows []struct {
			Pool   model.PoolKey `db:"edition"`
			Prompt string        `db:"prompt"`
		}
		if err := p.selectPool(ctx, &rows,
			`select edition, prompt
			 from category_prompts
			 where is_active = true and edition = any($1)
			 order by id`, poolArgs); err != nil {
			return nil, err
		}
		idx := pickIndex(seed, len(rows))
		if idx < 0 {
			return nil, model.ErrNoContent
		}
		row := rows[idx]
		return &model.RoundContent{Mode: mode, Category: &model.CategoryPrompt{
			Prompt: row.Prompt,
			Pool:   row.Pool,
		}}, nil
	}

	return nil, model.ErrUnknownMode
}

func (p *PostgresProvider) selectPool(ctx context.Context, dest any, query string, pools []string) error {
	return p.db.SelectContext(ctx, dest, query, pq.StringArray(pools))
}
