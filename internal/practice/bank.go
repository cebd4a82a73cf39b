package practice

import (
	"strings"

	"github.com/vytor/nclexnav/internal/models"
)

// Bank is the immutable pool of questions a session draws its deck from.
type Bank struct {
	questions []models.Question
}

func NewBank(questions []models.Question) *Bank {
	return &Bank{questions: append([]models.Question(nil), questions...)}
}

func (b *Bank) Len() int {
	if b == nil {
		return 0
	}
	return len(b.questions)
}

// Deck returns n questions for a session. Custom configurations narrow the
// pool by category and difficulty; an empty narrowed pool falls back to the
// whole bank. A pool smaller than n repeats in order.
func (b *Bank) Deck(n int, cfg *CustomConfig) ([]models.Question, error) {
	if b.Len() == 0 {
		return nil, ErrEmptyBank
	}
	pool := b.filter(cfg)
	if len(pool) == 0 {
		pool = b.questions
	}
	deck := make([]models.Question, n)
	for i := range deck {
		deck[i] = pool[i%len(pool)]
	}
	return deck, nil
}

func (b *Bank) filter(cfg *CustomConfig) []models.Question {
	if cfg == nil {
		return b.questions
	}
	cats := make(map[string]struct{}, len(cfg.Categories))
	for _, c := range cfg.Categories {
		cats[c] = struct{}{}
	}
	diff := cfg.difficulty()

	var out []models.Question
	for _, q := range b.questions {
		if len(cats) > 0 {
			if _, ok := cats[q.CategoryID]; !ok {
				continue
			}
		}
		if diff != DifficultyMixed && strings.ToLower(q.Difficulty) != diff {
			continue
		}
		out = append(out, q)
	}
	return out
}
