package report

import (
	"fmt"

	"github.com/pavelanni/reporter/internal/model"
)

// StrandResult counts correct answers within one strand.
type StrandResult struct {
	Strand  string `json:"strand"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
}

// FeedbackItem explains one incorrectly answered question. Correct and
// Incorrect are nil when the corresponding option id is not among the
// question's options.
type FeedbackItem struct {
	QuestionID string        `json:"questionId"`
	Question   string        `json:"question"`
	Strand     string        `json:"strand"`
	Correct    *model.Option `json:"correct,omitempty"`
	Incorrect  *model.Option `json:"incorrect,omitempty"`
	Hint       string        `json:"hint"`
}

// Scorer derives correctness from question configuration.
type Scorer struct {
	questions map[string]model.Question
}

// NewScorer creates a scorer over an id -> question index.
func NewScorer(questions map[string]model.Question) *Scorer {
	return &Scorer{questions: questions}
}

// IsCorrect reports whether the chosen option id equals the question's key.
func IsCorrect(q model.Question, a model.Answer) bool {
	return q.Config.Key == a.Response
}

func (s *Scorer) question(id string) (model.Question, error) {
	q, ok := s.questions[id]
	if !ok {
		return model.Question{}, fmt.Errorf("%w: %q", ErrQuestionNotFound, id)
	}
	return q, nil
}

// StrandBreakdown tallies answers per strand in first-encounter order.
func (s *Scorer) StrandBreakdown(resp model.StudentResponse) ([]StrandResult, error) {
	var results []StrandResult
	pos := make(map[string]int)
	for _, a := range resp.Responses {
		q, err := s.question(a.QuestionID)
		if err != nil {
			return nil, fmt.Errorf("response %s: %w", resp.ID, err)
		}
		i, ok := pos[q.Strand]
		if !ok {
			i = len(results)
			pos[q.Strand] = i
			results = append(results, StrandResult{Strand: q.Strand})
		}
		results[i].Total++
		if IsCorrect(q, a) {
			results[i].Correct++
		}
	}
	return results, nil
}

// ComputedScore counts correct answers. It may differ from the stored raw score.
func (s *Scorer) ComputedScore(resp model.StudentResponse) (int, error) {
	score := 0
	for _, a := range resp.Responses {
		q, err := s.question(a.QuestionID)
		if err != nil {
			return 0, fmt.Errorf("response %s: %w", resp.ID, err)
		}
		if IsCorrect(q, a) {
			score++
		}
	}
	return score, nil
}

// FeedbackItems returns one item per incorrect answer, in answer order.
func (s *Scorer) FeedbackItems(resp model.StudentResponse) ([]FeedbackItem, error) {
	items := []FeedbackItem{}
	for _, a := range resp.Responses {
		q, err := s.question(a.QuestionID)
		if err != nil {
			return nil, fmt.Errorf("response %s: %w", resp.ID, err)
		}
		if IsCorrect(q, a) {
			continue
		}
		items = append(items, FeedbackItem{
			QuestionID: q.ID,
			Question:   q.Stem,
			Strand:     q.Strand,
			Correct:    q.Config.Option(q.Config.Key),
			Incorrect:  q.Config.Option(a.Response),
			Hint:       q.Config.Hint,
		})
	}
	return items, nil
}
