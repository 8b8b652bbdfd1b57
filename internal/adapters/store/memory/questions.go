package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/dkeye/peerview/internal/domain"
)

// Questions is a per-domain question catalog. Domains match case-insensitively.
type Questions struct {
	mu      sync.RWMutex
	catalog map[string][]domain.QuestionSummary
}

func NewQuestions() *Questions {
	return &Questions{catalog: make(map[string][]domain.QuestionSummary)}
}

// Add appends questions to a domain.
func (q *Questions) Add(domainName string, qs ...domain.QuestionSummary) {
	q.mu.Lock()
	defer q.mu.Unlock()
	key := strings.ToLower(domainName)
	q.catalog[key] = append(q.catalog[key], qs...)
}

// FetchQuestionSet returns up to count questions in catalog order.
func (q *Questions) FetchQuestionSet(_ context.Context, domainName string, count int) ([]domain.QuestionSummary, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	qs := q.catalog[strings.ToLower(domainName)]
	if count > len(qs) {
		count = len(qs)
	}
	if count <= 0 {
		return nil, nil
	}
	return domain.CloneQuestions(qs[:count]), nil
}
