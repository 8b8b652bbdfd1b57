package domain

// QuestionSummary is what a room carries about a question. Bodies stay in the
// question bank and are fetched by clients on demand.
type QuestionSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty,omitempty"`
}

func CloneQuestions(in []QuestionSummary) []QuestionSummary {
	if in == nil {
		return nil
	}
	out := make([]QuestionSummary, len(in))
	copy(out, in)
	return out
}
