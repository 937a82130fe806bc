package model

// QuestionPaper is a generated exam-style paper with sections and
// a marks distribution.
type QuestionPaper struct {
	Title      string         `json:"title"`
	TotalMarks int            `json:"total_marks"`
	Duration   string         `json:"duration,omitempty"` // e.g. "3 hours"
	Sections   []PaperSection `json:"sections"`
}

// PaperSection groups paper questions under a heading (e.g. "Section A").
type PaperSection struct {
	Name      string          `json:"name"`
	Questions []PaperQuestion `json:"questions"`
}

// PaperQuestion is one question on the paper with its mark weight.
type PaperQuestion struct {
	Question string `json:"question"`
	Marks    int    `json:"marks"`
}

// MarksTotal sums the marks of every question in every section.
func (p *QuestionPaper) MarksTotal() int {
	total := 0
	for _, s := range p.Sections {
		for _, q := range s.Questions {
			total += q.Marks
		}
	}
	return total
}
