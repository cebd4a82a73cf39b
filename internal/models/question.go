package models

// Category is one of the NCLEX client-need categories.
type Category struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	QuestionCount int      `json:"question_count" yaml:"question_count"`
	Weight        int      `json:"weight" yaml:"weight"` // share of the exam, percent
	Subcategories []string `json:"subcategories" yaml:"subcategories"`
}

type Option struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Text  string `json:"text" yaml:"text"`
}

type StudyLink struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// Question is immutable once loaded from the content catalog.
type Question struct {
	ID            int         `json:"id" yaml:"id"`
	Text          string      `json:"text" yaml:"text"`
	Type          string      `json:"type" yaml:"type"`
	Difficulty    string      `json:"difficulty" yaml:"difficulty"` // Easy, Medium, Hard
	CategoryID    string      `json:"category_id" yaml:"category"`
	Category      string      `json:"category" yaml:"-"`
	Points        int         `json:"points" yaml:"points"`
	Image         string      `json:"image,omitempty" yaml:"image"`
	HasExhibit    bool        `json:"has_exhibit" yaml:"has_exhibit"`
	Options       []Option    `json:"options" yaml:"options"`
	CorrectAnswer string      `json:"-" yaml:"correct_answer"`
	Rationale     string      `json:"-" yaml:"rationale"`
	StudyLinks    []StudyLink `json:"-" yaml:"study_links"`
}

// HasOption reports whether id names one of the question's options.
func (q Question) HasOption(id string) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}
