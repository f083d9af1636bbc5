package domain

import "strings"

// Task is a single card inside a column.
type Task struct {
	ID    string `json:"id" yaml:"id"`
	Text  string `json:"text" yaml:"text"`
	Color Color  `json:"color" yaml:"color"`
}

// NewTask validates and constructs a task with the default color. Text is
// stored as given; only whitespace-only text is rejected.
func NewTask(id, text string) (Task, error) {
	id = strings.TrimSpace(id)
	if strings.TrimSpace(text) == "" {
		return Task{}, ErrInvalidText
	}
	if id == "" {
		return Task{}, ErrInvalidID
	}
	return Task{ID: id, Text: text, Color: DefaultColor}, nil
}

// Recolor sets the task color.
func (t *Task) Recolor(c Color) error {
	if !c.Valid() {
		return ErrInvalidColor
	}
	t.Color = c
	return nil
}
