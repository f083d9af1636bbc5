package domain

import "strings"

// Column is an ordered list of tasks with a title.
type Column struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Tasks []Task `json:"tasks" yaml:"tasks"`
}

// NewColumn constructs an empty column.
func NewColumn(id, title string) (Column, error) {
	id = strings.TrimSpace(id)
	if strings.TrimSpace(title) == "" {
		return Column{}, ErrInvalidTitle
	}
	if id == "" {
		return Column{}, ErrInvalidID
	}
	return Column{ID: id, Title: title, Tasks: []Task{}}, nil
}

// Rename sets a new title, kept as given.
func (c *Column) Rename(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrInvalidTitle
	}
	c.Title = title
	return nil
}

// TaskIndex returns the position of the task with id, or -1.
func (c Column) TaskIndex(id string) int {
	for i, t := range c.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
