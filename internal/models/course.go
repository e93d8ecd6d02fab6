// Package models provides data model definitions for UniSphere.
package models

import "time"

// DefaultCourseColor is the process-wide theme color applied to every course.
// The color is cosmetic and not user-editable.
const DefaultCourseColor = "#6366F1"

// Course represents one academic module a user organizes notes under.
type Course struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	CreatedAt   int64  `json:"createdAt"` // milliseconds since epoch
}

// CreatedAtTime returns CreatedAt as time.Time.
func (c *Course) CreatedAtTime() time.Time {
	return time.UnixMilli(c.CreatedAt)
}

// Validate checks required fields.
func (c *Course) Validate() error {
	if c.ID == "" {
		return errRequired("id")
	}
	if c.Name == "" {
		return errRequired("name")
	}
	return nil
}
