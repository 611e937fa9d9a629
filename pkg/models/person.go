package models

// Person is an entry from the external people cache. Only the id is required
// by the core; connections are held as ids and resolved at the boundary.
type Person struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Email       string   `json:"email"`
	Connections []string `json:"connections,omitempty"`
}
