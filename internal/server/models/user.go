package models

// User is a task list owner. Username is the unique, case-sensitive key.
type User struct {
	UserName  string `json:"username"`
	CreatedAt string `json:"created_at"`
}
