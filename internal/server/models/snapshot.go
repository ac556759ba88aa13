package models

// Snapshot is the complete persisted state: users in creation order and a
// task bucket per username. Bucket order is the display order.
type Snapshot struct {
	Users []User            `json:"users"`
	Tasks map[string][]Task `json:"tasks"`
}

// NewSnapshot returns the empty state.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users: []User{},
		Tasks: map[string][]Task{},
	}
}

// Normalize replaces nil collections with empty ones so that a decoded
// document always satisfies the "bucket is a list, never null" rule.
func (s *Snapshot) Normalize() {
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Tasks == nil {
		s.Tasks = map[string][]Task{}
	}
	for name, tasks := range s.Tasks {
		if tasks == nil {
			s.Tasks[name] = []Task{}
		}
	}
}

// Clone returns a deep copy. Users and tasks are value types, so copying the
// slices is enough.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Users: make([]User, len(s.Users)),
		Tasks: make(map[string][]Task, len(s.Tasks)),
	}
	copy(c.Users, s.Users)
	for name, tasks := range s.Tasks {
		bucket := make([]Task, len(tasks))
		copy(bucket, tasks)
		c.Tasks[name] = bucket
	}
	return c
}

// FindUser returns the index of the user with the exact username, or -1.
func (s *Snapshot) FindUser(username string) int {
	for i := range s.Users {
		if s.Users[i].UserName == username {
			return i
		}
	}
	return -1
}

// Bucket returns the task list for username and whether the key exists.
func (s *Snapshot) Bucket(username string) ([]Task, bool) {
	tasks, ok := s.Tasks[username]
	return tasks, ok
}
