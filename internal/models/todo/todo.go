package todo

import "time"

type Todo struct {
	ID        string     `json:"id" db:"id"`
	Text      string     `json:"text" db:"text"`
	Deadline  *time.Time `json:"deadline,omitempty" db:"deadline"`
	Done      bool       `json:"done" db:"done"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// Clone returns a deep copy, so stores can hand out records without sharing
// the deadline pointer.
func (t *Todo) Clone() *Todo {
	if t == nil {
		return nil
	}
	c := *t
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	return &c
}

// Patch holds the fields of a partial update. Nil fields are left untouched.
type Patch struct {
	Text     *string
	Deadline *time.Time
	Done     *bool
}

func NewPatch(options ...PatchOption) Patch {
	var p Patch
	for _, opt := range options {
		if opt != nil {
			opt(&p)
		}
	}
	return p
}

func (p Patch) Empty() bool {
	return p.Text == nil && p.Deadline == nil && p.Done == nil
}

func (p Patch) Apply(t *Todo) {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Deadline != nil {
		d := *p.Deadline
		t.Deadline = &d
	}
	if p.Done != nil {
		t.Done = *p.Done
	}
}
