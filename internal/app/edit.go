package app

// EditMode is either Idle or Editing. The unexported method closes the set.
type EditMode interface {
	isEditMode()
}

// Idle means the next submit appends a new todo.
type Idle struct{}

// Editing means the next submit rewrites the todo with ID.
type Editing struct {
	ID int64
}

func (Idle) isEditMode()    {}
func (Editing) isEditMode() {}
