package contract

const (
	MaxNoteTitleLength   = 200
	MaxNoteContentLength = 1000000
	MaxNoteTags          = 50
	MaxNoteTagLength     = 30
)

type NoteResponse struct {
	ID         int64    `json:"id,string"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	OwnerID    int64    `json:"owner,string"`
	SharedWith []string `json:"shared_with"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

type NoteRequest struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content" validate:"required,max=1000000" sanitize:"-"`
	Tags    []string `json:"tags" validate:"omitempty,max=50,nodupes,dive,required,max=30"`
}

// UpdateNoteRequest follows "absent or empty keeps the current value" semantics for
// title and content. A present tags array, even an empty one, replaces the tags.
type UpdateNoteRequest struct {
	Title   *string  `json:"title" validate:"omitempty,max=200"`
	Content *string  `json:"content" validate:"omitempty,max=1000000" sanitize:"-"`
	Tags    []string `json:"tags" validate:"omitempty,max=50,nodupes,dive,required,max=30"`
}

type ShareNoteRequest struct {
	Username string `json:"username" validate:"required"`
}

type ShareNoteResponse struct {
	Message string        `json:"message"`
	Note    *NoteResponse `json:"note"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
