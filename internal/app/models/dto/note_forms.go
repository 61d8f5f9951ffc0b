package dto

// NoteForm binds the add/edit note form submission
type NoteForm struct {
	Student int64  `form:"student" binding:"required"`
	Content string `form:"content" binding:"required"`
}

// SearchQuery binds the keyword search query string. An empty keyword matches
// every note in the caller's scope.
type SearchQuery struct {
	Keyword string `form:"keyword"`
}

// ListQuery binds the optional student filter on the notes list.
type ListQuery struct {
	Student string `form:"student"`
}
