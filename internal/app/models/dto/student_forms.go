package dto

// ProfileForm binds the student profile update form
type ProfileForm struct {
	Name  string `form:"name" binding:"required"`
	Phone string `form:"phone"`
}
