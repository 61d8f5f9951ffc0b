package dto

// LoginForm binds the login form submission
type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// RegisterForm binds the registration form submission
type RegisterForm struct {
	Name            string `form:"name" binding:"required"`
	Email           string `form:"email" binding:"required,email"`
	Password        string `form:"password" binding:"required,min=8"`
	PasswordConfirm string `form:"passwordConfirm" binding:"required"`
	Role            string `form:"role" binding:"required,oneof=counselor student COUNSELOR STUDENT"`
}
