package models

// Request bodies bound by the controllers. The custom tags username, strongpassword and
// emailaddr are registered in utils.RegisterValidators.

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,emailaddr,max=255"`
	Username string `json:"username" binding:"required,username"`
	Password string `json:"password" binding:"required,strongpassword"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user"`
}

type CreatePostRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=50"`
	Content string `json:"content" binding:"required,min=1"`
}

// UpdatePostRequest is a partial update; nil fields are left unchanged.
type UpdatePostRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=50"`
	Content *string `json:"content" binding:"omitempty,min=1"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=500"`
}
