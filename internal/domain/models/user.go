package models

// UserInfo is the profile returned by GET /user/info. The in-memory
// session store caches this; the bearer token is the source of truth.
type UserInfo struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	Avatar    string `json:"avatar"`
	Status    int    `json:"status"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Captcha is one generated image challenge.
type Captcha struct {
	CaptchaID     string `json:"captcha_id"`
	CaptchaBase64 string `json:"captcha_base64"`
}

// LoginRequest is the credentials payload for POST /auth/login.
type LoginRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	CaptchaID    string `json:"captcha_id"`
	CaptchaValue string `json:"captcha_value"`
}

// LoginResult carries the issued bearer token.
type LoginResult struct {
	Token string `json:"token"`
}

// UpdateUserRequest is a partial profile update; empty fields are
// omitted from the PUT body.
type UpdateUserRequest struct {
	Nickname string `json:"nickname,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Password string `json:"password,omitempty"`
}

// UploadedFile describes a stored file after POST /upload/single.
type UploadedFile struct {
	OriginalName string `json:"original_name"`
	FileName     string `json:"file_name"`
	FilePath     string `json:"file_path"`
	FileSize     int64  `json:"file_size"`
	ContentType  string `json:"content_type"`
	FileType     string `json:"file_type"`
	UploadTime   string `json:"upload_time"`
	MD5Hash      string `json:"md5_hash"`
}
