// Package account is the client for the authentication backend:
// captcha generation, login, profile reads/updates, and the single-file
// upload used for avatars.
package account

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"lorehub/internal/backend"
	"lorehub/internal/domain"
	"lorehub/internal/domain/models"
)

// MaxUploadSize caps avatar uploads before any bytes leave the client.
const MaxUploadSize = 2 << 20

var allowedUploadExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type captchaRequest struct {
	CaptchaType string `json:"captcha_type"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// Client wraps the auth backend operations.
type Client struct {
	caller *backend.Caller
	logger *slog.Logger
}

func NewClient(caller *backend.Caller, logger *slog.Logger) *Client {
	return &Client{caller: caller, logger: logger}
}

// Captcha requests a fresh math captcha image.
func (c *Client) Captcha(ctx context.Context) (*models.Captcha, error) {
	var captcha models.Captcha
	req := captchaRequest{CaptchaType: "math", Width: 240, Height: 40}
	if err := c.caller.Post(ctx, "/captcha/generate", req, &captcha); err != nil {
		return nil, err
	}
	return &captcha, nil
}

// Login exchanges credentials plus a solved captcha for a bearer token.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	if err := validateLogin(req); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var result models.LoginResult
	if err := c.caller.Post(ctx, "/auth/login", req, &result); err != nil {
		return "", err
	}
	return result.Token, nil
}

// UserInfo fetches the profile of the token carried in ctx.
func (c *Client) UserInfo(ctx context.Context) (*models.UserInfo, error) {
	var info models.UserInfo
	if err := c.caller.Get(ctx, "/user/info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// UpdateUser applies a partial profile update and returns the new profile.
func (c *Client) UpdateUser(ctx context.Context, req models.UpdateUserRequest) (*models.UserInfo, error) {
	if err := validateUpdate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var info models.UserInfo
	if err := c.caller.Put(ctx, "/user/update", req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Upload sends one file as multipart form field "file". Type and size
// are validated locally; rejection never reaches the network layer.
func (c *Client) Upload(ctx context.Context, filename string, size int64, r io.Reader) (*models.UploadedFile, error) {
	if err := ValidateUpload(filename, size); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, &domain.TransportError{Op: "build upload", Err: err}
	}
	if _, err := io.Copy(part, io.LimitReader(r, MaxUploadSize)); err != nil {
		return nil, &domain.TransportError{Op: "read upload", Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &domain.TransportError{Op: "build upload", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.caller.BaseURL()+"/upload/single", &body)
	if err != nil {
		return nil, &domain.TransportError{Op: "build upload", Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var uploaded models.UploadedFile
	if err := c.caller.Do(req, &uploaded); err != nil {
		return nil, err
	}
	return &uploaded, nil
}

// ValidateUpload enforces the local image-only, size-capped upload
// policy. Exposed so handlers can reject before buffering the body.
func ValidateUpload(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedUploadExts[ext] {
		return fmt.Errorf("%w: unsupported file type %q", domain.ErrValidation, ext)
	}
	if size <= 0 || size > MaxUploadSize {
		return fmt.Errorf("%w: file size %d exceeds %d bytes", domain.ErrValidation, size, MaxUploadSize)
	}
	return nil
}

func validateLogin(req models.LoginRequest) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Username, validation.Required, validation.Length(1, 64)),
		validation.Field(&req.Password, validation.Required, validation.Length(1, 128)),
		validation.Field(&req.CaptchaID, validation.Required),
		validation.Field(&req.CaptchaValue, validation.Required),
	)
}

func validateUpdate(req models.UpdateUserRequest) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Nickname, validation.Length(0, 64)),
		validation.Field(&req.Password, validation.When(req.Password != "", validation.Length(6, 128))),
	)
}
