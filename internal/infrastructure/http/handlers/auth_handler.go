package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/otpgate/internal/application/auth"
	"github.com/amirhosseinghanipour/otpgate/internal/domain"
	"github.com/amirhosseinghanipour/otpgate/internal/infrastructure/http/middleware"
)

// AuthUseCases groups the orchestrator operations served over HTTP.
type AuthUseCases struct {
	Register             *auth.RegisterUser
	Login                *auth.Login
	VerifyOTP            *auth.VerifyOTP
	Logout               *auth.Logout
	ForgotPassword       *auth.ForgotPassword
	VerifyForgotPassword *auth.VerifyForgotPassword
	ResetPassword        *auth.ResetPassword
	GetProfile           *auth.GetProfile
}

type AuthHandler struct {
	uc       AuthUseCases
	audit    *Auditor
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuthHandler(uc AuthUseCases, audit *Auditor, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:       uc,
		audit:    audit,
		validate: newValidator(),
		log:      log,
	}
}

// UserResponse is the public view of an account; the password hash never leaves the server.
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	IsActive    bool      `json:"isActive"`
	Role        string    `json:"role"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address,omitempty"`
	Image       string    `json:"image,omitempty"`
	AccountType string    `json:"accountType"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toUserResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		Name:        u.Name,
		IsActive:    u.IsActive,
		Role:        string(u.Role),
		Phone:       u.Phone,
		Address:     u.Address,
		Image:       u.Image,
		AccountType: string(u.AccountType),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type pendingResponse struct {
	Message  string `json:"message"`
	IsActive bool   `json:"isActive"`
}

type tokenResponse struct {
	Message     string        `json:"message"`
	AccessToken string        `json:"accessToken"`
	TokenType   string        `json:"tokenType"`
	ExpiresIn   int64         `json:"expiresIn"`
	User        *UserResponse `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name" validate:"required,min=2,max=50"`
		Email    string `json:"email" validate:"required,email,max=254"`
		Password string `json:"password" validate:"required,min=8,maxbytes=72"`
		Phone    string `json:"phone" validate:"omitempty,max=32"`
		Address  string `json:"address" validate:"omitempty,max=255"`
		Image    string `json:"image" validate:"omitempty,url,max=2048"`
	}
	if msg, ok := decodeAndValidate(r, h.validate, &body); !ok {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, msg)
		return
	}
	result, err := h.uc.Register.Execute(r.Context(), auth.RegisterUserInput{
		Email:    SanitizeEmail(body.Email),
		Password: body.Password,
		Profile: domain.Profile{
			Name:    body.Name,
			Phone:   body.Phone,
			Address: body.Address,
			Image:   body.Image,
		},
	})
	if err != nil {
		h.audit.Record(r, "user.register", "", false, err.Error())
		writeDomainErr(w, h.log, err)
		return
	}
	h.audit.Record(r, "user.register", result.User.ID.String(), true, "")
	writeJSON(w, http.StatusCreated, pendingResponse{Message: result.Message, IsActive: result.User.IsActive})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email,max=254"`
		Password string `json:"password" validate:"required,min=8,maxbytes=72"`
	}
	if msg, ok := decodeAndValidate(r, h.validate, &body); !ok {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, msg)
		return
	}
	result, err := h.uc.Login.Execute(r.Context(), auth.LoginInput{
		Email:    SanitizeEmail(body.Email),
		Password: body.Password,
	})
	if err != nil {
		h.audit.Record(r, "user.login", "", false, err.Error())
		writeDomainErr(w, h.log, err)
		return
	}
	if result.VerificationRequired {
		h.audit.Record(r, "user.login", result.User.ID.String(), false, "account not active")
		writeJSON(w, http.StatusOK, pendingResponse{Message: result.Message, IsActive: false})
		return
	}
	h.audit.Record(r, "user.login", result.User.ID.String(), true, "")
	writeJSON(w, http.StatusOK, tokenResponse{
		Message:     result.Message,
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   result.ExpiresIn,
		User:        toUserResponse(result.User),
	})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email" validate:"required,email,max=254"`
		OTP   string `json:"otp" validate:"required,min=6,max=6,numeric"`
	}
	if msg, ok := decodeAndValidate(r, h.validate, &body); !ok {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, msg)
		return
	}
	result, err := h.uc.VerifyOTP.Execute(r.Context(), auth.VerifyOTPInput{
		Email: SanitizeEmail(body.Email),
		OTP:   body.OTP,
	})
	if err != nil {
		h.audit.Record(r, "user.verify", "", false, err.Error())
		writeDomainErr(w, h.log, err)
		return
	}
	h.audit.Record(r, "user.verify", result.User.ID.String(), true, "")
	writeJSON(w, http.StatusOK, tokenResponse{
		Message:     result.Message,
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   result.ExpiresIn,
		User:        toUserResponse(result.User),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	result, err := h.uc.Logout.Execute(r.Context(), auth.LogoutInput{
		Authorization: r.Header.Get("Authorization"),
	})
	if err != nil {
		h.audit.Record(r, "user.logout", "", false, err.Error())
		writeDomainErr(w, h.log, err)
		return
	}
	h.audit.Record(r, "user.logout", result.UserID, true, "")
	writeJSON(w, http.StatusOK, messageResponse{Message: result.Message})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email" validate:"required,email,max=254"`
	}
	if msg, ok := decodeAndValidate(r, h.validate, &body); !ok {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, msg)
		return
	}
	result, err := h.uc.ForgotPassword.Execute(r.Context(), auth.ForgotPasswordInput{Email: SanitizeEmail(body.Email)})
	if err != nil {
		h.audit.Record(r, "password.forgot", "", false, err.Error())
		writeDomainErr(w, h.log, err)
		return
	}
	h.audit.Record(r, "password.forgot", result.UserID, true, "")
	writeJSON(w, http.StatusOK, messageResponse{Message: result.Message})
}

func (h *AuthHandler) VerifyForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Key string `json:"key" validate:"required,max=2048"`
	}
	if msg, ok := decodeAndValidate(r, h.validate, &body); !ok {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, msg)
		return
	}
	result, err := h.uc.VerifyForgotPassword.Execute(r.Context(), auth.VerifyForgotPasswordInput{Key: SanitizeToken(body.Key)})
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: result.Message})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Key      string `json:"key" validate:"required,max=2048"`
		Password string `json:"password" validate:"required,min=8,maxbytes=72"`
	}
	if msg, ok := decodeAndValidate(r, h.validate, &body); !ok {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, msg)
		return
	}
	result, err := h.uc.ResetPassword.Execute(r.Context(), auth.ResetPasswordInput{
		Key:      SanitizeToken(body.Key),
		Password: body.Password,
	})
	if err != nil {
		h.audit.Record(r, "password.reset", "", false, err.Error())
		writeDomainErr(w, h.log, err)
		return
	}
	h.audit.Record(r, "password.reset", result.UserID, true, "")
	writeJSON(w, http.StatusOK, messageResponse{Message: result.Message})
}

// Profile must be mounted behind middleware.AuthValidator.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
		return
	}
	result, err := h.uc.GetProfile.Execute(r.Context(), auth.GetProfileInput{UserID: claims.UserID})
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(result.User))
}
