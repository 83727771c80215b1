package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/contractor-scheduler/internal/auth"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain"
	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/contractor-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/contractor-scheduler/internal/logger"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
	"github.com/BruksfildServices01/contractor-scheduler/internal/validators"
)

type AuthHandler struct {
	users      *repository.UserGormRepository
	tokens     *auth.Tokens
	checkEmail validators.EmailChecker
}

func NewAuthHandler(
	users *repository.UserGormRepository,
	tokens *auth.Tokens,
	checkEmail validators.EmailChecker,
) *AuthHandler {
	if checkEmail == nil {
		checkEmail = validators.IsEmailDomainValid
	}
	return &AuthHandler{users: users, tokens: tokens, checkEmail: checkEmail}
}

// --------- Requests ---------

type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	PhoneNumber string `json:"phoneNumber"`
}

type LoginRequest struct {
	// Login is a username or an e-mail address.
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if !h.checkEmail(c.Request.Context(), email) {
		httperr.BadRequest(c, "invalid_email_domain", "The e-mail domain does not look valid")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not register user")
		return
	}

	user := models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		PasswordHash: string(hashed),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
	}

	if err := h.users.Create(c.Request.Context(), &user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			httperr.Write(c, http.StatusConflict, "user_exists", "Username or e-mail already registered")
			return
		}
		httperr.Respond(c, err, "Could not register user")
		return
	}

	h.respondWithToken(c, http.StatusCreated, &user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	login := strings.TrimSpace(req.Login)
	if strings.Contains(login, "@") {
		login = validators.NormalizeEmail(login)
	}

	user, err := h.users.GetByLogin(c.Request.Context(), login)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials")
			return
		}
		httperr.Respond(c, err, "Could not log in")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials")
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := h.tokens.Issue(user.ID, user.ContractorID)
	if err != nil {
		logger.FromGin(c).Error("issue token", zap.Error(err))
		httperr.Internal(c, "failed_to_generate_token", "Could not issue token")
		return
	}

	c.JSON(status, authResponse{User: user, Token: token})
}
