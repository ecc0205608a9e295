package web

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sidyaa10/Task-Zen/internal/auth"
	"github.com/Sidyaa10/Task-Zen/internal/storage"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type signupRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	ProfilePicture string `json:"profilePicture"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	JoinedAt       time.Time `json:"joinedAt"`
}

func toUserResponse(user *storage.User) userResponse {
	return userResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
		JoinedAt:       user.CreatedAt,
	}
}

func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if len(name) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name must be at least 2 characters."})
		return
	}
	if !emailPattern.MatchString(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required."})
		return
	}
	if len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters."})
		return
	}

	ctx := c.Request.Context()
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered."})
		return
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		s.fail(c, err)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	user := &storage.User{
		ID:             storage.GenerateID(),
		Name:           name,
		Email:          email,
		HashedPassword: hashed,
		ProfilePicture: req.ProfilePicture,
		CreatedAt:      time.Now(),
	}
	if err := s.users.InsertUser(ctx, user); err != nil {
		s.fail(c, err)
		return
	}

	if err := s.setSessionCookie(c, user); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(user)})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}

	user, err := s.users.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil || !auth.CheckPassword(user.HashedPassword, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
		return
	}

	if err := s.setSessionCookie(c, user); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func (s *Server) handleMe(c *gin.Context) {
	user, err := s.users.GetUserByID(c.Request.Context(), ownerID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func (s *Server) handleLogout(c *gin.Context) {
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) setSessionCookie(c *gin.Context, user *storage.User) error {
	token, err := auth.NewToken(user.ID, user.Email, user.Name, s.secret, s.tokenTTL)
	if err != nil {
		return err
	}
	c.SetCookie(auth.CookieName, token, int(s.tokenTTL.Seconds()), "/", "", false, true)
	return nil
}
