package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/changhyun152521/tbc-sub001/database"
	"github.com/changhyun152521/tbc-sub001/models"
)

type AuthHandler struct {
	JWTSecret string
}

func NewAuthHandler(secret string) *AuthHandler {
	return &AuthHandler{JWTSecret: secret}
}

func (h *AuthHandler) signJWT(u models.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": u.Role,
		"name": u.Name,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	if u.TeacherID != nil {
		claims["teacher_id"] = *u.TeacherID
	}
	if u.StudentID != nil {
		claims["student_id"] = *u.StudentID
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.JWTSecret))
}

type LoginReq struct {
	Identity string `json:"identity" validate:"required"` // username or email
	Password string `json:"password" validate:"required"`
}

// POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	id := strings.TrimSpace(req.Identity)
	var u models.User
	err := database.DB.Where("username = ? OR email = ?", id, strings.ToLower(id)).First(&u).Error
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}

	tok, err := h.signJWT(u, 12*time.Hour)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"token": tok,
		"user": map[string]any{
			"id":   u.ID,
			"role": u.Role,
			"name": u.Name,
		},
	})
}

type ParentRegisterReq struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Name        string `json:"name" validate:"required"`
	StudentCode string `json:"student_code" validate:"required"`
}

// POST /auth/register-parent
// A parent account is bound to one student at signup; everything the
// parent can read is scoped through that link.
func (h *AuthHandler) RegisterParent(c echo.Context) error {
	var req ParentRegisterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var dup models.User
	if err := database.DB.Where("email = ?", email).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "EMAIL_EXISTS"})
	}

	var student models.Student
	if err := database.DB.Where("student_code = ?", strings.TrimSpace(req.StudentCode)).First(&student).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	u := models.User{
		Username:  email,
		Email:     email,
		Password:  string(hash),
		Role:      models.RoleParent,
		Name:      strings.TrimSpace(req.Name),
		StudentID: &student.ID,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]any{"id": u.ID})
}

type ChangePasswordReq struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// PUT /profile/password (any authenticated role)
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	actor := actorFrom(c)
	var req ChangePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var u models.User
	if err := database.DB.First(&u, actor.UserID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "USER_NOT_FOUND"})
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.OldPassword)) != nil {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	if err := database.DB.Model(&u).Update("password", string(hash)).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

type CreateUserReq struct {
	Username  string `json:"username" validate:"required,min=3"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required"`
	Name      string `json:"name"`
	TeacherID *uint  `json:"teacher_id"`
	StudentID *uint  `json:"student_id"`
}

// POST /admin/users
func (h *AuthHandler) CreateUser(c echo.Context) error {
	var req CreateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !models.ValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ROLE"})
	}
	// staff links: teacher accounts need a teacher, student/parent a student
	switch req.Role {
	case models.RoleTeacher:
		if req.TeacherID == nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
		}
		var t models.Teacher
		if err := database.DB.First(&t, *req.TeacherID).Error; err != nil {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "TEACHER_NOT_FOUND"})
		}
	case models.RoleStudent, models.RoleParent:
		if req.StudentID == nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
		}
		var s models.Student
		if err := database.DB.First(&s, *req.StudentID).Error; err != nil {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
		}
	}

	var dup models.User
	if err := database.DB.Where("username = ?", req.Username).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "USERNAME_EXISTS"})
	} else if err != gorm.ErrRecordNotFound {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	u := models.User{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  string(hash),
		Role:      req.Role,
		Name:      strings.TrimSpace(req.Name),
		TeacherID: req.TeacherID,
		StudentID: req.StudentID,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, u)
}

// GET /admin/users?role=
func (h *AuthHandler) ListUsers(c echo.Context) error {
	tx := database.DB.Model(&models.User{})
	if role := strings.TrimSpace(c.QueryParam("role")); role != "" {
		tx = tx.Where("role = ?", role)
	}
	var users []models.User
	if err := tx.Order("id ASC").Find(&users).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	return c.JSON(http.StatusOK, users)
}
