package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusevents/internal/auth"
	"campusevents/internal/identity"
)

type signupRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	CollegeID string `json:"college_id" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type collegeRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
}

func (h *Handler) signup(c *gin.Context, role string, create func(context.Context, string, string, string, string) (identity.Account, error)) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}
	acc, err := create(c.Request.Context(), req.Name, req.Email, req.Password, req.CollegeID)
	if err != nil {
		h.fail(c, err)
		return
	}
	token, _, err := auth.Issue(acc.ID, role, h.jwtIssuer, h.jwtKey, h.tokenTTL)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": role + " created successfully",
		"token":   token,
		"user":    acc,
	})
}

func (h *Handler) login(c *gin.Context, role string, verify func(context.Context, string, string) (identity.Account, error)) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}
	acc, err := verify(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	token, _, err := auth.Issue(acc.ID, role, h.jwtIssuer, h.jwtKey, h.tokenTTL)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": role + " login successful",
		"token":   token,
		"user":    acc,
	})
}

// AdminSignup creates an admin account and issues a token.
func (h *Handler) AdminSignup(c *gin.Context) {
	h.signup(c, auth.RoleAdmin, h.identity.SignupAdmin)
}

// AdminLogin verifies admin credentials and issues a token.
func (h *Handler) AdminLogin(c *gin.Context) {
	h.login(c, auth.RoleAdmin, h.identity.LoginAdmin)
}

// StudentSignup creates a student account and issues a token.
func (h *Handler) StudentSignup(c *gin.Context) {
	h.signup(c, auth.RoleStudent, h.identity.SignupStudent)
}

// StudentLogin verifies student credentials and issues a token.
func (h *Handler) StudentLogin(c *gin.Context) {
	h.login(c, auth.RoleStudent, h.identity.LoginStudent)
}

// CreateCollege provisions a college. Open route: admin signup requires an
// existing college, so this cannot sit behind the admin gate.
func (h *Handler) CreateCollege(c *gin.Context) {
	var req collegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}
	col, err := h.identity.CreateCollege(c.Request.Context(), req.Name, req.Location)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "college created successfully", "college": col})
}

// ListColleges returns all colleges.
func (h *Handler) ListColleges(c *gin.Context) {
	cols, err := h.identity.ListColleges(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"colleges": cols})
}
