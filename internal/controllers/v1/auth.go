package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/staffplan/backend/internal/auth"
	"github.com/staffplan/backend/internal/httputil"
	"github.com/staffplan/backend/internal/models"
	"golang.org/x/exp/slices"
)

// loginLimiter locks a client address out after repeated failed logins. The
// state is process local and resets on restart.
var loginLimiter auth.AttemptLimiter = auth.NewMemoryLimiter(5, 15*time.Minute)

func RegisterAuthRoutes(r *gin.RouterGroup) {
	// Login
	{
		r.OPTIONS("/login", OptionsLogin)
		r.POST("/login", Login)
	}

	// Registration
	{
		r.OPTIONS("/register", OptionsRegister)
		r.POST("/register", Register)
	}
}

// RegisterSessionRoutes registers the auth routes that need an authenticated
// session.
func RegisterSessionRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/me", OptionsMe)
	r.GET("/me", Me)

	r.OPTIONS("/logout", OptionsLogout)
	r.POST("/logout", Logout)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Auth
// @Success		204
// @Router			/v1/auth/login [options]
func OptionsLogin(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Auth
// @Success		204
// @Router			/v1/auth/register [options]
func OptionsRegister(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Auth
// @Success		204
// @Router			/v1/auth/me [options]
func OptionsMe(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Auth
// @Success		204
// @Router			/v1/auth/logout [options]
func OptionsLogout(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Log in
// @Description	Checks the credentials and returns a session token
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		200			{object}	LoginResponse
// @Failure		400			{object}	LoginResponse
// @Failure		401			{object}	LoginResponse
// @Failure		403			{object}	LoginResponse
// @Failure		429			{object}	LoginResponse
// @Failure		500			{object}	LoginResponse
// @Param			credentials	body		LoginEditable	true	"Credentials"
// @Router			/v1/auth/login [post]
func Login(c *gin.Context) {
	var editable LoginEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LoginResponse{Error: &s})
		return
	}

	if !loginLimiter.Allow(c.ClientIP()) {
		s := errTooManyAttempts.Error()
		c.JSON(status(errTooManyAttempts), LoginResponse{Error: &s})
		return
	}

	var user models.User
	err = models.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(editable.Email))).First(&user).Error
	if err != nil && !errors.Is(err, models.ErrResourceNotFound) {
		s := err.Error()
		c.JSON(status(err), LoginResponse{Error: &s})
		return
	}

	// The same failure path for an unknown email and a wrong password so
	// that the response does not leak which accounts exist
	if err != nil || !auth.CheckPassword(user.PasswordHash, editable.Password) {
		loginLimiter.Failure(c.ClientIP())
		models.Audit(models.DB, nil, "login_failed", "user", nil, editable.Email, c.ClientIP())

		s := errLoginInvalid.Error()
		c.JSON(status(errLoginInvalid), LoginResponse{Error: &s})
		return
	}

	if !user.Active {
		s := errAccountInactive.Error()
		c.JSON(status(errAccountInactive), LoginResponse{Error: &s})
		return
	}

	loginLimiter.Reset(c.ClientIP())

	now := time.Now()
	err = models.DB.Model(&user).Select("LastLoginAt").Updates(models.User{LastLoginAt: &now}).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LoginResponse{Error: &s})
		return
	}

	token, err := auth.CreateToken(user.ID)
	if err != nil {
		s := models.ErrGeneral.Error()
		c.JSON(http.StatusInternalServerError, LoginResponse{Error: &s})
		return
	}

	models.Audit(models.DB, &user.ID, "login", "user", &user.ID, "", c.ClientIP())

	data, err := newUser(c, models.DB, user)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LoginResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Data: &LoginData{
		Token: token,
		User:  data,
	}})
}

// @Summary		Register
// @Description	Creates a new account. The first account ever created gets full administrator access.
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		201		{object}	UserResponse
// @Failure		400		{object}	UserResponse
// @Failure		500		{object}	UserResponse
// @Param			account	body		RegisterEditable	true	"Account"
// @Router			/v1/auth/register [post]
func Register(c *gin.Context) {
	var editable RegisterEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UserResponse{Error: &s})
		return
	}

	if len(editable.Password) < 8 {
		s := errPasswordTooShort.Error()
		c.JSON(status(errPasswordTooShort), UserResponse{Error: &s})
		return
	}

	hash, err := auth.HashPassword(editable.Password)
	if err != nil {
		s := models.ErrGeneral.Error()
		c.JSON(http.StatusInternalServerError, UserResponse{Error: &s})
		return
	}

	var count int64
	err = models.DB.Model(&models.User{}).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UserResponse{Error: &s})
		return
	}

	user := models.User{
		Email:        editable.Email,
		PasswordHash: hash,
		FirstName:    editable.FirstName,
		LastName:     editable.LastName,
		Active:       true,
		SuperAdmin:   count == 0,
	}

	// The first account gets the Administrator role, everyone else starts
	// as a regular user. A missing system role is tolerated so that sign
	// up works on instances that have not been seeded.
	roleName := "User"
	if user.SuperAdmin {
		roleName = "Administrator"
	}

	var role models.Role
	err = models.DB.Where("name = ? AND system = ?", roleName, true).First(&role).Error
	if err == nil {
		user.Roles = []models.Role{role}
	} else if !errors.Is(err, models.ErrResourceNotFound) {
		s := err.Error()
		c.JSON(status(err), UserResponse{Error: &s})
		return
	}

	err = models.DB.Create(&user).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UserResponse{Error: &s})
		return
	}

	err = models.CreateDefaultAllocations(models.DB, user.ID, time.Now().Year())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UserResponse{Error: &s})
		return
	}

	welcome := models.Notification{
		UserID:  user.ID,
		Title:   "Welcome to Staffplan!",
		Message: "Your account has been created. Check out your dashboard to view your schedule and manage your time.",
		Type:    models.NotificationTypeSuccess,
		Popup:   true,
	}
	err = models.DB.Create(&welcome).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UserResponse{Error: &s})
		return
	}

	models.Audit(models.DB, &user.ID, "register", "user", &user.ID, user.Email, c.ClientIP())

	data, err := newUser(c, models.DB, user)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UserResponse{Error: &s})
		return
	}

	c.JSON(http.StatusCreated, UserResponse{Data: &data})
}

// @Summary		Authenticated user
// @Description	Returns the authenticated user and its permissions
// @Tags			Auth
// @Produce		json
// @Success		200	{object}	MeResponse
// @Failure		401	{object}	MeResponse
// @Failure		500	{object}	MeResponse
// @Router			/v1/auth/me [get]
func Me(c *gin.Context) {
	user := currentUser(c)

	codes := make([]string, 0)
	for code := range currentPermissions(c) {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	data, err := newUser(c, models.DB, user)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MeResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, MeResponse{Data: &MeData{
		User:        data,
		Permissions: codes,
	}})
}

// @Summary		Log out
// @Description	Closes the session. Tokens are stateless, the logout is recorded for auditing.
// @Tags			Auth
// @Success		204
// @Failure		401	{object}	httpError
// @Router			/v1/auth/logout [post]
func Logout(c *gin.Context) {
	user := currentUser(c)
	models.Audit(models.DB, &user.ID, "logout", "user", &user.ID, "", c.ClientIP())

	c.JSON(http.StatusNoContent, nil)
}
