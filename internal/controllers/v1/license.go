package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/staffplan/backend/internal/httputil"
	"github.com/staffplan/backend/internal/license"
	"github.com/staffplan/backend/internal/models"
)

// LicenseClient is the license client the API uses. The router shares it
// with the middleware that enforces a valid license.
var LicenseClient = license.New()

type LicenseResponse struct {
	Data  *license.Status `json:"data"`                                              // The current license status
	Error *string         `json:"error" example:"the license key must not be empty"` // The error, if any occurred
}

type LicenseActivateEditable struct {
	LicenseKey string `json:"licenseKey" example:"SP-2JXA-99Q1-M4KT"`
}

// RegisterLicenseRoutes registers the routes for the license with
// the RouterGroup that is passed.
func RegisterLicenseRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsLicense)
		r.GET("", GetLicense)
	}

	// Activation
	{
		r.OPTIONS("/activate", OptionsLicenseActivate)
		r.POST("/activate", ActivateLicense)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			License
// @Success		204
// @Router			/v1/license [options]
func OptionsLicense(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			License
// @Success		204
// @Router			/v1/license/activate [options]
func OptionsLicenseActivate(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Get license status
// @Description	Returns the current license status
// @Tags			License
// @Produce		json
// @Success		200	{object}	LicenseResponse
// @Failure		403	{object}	httpError
// @Router			/v1/license [get]
func GetLicense(c *gin.Context) {
	if !requirePermission(c, "management.settings") {
		return
	}

	status := LicenseClient.Status()
	c.JSON(http.StatusOK, LicenseResponse{Data: &status})
}

// @Summary		Activate license
// @Description	Stores a new license key and validates it
// @Tags			License
// @Accept			json
// @Produce		json
// @Success		200		{object}	LicenseResponse
// @Failure		400		{object}	LicenseResponse
// @Failure		403		{object}	httpError
// @Param			license	body		LicenseActivateEditable	true	"License key"
// @Router			/v1/license/activate [post]
func ActivateLicense(c *gin.Context) {
	if !requirePermission(c, "management.settings") {
		return
	}

	var editable LicenseActivateEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LicenseResponse{
			Error: &s,
		})
		return
	}

	err = LicenseClient.Activate(editable.LicenseKey)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LicenseResponse{
			Error: &s,
		})
		return
	}

	actor := currentUser(c)
	models.Audit(models.DB, &actor.ID, "license.activate", "license", nil, "Activated a new license key", c.ClientIP())

	licenseStatus := LicenseClient.Status()
	c.JSON(http.StatusOK, LicenseResponse{Data: &licenseStatus})
}
