package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/staffplan/backend/internal/httputil"
	"github.com/staffplan/backend/internal/models"
)

// RegisterMonthlyRequirementRoutes registers the routes for monthly
// requirements with the RouterGroup that is passed.
func RegisterMonthlyRequirementRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsMonthlyRequirementList)
		r.GET("", GetMonthlyRequirements)
		r.POST("", SetMonthlyRequirement)
	}

	// Requirement with ID
	{
		r.OPTIONS("/:id", OptionsMonthlyRequirementDetail)
		r.DELETE("/:id", DeleteMonthlyRequirement)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			MonthlyRequirements
// @Success		204
// @Router			/v1/monthly-requirements [options]
func OptionsMonthlyRequirementList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			MonthlyRequirements
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/monthly-requirements/{id} [options]
func OptionsMonthlyRequirementDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.MonthlyRequirement{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsDelete(c)
}

// @Summary		Get monthly requirements
// @Description	Returns the work quotas per month
// @Tags			MonthlyRequirements
// @Produce		json
// @Success		200	{object}	MonthlyRequirementListResponse
// @Failure		500	{object}	MonthlyRequirementListResponse
// @Router			/v1/monthly-requirements [get]
// @Param			year	query	int	false	"Filter by year"
func GetMonthlyRequirements(c *gin.Context) {
	var filter MonthlyRequirementQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, _ := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()

	var requirements []models.MonthlyRequirement
	err := models.DB.
		Order("year ASC, month ASC").
		Where(&filterModel, queryFields...).
		Find(&requirements).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MonthlyRequirementListResponse{
			Error: &s,
		})
		return
	}

	data := make([]MonthlyRequirement, 0)
	for _, requirement := range requirements {
		data = append(data, newMonthlyRequirement(c, requirement))
	}

	c.JSON(http.StatusOK, MonthlyRequirementListResponse{Data: data})
}

// @Summary		Set monthly requirement
// @Description	Creates the work quota for a month or updates it if it already exists
// @Tags			MonthlyRequirements
// @Accept			json
// @Produce		json
// @Success		200			{object}	MonthlyRequirementResponse
// @Failure		400			{object}	MonthlyRequirementResponse
// @Failure		403			{object}	httpError
// @Failure		500			{object}	MonthlyRequirementResponse
// @Param			requirement	body		MonthlyRequirementEditable	true	"Requirement"
// @Router			/v1/monthly-requirements [post]
func SetMonthlyRequirement(c *gin.Context) {
	if !requirePermission(c, "management.requirements") {
		return
	}

	var editable MonthlyRequirementEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MonthlyRequirementResponse{
			Error: &s,
		})
		return
	}

	actor := currentUser(c)

	requirement, err := models.SetMonthlyRequirement(models.DB, editable.Year, editable.Month, editable.RequiredDays, editable.RequiredHours, editable.Notes, actor.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MonthlyRequirementResponse{
			Error: &s,
		})
		return
	}

	models.Audit(models.DB, &actor.ID, "monthly_requirement.set", "monthly_requirement", &requirement.ID, fmt.Sprintf("Set requirement for %d-%02d", requirement.Year, requirement.Month), c.ClientIP())

	data := newMonthlyRequirement(c, requirement)
	c.JSON(http.StatusOK, MonthlyRequirementResponse{Data: &data})
}

// @Summary		Delete monthly requirement
// @Description	Deletes the work quota for a month
// @Tags			MonthlyRequirements
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/monthly-requirements/{id} [delete]
func DeleteMonthlyRequirement(c *gin.Context) {
	if !requirePermission(c, "management.requirements") {
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var requirement models.MonthlyRequirement
	err = models.DB.First(&requirement, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	// The year and month stay unique, a deleted requirement can be set again
	err = models.DB.Unscoped().Delete(&requirement).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	actor := currentUser(c)
	models.Audit(models.DB, &actor.ID, "monthly_requirement.delete", "monthly_requirement", &requirement.ID, fmt.Sprintf("Removed requirement for %d-%02d", requirement.Year, requirement.Month), c.ClientIP())

	c.JSON(http.StatusNoContent, nil)
}
