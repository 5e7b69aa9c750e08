package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/staffplan/backend/internal/models"
)

// MonthlyRequirementEditable represents all requirement configurable parameters
type MonthlyRequirementEditable struct {
	Year          int             `json:"year" example:"2024"`
	Month         int             `json:"month" example:"7"`
	RequiredDays  int             `json:"requiredDays" example:"20"`
	RequiredHours decimal.Decimal `json:"requiredHours" example:"160"`
	Notes         string          `json:"notes" example:"Reduced staffing over the holidays"`
}

type MonthlyRequirementLinks struct {
	Self string `json:"self" example:"https://example.com/v1/monthly-requirements/8e80fcb4-d84b-4b5f-a1ba-486a9bbb7cbb"`
}

type MonthlyRequirement struct {
	models.DefaultModel
	Year          int                     `json:"year" example:"2024"`
	Month         int                     `json:"month" example:"7"`
	RequiredDays  int                     `json:"requiredDays" example:"20"`
	RequiredHours decimal.Decimal         `json:"requiredHours" example:"160"`
	Notes         string                  `json:"notes" example:"Reduced staffing over the holidays"`
	CreatedBy     uuid.UUID               `json:"createdBy" example:"2f1f9a47-4b0e-4e5f-9a26-23d70cbe6791"`
	Links         MonthlyRequirementLinks `json:"links"`
}

func newMonthlyRequirement(c *gin.Context, model models.MonthlyRequirement) MonthlyRequirement {
	url := c.GetString(string(models.DBContextURL))

	return MonthlyRequirement{
		DefaultModel:  model.DefaultModel,
		Year:          model.Year,
		Month:         model.Month,
		RequiredDays:  model.RequiredDays,
		RequiredHours: model.RequiredHours,
		Notes:         model.Notes,
		CreatedBy:     model.CreatedBy,
		Links: MonthlyRequirementLinks{
			Self: fmt.Sprintf("%s/v1/monthly-requirements/%s", url, model.ID),
		},
	}
}

type MonthlyRequirementListResponse struct {
	Data  []MonthlyRequirement `json:"data"`                                                          // List of requirements
	Error *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type MonthlyRequirementResponse struct {
	Data  *MonthlyRequirement `json:"data"`                                                          // Data for the requirement
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type MonthlyRequirementQueryFilter struct {
	Year int `form:"year"` // Filter by year
}

func (f MonthlyRequirementQueryFilter) model() models.MonthlyRequirement {
	return models.MonthlyRequirement{
		Year: f.Year,
	}
}
