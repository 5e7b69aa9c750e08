package v1

import (
	"fmt"

	"gorm.io/gorm"
)

// searchFilter adds a case insensitive substring match over the columns when
// search is set.
func searchFilter(db, query *gorm.DB, search string, columns ...string) *gorm.DB {
	if search == "" {
		return query
	}

	var condition *gorm.DB
	for _, column := range columns {
		match := db.Where(fmt.Sprintf("%s LIKE ?", column), fmt.Sprintf("%%%s%%", search))

		if condition == nil {
			condition = match
			continue
		}

		condition = condition.Or(match)
	}

	return query.Where(condition)
}
