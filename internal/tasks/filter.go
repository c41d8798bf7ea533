package tasks

import (
	"fmt"
	"strings"

	"tasktrack/pkg/types"
)

// Filters represents the task list filtering criteria. Both filters are
// equality filters and compose conjunctively.
type Filters struct {
	Status *types.Status `json:"status,omitempty"`
	Due    *types.Date   `json:"due,omitempty"`
}

// Sort represents the requested list ordering. A nil *Sort means insertion
// order.
type Sort struct {
	Key  types.SortKey `json:"key"`
	Desc bool          `json:"desc"`
}

// FilterManager builds SQL clauses from filtering and sorting criteria.
// Placeholders are emitted in the ? dialect; the repository rebinds them for
// backends that number their arguments.
type FilterManager struct{}

// NewFilterManager creates a new filter manager
func NewFilterManager() *FilterManager {
	return &FilterManager{}
}

// BuildWhereClause builds a SQL WHERE clause from filters
func (fm *FilterManager) BuildWhereClause(filters Filters) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filters.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*filters.Status))
	}
	if filters.Due != nil {
		conditions = append(conditions, "due_date = ?")
		args = append(args, *filters.Due)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// BuildOrderClause builds a SQL ORDER BY clause. Without an explicit sort
// key, insertion order (ascending id) is preserved.
func (fm *FilterManager) BuildOrderClause(sort *Sort) string {
	if sort == nil {
		return "ORDER BY id"
	}

	var column string
	switch sort.Key {
	case types.SortByCreationDate:
		column = "creation_date"
	case types.SortByDueDate:
		column = "due_date"
	default:
		// Unrecognized keys are rejected at the boundary; reaching this is a
		// programming error.
		panic(fmt.Sprintf("unknown sort key %q", sort.Key))
	}

	if sort.Desc {
		return "ORDER BY " + column + " DESC"
	}
	return "ORDER BY " + column
}
