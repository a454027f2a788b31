package auth

import "fmt"

// PatientFilter restricts which patient rows a user may see. Staff roles see
// every patient; the patient role only sees the patient record linked to the
// user's own account.
type PatientFilter struct {
	All    bool
	UserID int64
}

// VisiblePatientFilter derives the row filter for the given user.
func VisiblePatientFilter(u User) PatientFilter {
	if u.Role == RolePatient {
		return PatientFilter{UserID: u.ID}
	}
	return PatientFilter{All: true}
}

// Clause renders the filter as a SQL condition on the given user-id column,
// numbering its placeholder from argIndex. An unrestricted filter renders to
// an empty clause with no arguments.
func (f PatientFilter) Clause(column string, argIndex int) (string, []interface{}) {
	if f.All {
		return "", nil
	}
	return fmt.Sprintf("%s = $%d", column, argIndex), []interface{}{f.UserID}
}
