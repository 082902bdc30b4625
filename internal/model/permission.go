package model

import "sort"

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionStudentsRead allows viewing student lists and details.
	PermissionStudentsRead Permission = "students:read"

	// PermissionStudentsWrite allows registering students.
	PermissionStudentsWrite Permission = "students:write"

	// PermissionSubjectsRead allows viewing subjects.
	PermissionSubjectsRead Permission = "subjects:read"

	// PermissionSubjectsWrite allows creating, updating, and deleting subjects.
	PermissionSubjectsWrite Permission = "subjects:write"

	// PermissionExamsRead allows viewing exams and their subject configuration.
	PermissionExamsRead Permission = "exams:read"

	// PermissionExamsWrite allows creating exams and configuring their subjects.
	PermissionExamsWrite Permission = "exams:write"

	// PermissionMarksRead allows viewing recorded marks.
	PermissionMarksRead Permission = "marks:read"

	// PermissionMarksWrite allows entering marks.
	PermissionMarksWrite Permission = "marks:write"

	// PermissionReportsRead allows viewing and exporting class reports.
	PermissionReportsRead Permission = "reports:read"

	// PermissionSettingsRead allows viewing application settings.
	PermissionSettingsRead Permission = "settings:read"

	// PermissionSettingsWrite allows editing application settings.
	PermissionSettingsWrite Permission = "settings:write"

	// PermissionQuickResultsWrite allows entering quick results.
	PermissionQuickResultsWrite Permission = "quick_results:write"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionStudentsRead,
	PermissionStudentsWrite,
	PermissionSubjectsRead,
	PermissionSubjectsWrite,
	PermissionExamsRead,
	PermissionExamsWrite,
	PermissionMarksRead,
	PermissionMarksWrite,
	PermissionReportsRead,
	PermissionSettingsRead,
	PermissionSettingsWrite,
	PermissionQuickResultsWrite,
}

var rolePermissions = map[Role][]Permission{
	RoleSupervisor: AllPermissions,
	RoleTeacher: {
		PermissionStudentsRead,
		PermissionSubjectsRead,
		PermissionExamsRead,
		PermissionMarksRead,
		PermissionMarksWrite,
		PermissionReportsRead,
		PermissionQuickResultsWrite,
	},
	RoleAccount: {
		PermissionStudentsRead,
		PermissionStudentsWrite,
		PermissionSubjectsRead,
		PermissionSubjectsWrite,
		PermissionExamsRead,
		PermissionReportsRead,
		PermissionSettingsRead,
	},
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Permissions returns the sorted permission codes granted to r.
func (r Role) Permissions() []string {
	perms := rolePermissions[r]
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}
