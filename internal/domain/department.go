package domain

// Departments is the fixed set of city departments. Order matters: the
// dashboard and the departments directory always render all ten entries,
// zero-filled, in this enumeration order.
var Departments = []string{
	"Water Supply",
	"Electricity",
	"Health",
	"Education",
	"Sanitation",
	"Public Works",
	"Transportation",
	"Housing",
	"Administration",
	"Finance",
}

// IsValidDepartment reports whether name is one of the fixed departments.
func IsValidDepartment(name string) bool {
	for _, d := range Departments {
		if d == name {
			return true
		}
	}
	return false
}
