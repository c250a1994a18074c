package model

// Department is a first-level administrative region.  Cities is only filled
// by the department endpoints.
type Department struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Cities []City `json:"cities,omitempty"`
}

// City belongs to one department; (department, name) is unique.
type City struct {
	ID             uint64 `json:"id"`
	DepartmentID   uint64 `json:"department_id"`
	DepartmentName string `json:"department_name"`
	Name           string `json:"name"`
}

// Sport is referenced by venues and, optionally, by an athlete's favourite.
type Sport struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IconURL     string `json:"icon_url,omitempty"`
}

// CityFilter narrows the city listing.
type CityFilter struct {
	DepartmentID *uint64
	Search       string
}
