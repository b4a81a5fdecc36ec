package models

// Category is the fixed course category enumeration.
type Category string

const (
	CategoryHistory     Category = "History"
	CategoryEconomics   Category = "Economics"
	CategoryMathematics Category = "Mathematics"
	CategoryScience     Category = "Science"
	CategoryLiterature  Category = "Literature"
)

// Categories lists every selectable category in display order.
var Categories = []Category{CategoryHistory, CategoryEconomics, CategoryMathematics, CategoryScience, CategoryLiterature}

// Levels lists the selectable course levels.
var Levels = []int{1, 2, 3, 4}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Course is a catalog entry as served by the backend.
type Course struct {
	ID         ID       `json:"courseid"`
	Name       string   `json:"coursename"`
	Category   Category `json:"category"`
	Level      Number   `json:"level"`
	Popularity Number   `json:"popularity"`
}

// CourseInput is the admin add/edit payload.
type CourseInput struct {
	ID         ID       `json:"courseid,omitempty"`
	Name       string   `json:"coursename" validate:"required"`
	Category   Category `json:"category" validate:"required,course_category"`
	Level      int      `json:"level" validate:"required,min=1,max=4"`
	Popularity int      `json:"popularity"`
}

// AdminDetails identifies the logged in administrator.
type AdminDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AdminCoursesResponse is returned by GET /admin/courses.
type AdminCoursesResponse struct {
	Courses     []Course      `json:"courses"`
	UserDetails *AdminDetails `json:"userDetails,omitempty"`
}

// CourseListResponse is returned by GET /user/get-unenrolled-courses.
type CourseListResponse struct {
	Courses []Course `json:"courses"`
}

// MessageResponse is the generic {message} body used for acknowledgements and errors.
type MessageResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
