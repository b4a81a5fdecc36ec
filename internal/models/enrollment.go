package models

// Enrollment links the logged in student to a course.
type Enrollment struct {
	ID       ID       `json:"enrollid"`
	CourseID ID       `json:"courseid,omitempty"`
	Name     string   `json:"coursename"`
	Category Category `json:"category"`
	Level    Number   `json:"level"`
}

// EnrollRequest is the POST /user/enroll-course body.
type EnrollRequest struct {
	CourseID   ID     `json:"courseId"`
	CourseName string `json:"coursename"`
}
