package models

import "time"

// PassRatio is the share of the maximum marks a student needs to pass.
// Every subject is scored out of SubjectMaxMarks.
const (
	PassRatio       = 0.4
	SubjectMaxMarks = 100

	StatusPass = "PASS"
	StatusFail = "FAIL"
)

type Subject struct {
	Code  string `json:"code" bson:"code" validate:"required"`
	Name  string `json:"name" bson:"name" validate:"required"`
	Marks string `json:"marks" bson:"marks" validate:"required,numeric"`
	Grade string `json:"grade" bson:"grade" validate:"required"`
}

type Result struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name" validate:"required"`
	FatherName  string    `json:"fatherName" bson:"fatherName" validate:"required"`
	RollNumber  string    `json:"rollNumber" bson:"rollNumber" validate:"required"`
	Examination string    `json:"examination" bson:"examination" validate:"required"`
	College     string    `json:"college" bson:"college" validate:"required"`
	Stream      string    `json:"stream" bson:"stream" validate:"required"`
	Medium      string    `json:"medium,omitempty" bson:"medium,omitempty"`
	PassingYear string    `json:"passingYear" bson:"passingYear" validate:"required"`
	Session     string    `json:"session" bson:"session" validate:"required"`
	Subjects    []Subject `json:"subjects" bson:"subjects" validate:"dive"`
	TotalMarks  float64   `json:"totalMarks" bson:"totalMarks"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Status derives PASS or FAIL from the total marks. It is never stored.
func (r Result) Status() string {
	threshold := PassRatio * float64(len(r.Subjects)*SubjectMaxMarks)
	if r.TotalMarks >= threshold {
		return StatusPass
	}
	return StatusFail
}

// ResultPayload is the wire shape accepted by create and update. Nil fields
// were absent from the request body.
type ResultPayload struct {
	Name        *string    `json:"name"`
	FatherName  *string    `json:"fatherName"`
	RollNumber  *string    `json:"rollNumber"`
	Examination *string    `json:"examination"`
	College     *string    `json:"college"`
	Stream      *string    `json:"stream"`
	Medium      *string    `json:"medium"`
	PassingYear *string    `json:"passingYear"`
	Session     *string    `json:"session"`
	Subjects    *[]Subject `json:"subjects"`
	TotalMarks  *float64   `json:"totalMarks"`
}

// ApplyTo copies every present field of p onto r. A present subject list
// replaces the existing one as a unit.
func (p ResultPayload) ApplyTo(r *Result) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&r.Name, p.Name)
	set(&r.FatherName, p.FatherName)
	set(&r.RollNumber, p.RollNumber)
	set(&r.Examination, p.Examination)
	set(&r.College, p.College)
	set(&r.Stream, p.Stream)
	set(&r.Medium, p.Medium)
	set(&r.PassingYear, p.PassingYear)
	set(&r.Session, p.Session)
	if p.Subjects != nil {
		r.Subjects = make([]Subject, len(*p.Subjects))
		copy(r.Subjects, *p.Subjects)
	}
	if p.TotalMarks != nil {
		r.TotalMarks = *p.TotalMarks
	}
}
