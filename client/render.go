package client

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"results-portal/models"
)

// RenderResult writes a printable result sheet.
func RenderResult(w io.Writer, r *models.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	medium := r.Medium
	if medium == "" {
		medium = "-"
	}
	rows := [][2]string{
		{"Name", r.Name},
		{"Father's Name", r.FatherName},
		{"Roll Number", r.RollNumber},
		{"Examination", r.Examination},
		{"College", r.College},
		{"Stream", r.Stream},
		{"Medium", medium},
		{"Passing Year", r.PassingYear},
		{"Session", r.Session},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "CODE\tSUBJECT\tMARKS\tGRADE")
	for _, s := range r.Subjects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Code, s.Name, s.Marks, s.Grade)
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Total Marks:\t%s\n", strconv.FormatFloat(r.TotalMarks, 'f', -1, 64))
	fmt.Fprintf(tw, "Result:\t%s\n", r.Status())
	return tw.Flush()
}
