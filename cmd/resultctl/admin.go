package main

import (
	"encoding/json"
	"fmt"
	"os"

	"results-portal/client"
	"results-portal/models"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var resultFile string

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a result from a JSON file",
	Long: `Add a student result. The file holds the student details and subjects:

  {"name": "...", "fatherName": "...", "rollNumber": "...", "examination": "...",
   "college": "...", "stream": "...", "medium": "...", "passingYear": "...",
   "session": "...", "subjects": [{"code": "...", "name": "...", "marks": "75", "grade": "A"}]}

Total marks are computed from the subject marks.`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a result from a JSON file of changed fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a result by its id",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	for _, c := range []*cobra.Command{addCmd, updateCmd} {
		c.Flags().StringVarP(&resultFile, "file", "f", "", "JSON file with result fields")
		c.MarkFlagRequired("file")
	}
}

type resultForm struct {
	client.StudentDetails
	Subjects []models.Subject `json:"subjects"`
}

func openAdmin() (*client.AdminFlow, error) {
	api, session, err := openClient()
	if err != nil {
		return nil, err
	}
	return client.NewAdminFlow(api, session)
}

// readJSON decodes the result file strictly: unknown fields and trailing
// data are rejected instead of silently dropped.
func readJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "read result file")
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(client.ErrInvalidResult, err.Error())
	}
	if dec.More() {
		return errors.Wrap(client.ErrInvalidResult, "unexpected data after result")
	}
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	admin, err := openAdmin()
	if err != nil {
		return err
	}
	var form resultForm
	if err := readJSON(resultFile, &form); err != nil {
		return err
	}

	result, err := admin.Add(cmd.Context(), form.StudentDetails, form.Subjects)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Result added successfully! (id %s)\n", result.ID)
	return client.RenderResult(cmd.OutOrStdout(), result)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	admin, err := openAdmin()
	if err != nil {
		return err
	}
	var payload models.ResultPayload
	if err := readJSON(resultFile, &payload); err != nil {
		return err
	}

	result, err := admin.Update(cmd.Context(), args[0], payload)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Result updated successfully!")
	return client.RenderResult(cmd.OutOrStdout(), result)
}

func runDelete(cmd *cobra.Command, args []string) error {
	admin, err := openAdmin()
	if err != nil {
		return err
	}
	if err := admin.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Result deleted successfully")
	return nil
}
