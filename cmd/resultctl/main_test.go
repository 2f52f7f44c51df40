package main

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"results-portal/client"
	"results-portal/config"
	"results-portal/controllers"
	"results-portal/driver"
	"results-portal/models"
	"results-portal/services"
	"results-portal/store"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startAPI(t *testing.T) string {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	db, err := driver.ConnectDB(config.DriverSQLite, filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, driver.Migrate(db, config.DriverSQLite, log))

	st := store.NewSQLStore(db)
	admin, err := services.NewAdmin("admin", "admin", "")
	require.NoError(t, err)
	auth := services.NewAuthService(admin, []byte("secret"), time.Hour, log)
	srv := httptest.NewServer(controllers.NewRouter(services.NewResultService(st, log), auth, st, log))
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAdminCommandsNeedLogin(t *testing.T) {
	session := filepath.Join(t.TempDir(), "session.json")
	_, err := run(t, "--server", "http://127.0.0.1:1/api", "--session", session, "delete", "some-id")
	assert.ErrorIs(t, err, client.ErrLoginRequired)
}

func TestAddThenDelete(t *testing.T) {
	apiURL := startAPI(t)
	dir := t.TempDir()
	sessionFile := filepath.Join(dir, "session.json")

	session, err := client.OpenSession(sessionFile)
	require.NoError(t, err)
	token, err := client.New(apiURL, session).AdminLogin(context.Background(), models.Credentials{Username: "admin", Password: "admin"})
	require.NoError(t, err)
	require.NoError(t, session.Login(token))

	form := filepath.Join(dir, "result.json")
	require.NoError(t, os.WriteFile(form, []byte(`{
		"name": "Pooja Rani", "fatherName": "Mohan Lal", "rollNumber": "CLI-1",
		"examination": "Intermediate", "college": "DAV College", "stream": "Commerce",
		"passingYear": "2024", "session": "2023-24",
		"subjects": [{"code": "ACC", "name": "Accountancy", "marks": "81", "grade": "A"}]
	}`), 0o600))

	out, err := run(t, "--server", apiURL, "--session", sessionFile, "add", "--file", form)
	require.NoError(t, err)
	assert.Contains(t, out, "Result added successfully!")
	assert.Contains(t, out, "PASS")

	found, err := client.New(apiURL, nil).SearchResult(context.Background(), "CLI-1")
	require.NoError(t, err)
	assert.Equal(t, 81.0, found.TotalMarks)

	out, err = run(t, "--server", apiURL, "--session", sessionFile, "delete", found.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Result deleted successfully")

	out, err = run(t, "--server", apiURL, "--session", sessionFile, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")
	_, err = os.Stat(sessionFile)
	assert.True(t, os.IsNotExist(err))
}

func TestAskCaptchaRefreshesOnEmptyAnswer(t *testing.T) {
	stdin = bufio.NewReader(strings.NewReader("\nk2m4\n"))
	t.Cleanup(func() { stdin = bufio.NewReader(os.Stdin) })

	challenges := []string{"AAAA", "K2M4"}
	i := 0
	var out bytes.Buffer
	answer, err := askCaptcha(&out,
		func() string { return challenges[i] },
		func() error { i++; return nil })
	require.NoError(t, err)
	assert.Equal(t, "k2m4", answer)
	assert.Contains(t, out.String(), "AAAA")
	assert.Contains(t, out.String(), "K2M4")
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "update.json")

	require.NoError(t, os.WriteFile(file, []byte(`{"college": "DAV College", "totlMarks": 90}`), 0o600))
	var payload models.ResultPayload
	assert.ErrorIs(t, readJSON(file, &payload), client.ErrInvalidResult)

	require.NoError(t, os.WriteFile(file, []byte(`{"college": "DAV College"} {"stream": "Arts"}`), 0o600))
	payload = models.ResultPayload{}
	assert.ErrorIs(t, readJSON(file, &payload), client.ErrInvalidResult)

	require.NoError(t, os.WriteFile(file, []byte(`{"college": "DAV College", "totalMarks": 90}`), 0o600))
	payload = models.ResultPayload{}
	require.NoError(t, readJSON(file, &payload))
	require.NotNil(t, payload.TotalMarks)
	assert.Equal(t, 90.0, *payload.TotalMarks)
}

func TestReadJSONAcceptsResultForm(t *testing.T) {
	file := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, os.WriteFile(file, []byte(`{
		"name": "Pooja Rani", "rollNumber": "CLI-2",
		"subjects": [{"code": "ACC", "name": "Accountancy", "marks": "81", "grade": "A"}]
	}`), 0o600))

	var form resultForm
	require.NoError(t, readJSON(file, &form))
	assert.Equal(t, "CLI-2", form.RollNumber)
	require.Len(t, form.Subjects, 1)
}
