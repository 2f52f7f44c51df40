package client

import (
	"context"
	"strconv"
	"strings"

	"results-portal/models"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

var (
	ErrInvalidCaptcha     = errors.New("invalid captcha")
	ErrRollNumberRequired = errors.New("roll number required")
)

type LoginState int

const (
	StateIdle LoginState = iota
	StateSubmitting
	StateAuthenticated
	StateFailed
)

func (s LoginState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// challenger holds the captcha currently shown to the user.
type challenger struct {
	gen       func() (string, error)
	challenge string
}

func newChallenger(gen func() (string, error)) (challenger, error) {
	if gen == nil {
		gen = func() (string, error) { return GenerateCaptcha(CaptchaLength) }
	}
	c := challenger{gen: gen}
	if err := c.refresh(); err != nil {
		return challenger{}, err
	}
	return c, nil
}

func (c *challenger) refresh() error {
	next, err := c.gen()
	if err != nil {
		return errors.Wrap(err, "generate captcha")
	}
	c.challenge = next
	return nil
}

// LoginFlow drives the admin login form: Idle -> Submitting -> Authenticated
// or Failed, and Failed goes back to Idle with a fresh captcha.
type LoginFlow struct {
	api     *Client
	session *Session
	captcha challenger
	state   LoginState
}

// NewLoginFlow starts an idle login form. gen may be nil for the default captcha.
func NewLoginFlow(api *Client, session *Session, gen func() (string, error)) (*LoginFlow, error) {
	c, err := newChallenger(gen)
	if err != nil {
		return nil, err
	}
	return &LoginFlow{api: api, session: session, captcha: c, state: StateIdle}, nil
}

func (f *LoginFlow) Challenge() string { return f.captcha.challenge }

func (f *LoginFlow) State() LoginState { return f.state }

// Refresh shows a new captcha without submitting.
func (f *LoginFlow) Refresh() error { return f.captcha.refresh() }

// Submit checks the captcha locally, then the credentials with the server.
// On success the token is stored in the session.
func (f *LoginFlow) Submit(ctx context.Context, username, password, answer string) error {
	if !CaptchaMatches(answer, f.captcha.challenge) {
		return f.fail(ErrInvalidCaptcha)
	}

	f.state = StateSubmitting
	token, err := f.api.AdminLogin(ctx, models.Credentials{Username: username, Password: password})
	if err != nil {
		return f.fail(err)
	}
	if err := f.session.Login(token); err != nil {
		return f.fail(err)
	}
	f.state = StateAuthenticated
	return nil
}

// fail returns the form to Idle with a fresh captcha. If no captcha can be
// generated the old one stays and the refresh error is attached to cause.
func (f *LoginFlow) fail(cause error) error {
	f.state = StateFailed
	err := f.captcha.refresh()
	f.state = StateIdle
	if err != nil {
		return multierror.Append(cause, err)
	}
	return cause
}

// SearchFlow is the public roll number search with its captcha.
type SearchFlow struct {
	api     *Client
	captcha challenger
}

func NewSearchFlow(api *Client, gen func() (string, error)) (*SearchFlow, error) {
	c, err := newChallenger(gen)
	if err != nil {
		return nil, err
	}
	return &SearchFlow{api: api, captcha: c}, nil
}

func (f *SearchFlow) Challenge() string { return f.captcha.challenge }

func (f *SearchFlow) Refresh() error { return f.captcha.refresh() }

// Submit looks the roll number up exactly as typed.
func (f *SearchFlow) Submit(ctx context.Context, rollNumber, answer string) (*models.Result, error) {
	if rollNumber == "" {
		return nil, ErrRollNumberRequired
	}
	if !CaptchaMatches(answer, f.captcha.challenge) {
		if err := f.captcha.refresh(); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCaptcha
	}
	return f.api.SearchResult(ctx, rollNumber)
}

// StudentDetails is the student part of the admin result form.
type StudentDetails struct {
	Name        string `json:"name"`
	FatherName  string `json:"fatherName"`
	RollNumber  string `json:"rollNumber"`
	Examination string `json:"examination"`
	College     string `json:"college"`
	Stream      string `json:"stream"`
	Medium      string `json:"medium"`
	PassingYear string `json:"passingYear"`
	Session     string `json:"session"`
}

// TotalMarks sums the numeric marks of every subject.
func TotalMarks(subjects []models.Subject) (float64, error) {
	var total float64
	for i, s := range subjects {
		m, err := strconv.ParseFloat(strings.TrimSpace(s.Marks), 64)
		if err != nil {
			return 0, errors.Wrapf(ErrInvalidResult, "subject %d marks %q", i+1, s.Marks)
		}
		total += m
	}
	return total, nil
}

// NewResultPayload builds a full create payload with totalMarks computed
// from the subjects.
func NewResultPayload(d StudentDetails, subjects []models.Subject) (models.ResultPayload, error) {
	total, err := TotalMarks(subjects)
	if err != nil {
		return models.ResultPayload{}, err
	}
	subs := make([]models.Subject, len(subjects))
	copy(subs, subjects)
	return models.ResultPayload{
		Name:        &d.Name,
		FatherName:  &d.FatherName,
		RollNumber:  &d.RollNumber,
		Examination: &d.Examination,
		College:     &d.College,
		Stream:      &d.Stream,
		Medium:      &d.Medium,
		PassingYear: &d.PassingYear,
		Session:     &d.Session,
		Subjects:    &subs,
		TotalMarks:  &total,
	}, nil
}

// AdminFlow is available only to an authenticated session.
type AdminFlow struct {
	api     *Client
	session *Session
}

func NewAdminFlow(api *Client, session *Session) (*AdminFlow, error) {
	if err := session.Require(); err != nil {
		return nil, err
	}
	return &AdminFlow{api: api, session: session}, nil
}

func (f *AdminFlow) Add(ctx context.Context, d StudentDetails, subjects []models.Subject) (*models.Result, error) {
	payload, err := NewResultPayload(d, subjects)
	if err != nil {
		return nil, err
	}
	r, err := f.api.AddResult(ctx, payload)
	return r, f.check(err)
}

// Update sends payload as is; when it replaces the subjects without a total,
// the total is recomputed from the new subjects.
func (f *AdminFlow) Update(ctx context.Context, id string, payload models.ResultPayload) (*models.Result, error) {
	if payload.Subjects != nil && payload.TotalMarks == nil {
		total, err := TotalMarks(*payload.Subjects)
		if err != nil {
			return nil, err
		}
		payload.TotalMarks = &total
	}
	r, err := f.api.UpdateResult(ctx, id, payload)
	return r, f.check(err)
}

func (f *AdminFlow) Delete(ctx context.Context, id string) error {
	return f.check(f.api.DeleteResult(ctx, id))
}

func (f *AdminFlow) Logout() error {
	return f.session.Logout()
}

// check sends the user back to login when the server no longer accepts the token.
func (f *AdminFlow) check(err error) error {
	if errors.Is(err, ErrUnauthorized) {
		if lerr := f.session.Logout(); lerr != nil {
			return lerr
		}
		return ErrLoginRequired
	}
	return err
}
