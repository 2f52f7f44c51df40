package services

import (
	"context"
	"reflect"
	"strings"
	"time"

	"results-portal/models"
	"results-portal/store"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ResultService is the CRUD facade over the record store.
type ResultService struct {
	store    store.ResultStore
	validate *validator.Validate
	log      logrus.FieldLogger
	now      func() time.Time
	newID    func() string
}

func NewResultService(s store.ResultStore, log logrus.FieldLogger) *ResultService {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &ResultService{
		store:    s,
		validate: v,
		log:      log,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Second) },
		newID:    uuid.NewString,
	}
}

func (s *ResultService) GetByRollNumber(ctx context.Context, rollNumber string) (*models.Result, error) {
	if rollNumber == "" {
		return nil, ErrNotFound
	}
	r, err := s.store.FindByRollNumber(ctx, rollNumber)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get result")
	}
	return r, nil
}

func (s *ResultService) Create(ctx context.Context, p models.ResultPayload) (*models.Result, error) {
	var r models.Result
	p.ApplyTo(&r)

	var missing []string
	if p.TotalMarks == nil {
		missing = append(missing, "totalMarks")
	}
	if err := s.check(&r, missing...); err != nil {
		return nil, err
	}

	now := s.now()
	r.ID = s.newID()
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.Subjects == nil {
		r.Subjects = []models.Subject{}
	}

	if err := s.store.Insert(ctx, &r); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, ErrDuplicateKey
		}
		return nil, errors.Wrap(err, "create result")
	}
	s.log.WithFields(logrus.Fields{"id": r.ID, "roll_number": r.RollNumber}).Info("result created")
	return &r, nil
}

// Update merges the present fields of p into the stored record and writes it
// back. A present subject list replaces the old one as a unit.
func (s *ResultService) Update(ctx context.Context, id string, p models.ResultPayload) (*models.Result, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	r, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "load result")
	}

	p.ApplyTo(r)
	if err := s.check(r); err != nil {
		return nil, err
	}
	r.UpdatedAt = s.now()

	if err := s.store.Replace(ctx, r); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, store.ErrDuplicateKey):
			return nil, ErrDuplicateKey
		}
		return nil, errors.Wrap(err, "update result")
	}
	s.log.WithFields(logrus.Fields{"id": r.ID, "roll_number": r.RollNumber}).Info("result updated")
	return r, nil
}

func (s *ResultService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return errors.Wrap(err, "delete result")
	}
	s.log.WithField("id", id).Info("result deleted")
	return nil
}

func (s *ResultService) check(r *models.Result, missing ...string) error {
	err := s.validate.Struct(r)
	if err == nil && len(missing) == 0 {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if err != nil && !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "validate result")
	}
	return newValidationError(fieldErrs, missing...)
}
