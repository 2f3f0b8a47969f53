package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hnrobert/edupulse/internal/auth"
	"github.com/hnrobert/edupulse/internal/store"
)

type StudentRegistration struct {
	Name      string
	Email     string
	Password  string
	Phone     string
	StudentID string
}

// FederatedIdentity is what an external identity provider asserted about the user.
type FederatedIdentity struct {
	Email    string
	Name     string
	GoogleID string
	Picture  string
}

func (s *Service) RegisterStudent(ctx context.Context, req StudentRegistration) (StudentSession, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return StudentSession{}, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}
	if err := checkPasswordLength(req.Password); err != nil {
		return StudentSession{}, err
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return StudentSession{}, fmt.Errorf("load store: %w", err)
	}
	if doc.StudentByEmail(email) != nil {
		return StudentSession{}, ErrDuplicateEmail
	}
	hash, err := auth.HashPassword(req.Password, s.cost)
	if err != nil {
		return StudentSession{}, fmt.Errorf("hash password: %w", err)
	}

	var created store.Student
	err = s.store.Update(ctx, func(doc *store.Document) error {
		if doc.StudentByEmail(email) != nil {
			return ErrDuplicateEmail
		}
		studentID := strings.TrimSpace(req.StudentID)
		if studentID == "" {
			generated, genErr := s.newStudentID(localIDPrefix, doc)
			if genErr != nil {
				return genErr
			}
			studentID = generated
		}
		now := s.now().UTC()
		created = store.Student{
			ID:           doc.NextStudentID(now),
			Name:         name,
			Email:        email,
			Phone:        strings.TrimSpace(req.Phone),
			StudentID:    studentID,
			PasswordHash: hash,
			CreatedAt:    now,
		}
		doc.Students = append(doc.Students, created)
		return nil
	})
	if err != nil {
		return StudentSession{}, wrapStoreErr(err)
	}

	sess, err := s.studentSession(&created)
	if err != nil {
		return StudentSession{}, err
	}
	sess.Created = true
	return sess, nil
}

// LoginStudent answers ErrInvalidCredentials for unknown emails, wrong passwords
// and federated-only accounts alike.
func (s *Service) LoginStudent(ctx context.Context, email, password string) (StudentSession, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return StudentSession{}, fmt.Errorf("load store: %w", err)
	}

	var (
		id   int64
		hash string
	)
	student := doc.StudentByEmail(email)
	if student != nil {
		id, hash = student.ID, student.PasswordHash
	}
	if err := s.checkPassword(auth.RoleStudent, id, hash, password); err != nil {
		return StudentSession{}, err
	}
	return s.studentSession(student)
}

// FederatedLogin signs a student in from an identity-provider assertion. An
// unknown email gets a passwordless account with a "G" student id; a known
// email is reused untouched.
func (s *Service) FederatedLogin(ctx context.Context, id FederatedIdentity) (StudentSession, error) {
	email := strings.TrimSpace(id.Email)
	if email == "" {
		return StudentSession{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	var (
		student store.Student
		created bool
	)
	err := s.store.Update(ctx, func(doc *store.Document) error {
		if existing := doc.StudentByEmail(email); existing != nil {
			student = *existing
			return errUnchanged
		}
		studentID, err := s.newStudentID(federatedIDPrefix, doc)
		if err != nil {
			return err
		}
		name := strings.TrimSpace(id.Name)
		if name == "" {
			name = emailLocalPart(email)
		}
		now := s.now().UTC()
		student = store.Student{
			ID:        doc.NextStudentID(now),
			Name:      name,
			Email:     email,
			StudentID: studentID,
			GoogleID:  strings.TrimSpace(id.GoogleID),
			Picture:   strings.TrimSpace(id.Picture),
			CreatedAt: now,
		}
		doc.Students = append(doc.Students, student)
		created = true
		return nil
	})
	if err != nil && !errors.Is(err, errUnchanged) {
		return StudentSession{}, wrapStoreErr(err)
	}

	sess, err := s.studentSession(&student)
	if err != nil {
		return StudentSession{}, err
	}
	sess.Created = created
	return sess, nil
}

func (s *Service) studentSession(st *store.Student) (StudentSession, error) {
	tok, exp, err := s.issue(st.ID, auth.RoleStudent, auth.StudentTTL)
	if err != nil {
		return StudentSession{}, err
	}
	return StudentSession{Token: tok, ExpiresAt: exp, ID: st.ID, Student: studentProfile(st)}, nil
}

func emailLocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
