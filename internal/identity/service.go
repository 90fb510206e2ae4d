package identity

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"campusevents/internal/auth"
)

var (
	// ErrEmailTaken signals a signup with an email already on file.
	ErrEmailTaken = errors.New("account with this email already exists")
	// ErrCollegeNotFound signals a reference to a missing college.
	ErrCollegeNotFound = errors.New("college not found")
	// ErrInvalidCredentials covers both unknown email and bad password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service handles signup, login and identity resolution for both roles.
type Service struct {
	repo *Repository
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// CreateCollege registers a new college.
func (s *Service) CreateCollege(ctx context.Context, name, location string) (College, error) {
	return s.repo.InsertCollege(ctx, name, location)
}

// GetCollege returns a college, nil when absent.
func (s *Service) GetCollege(ctx context.Context, id string) (*College, error) {
	return s.repo.GetCollege(ctx, id)
}

// ListColleges returns all colleges.
func (s *Service) ListColleges(ctx context.Context) ([]College, error) {
	return s.repo.ListColleges(ctx)
}

func (s *Service) signup(ctx context.Context, table, name, email, password, collegeID string) (Account, error) {
	existing, _, err := s.repo.credentialByEmail(ctx, table, email)
	if err != nil {
		return Account{}, err
	}
	if existing != nil {
		return Account{}, ErrEmailTaken
	}
	college, err := s.repo.GetCollege(ctx, collegeID)
	if err != nil {
		return Account{}, err
	}
	if college == nil {
		return Account{}, ErrCollegeNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}
	return s.repo.insertAccount(ctx, table, name, email, string(hash), collegeID)
}

func (s *Service) login(ctx context.Context, table, email, password string) (Account, error) {
	acc, hash, err := s.repo.credentialByEmail(ctx, table, email)
	if err != nil {
		return Account{}, err
	}
	if acc == nil {
		return Account{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return Account{}, ErrInvalidCredentials
	}
	return *acc, nil
}

// SignupAdmin creates an admin account.
func (s *Service) SignupAdmin(ctx context.Context, name, email, password, collegeID string) (Account, error) {
	return s.signup(ctx, tableAdmins, name, email, password, collegeID)
}

// SignupStudent creates a student account.
func (s *Service) SignupStudent(ctx context.Context, name, email, password, collegeID string) (Account, error) {
	return s.signup(ctx, tableStudents, name, email, password, collegeID)
}

// LoginAdmin verifies admin credentials.
func (s *Service) LoginAdmin(ctx context.Context, email, password string) (Account, error) {
	return s.login(ctx, tableAdmins, email, password)
}

// LoginStudent verifies student credentials.
func (s *Service) LoginStudent(ctx context.Context, email, password string) (Account, error) {
	return s.login(ctx, tableStudents, email, password)
}

// GetStudent returns a student profile, nil when absent.
func (s *Service) GetStudent(ctx context.Context, id string) (*Account, error) {
	return s.repo.GetStudent(ctx, id)
}

// ResolveAdmin implements auth.IdentityStore.
func (s *Service) ResolveAdmin(ctx context.Context, id string) (*auth.Identity, error) {
	acc, err := s.repo.GetAdmin(ctx, id)
	if err != nil || acc == nil {
		return nil, err
	}
	return &auth.Identity{ID: acc.ID, Name: acc.Name, Email: acc.Email, CollegeID: acc.CollegeID}, nil
}

// ResolveStudent implements auth.IdentityStore.
func (s *Service) ResolveStudent(ctx context.Context, id string) (*auth.Identity, error) {
	acc, err := s.repo.GetStudent(ctx, id)
	if err != nil || acc == nil {
		return nil, err
	}
	return &auth.Identity{ID: acc.ID, Name: acc.Name, Email: acc.Email, CollegeID: acc.CollegeID}, nil
}
