package person

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrInvalidInput rejects registrations without a name or reference images.
var ErrInvalidInput = errors.New("name and at least one image required")

// Directory is the storage surface the service needs.
type Directory interface {
	Create(ctx context.Context, name string, photoCount int) (Person, error)
	GetByName(ctx context.Context, name string) (*Person, error)
	List(ctx context.Context) ([]Person, error)
	DeleteCascade(ctx context.Context, id int64) (string, error)
}

// PhotoStore persists reference images per identity.
type PhotoStore interface {
	Save(name string, images [][]byte) error
	Remove(name string) error
}

// Service owns identity registration and removal.
type Service struct {
	repo   Directory
	photos PhotoStore
}

// NewService creates a service over a directory store and a photo store.
func NewService(repo Directory, photos PhotoStore) *Service {
	return &Service{repo: repo, photos: photos}
}

// Register stores the reference images and creates one person row. The name
// must be unused and at least one image is required.
func (s *Service) Register(ctx context.Context, name string, images [][]byte) (Person, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(images) == 0 {
		return Person{}, ErrInvalidInput
	}

	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return Person{}, err
	}
	if existing != nil {
		return Person{}, ErrDuplicateName
	}

	// Photos land on disk before the row exists, matching registration
	// order: the recognizer only learns names from the directory, so a
	// half-registered person is photos without a row, never the reverse.
	if err := s.photos.Save(name, images); err != nil {
		return Person{}, err
	}
	return s.repo.Create(ctx, name, len(images))
}

// Delete removes the person, their attendance records, and best-effort
// their photo directory. Photo cleanup failures are logged and swallowed;
// the database deletion stands either way.
func (s *Service) Delete(ctx context.Context, id int64) (string, error) {
	name, err := s.repo.DeleteCascade(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.photos.Remove(name); err != nil {
		logrus.WithError(err).WithField("name", name).Warn("photo cleanup failed")
	}
	return name, nil
}

// List returns all registered people, newest first.
func (s *Service) List(ctx context.Context) ([]Person, error) {
	return s.repo.List(ctx)
}
