package person

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memDirectory struct {
	people []Person
	nextID int64
}

func (m *memDirectory) Create(_ context.Context, name string, photoCount int) (Person, error) {
	for _, p := range m.people {
		if p.Name == name {
			return Person{}, ErrDuplicateName
		}
	}
	m.nextID++
	p := Person{ID: m.nextID, Name: name, PhotoCount: photoCount, CreatedAt: time.Now()}
	m.people = append(m.people, p)
	return p, nil
}

func (m *memDirectory) GetByName(_ context.Context, name string) (*Person, error) {
	for i := range m.people {
		if m.people[i].Name == name {
			return &m.people[i], nil
		}
	}
	return nil, nil
}

func (m *memDirectory) List(_ context.Context) ([]Person, error) {
	return m.people, nil
}

func (m *memDirectory) DeleteCascade(_ context.Context, id int64) (string, error) {
	for i, p := range m.people {
		if p.ID == id {
			m.people = append(m.people[:i], m.people[i+1:]...)
			return p.Name, nil
		}
	}
	return "", ErrNotFound
}

type memPhotos struct {
	saved   map[string]int
	removed []string
	failure error
}

func newMemPhotos() *memPhotos {
	return &memPhotos{saved: make(map[string]int)}
}

func (m *memPhotos) Save(name string, images [][]byte) error {
	if m.failure != nil {
		return m.failure
	}
	m.saved[name] = len(images)
	return nil
}

func (m *memPhotos) Remove(name string) error {
	if m.failure != nil {
		return m.failure
	}
	m.removed = append(m.removed, name)
	return nil
}

func imgs(n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = []byte{0xff, 0xd8, byte(i)}
	}
	return out
}

func TestRegister(t *testing.T) {
	dir := &memDirectory{}
	photos := newMemPhotos()
	svc := NewService(dir, photos)

	p, err := svc.Register(context.Background(), "Bob", imgs(2))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if p.PhotoCount != 2 {
		t.Errorf("expected photoCount 2, got %d", p.PhotoCount)
	}
	if photos.saved["Bob"] != 2 {
		t.Errorf("expected 2 photos saved, got %d", photos.saved["Bob"])
	}
}

func TestRegisterDuplicateName(t *testing.T) {
	dir := &memDirectory{}
	svc := NewService(dir, newMemPhotos())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Bob", imgs(2)); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, "Bob", imgs(1)); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}

	// The original registration must be untouched.
	p, _ := dir.GetByName(ctx, "Bob")
	if p == nil || p.PhotoCount != 2 {
		t.Fatalf("expected Bob with photoCount 2 to survive, got %+v", p)
	}
	if len(dir.people) != 1 {
		t.Fatalf("expected one person row, got %d", len(dir.people))
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(&memDirectory{}, newMemPhotos())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", imgs(1)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty name: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Register(ctx, "Bob", nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("no images: expected ErrInvalidInput, got %v", err)
	}
}

func TestRegisterPhotoFailureAbortsRow(t *testing.T) {
	dir := &memDirectory{}
	photos := newMemPhotos()
	photos.failure = errors.New("disk full")
	svc := NewService(dir, photos)

	if _, err := svc.Register(context.Background(), "Bob", imgs(1)); err == nil {
		t.Fatal("expected photo store failure to surface")
	}
	if len(dir.people) != 0 {
		t.Fatal("no person row may exist after photo failure")
	}
}

func TestDelete(t *testing.T) {
	dir := &memDirectory{}
	photos := newMemPhotos()
	svc := NewService(dir, photos)
	ctx := context.Background()

	p, _ := svc.Register(ctx, "Carol", imgs(1))

	name, err := svc.Delete(ctx, p.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if name != "Carol" {
		t.Errorf("expected deleted name Carol, got %q", name)
	}
	if len(dir.people) != 0 {
		t.Error("person row must be gone")
	}
	if len(photos.removed) != 1 || photos.removed[0] != "Carol" {
		t.Errorf("expected photo directory removal for Carol, got %v", photos.removed)
	}
}

func TestDeleteUnknownID(t *testing.T) {
	svc := NewService(&memDirectory{}, newMemPhotos())
	if _, err := svc.Delete(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteSwallowsPhotoFailure(t *testing.T) {
	dir := &memDirectory{}
	photos := newMemPhotos()
	svc := NewService(dir, photos)
	ctx := context.Background()

	p, _ := svc.Register(ctx, "Dave", imgs(1))
	photos.failure = errors.New("permission denied")

	if _, err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("photo cleanup failure must not fail the delete, got %v", err)
	}
	if len(dir.people) != 0 {
		t.Error("person row must be gone despite photo failure")
	}
}
