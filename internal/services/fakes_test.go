package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Corphon/DreamLogger/internal/models"
)

var errProviderDown = errors.New("provider down")

// scriptedText answers mood and interpretation prompts with fixed responses.
type scriptedText struct {
	mood, interpretation string
	moodErr, interpErr   error

	mu      sync.Mutex
	prompts []string
}

func (s *scriptedText) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()

	if strings.Contains(prompt, "Mood category:") {
		return s.mood, s.moodErr
	}
	return s.interpretation, s.interpErr
}

type failingText struct{ calls int }

func (f *failingText) Generate(context.Context, string) (string, error) {
	f.calls++
	return "", errProviderDown
}

type fakeImageProvider struct {
	name string
	data []byte
	err  error

	prompts []string
}

func (p *fakeImageProvider) Name() string { return p.name }

func (p *fakeImageProvider) Generate(_ context.Context, prompt string) ([]byte, error) {
	p.prompts = append(p.prompts, prompt)
	return p.data, p.err
}

type memoryImageStore struct {
	saved map[string][]byte
	err   error
}

func (m *memoryImageStore) SaveImage(filename string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[filename] = data
	return "/static/generated/" + filename, nil
}

type memoryRepo struct {
	mu      sync.Mutex
	dreams  []models.Dream
	nextID  int64
	failErr error
}

func (r *memoryRepo) AppendDream(ctx context.Context, d *models.Dream) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	r.nextID++
	d.ID = r.nextID
	r.dreams = append(r.dreams, *d)
	return nil
}

func (r *memoryRepo) ListDreams(_ context.Context, username string) ([]models.Dream, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Dream, 0)
	for i := len(r.dreams) - 1; i >= 0; i-- {
		if r.dreams[i].Username == username {
			out = append(out, r.dreams[i])
		}
	}
	return out, nil
}

type fixedImages struct{ url string }

func (f fixedImages) Generate(context.Context, string) string { return f.url }

type recordingNotifier struct{ dreams []*models.Dream }

func (n *recordingNotifier) NotifyDream(d *models.Dream) { n.dreams = append(n.dreams, d) }

type memoryUsers struct {
	users map[string]*models.User
	err   error
}

func (m *memoryUsers) EnsureUser(_ context.Context, username string) (*models.User, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	if u, ok := m.users[username]; ok {
		return u, false, nil
	}
	u := &models.User{ID: int64(len(m.users) + 1), Username: username}
	m.users[username] = u
	return u, true, nil
}
