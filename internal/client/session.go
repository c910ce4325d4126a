package client

import (
	"context"
	"errors"
	"sync"

	"github.com/dukerupert/chorecore/internal/chore"
	"github.com/dukerupert/chorecore/internal/model"
)

// ErrNotLoaded is returned for chores the session has not fetched.
var ErrNotLoaded = errors.New("chore is not loaded in this session")

// Session is the client-side view of one signed-in user: who they are, the
// house's templates, and the chores fetched for each date. All reads return
// copies.
type Session struct {
	client *Client

	mu        sync.Mutex
	me        *Me
	templates []model.RecurringTask
	chores    map[string][]model.Chore
}

func NewSession(c *Client) *Session {
	return &Session{client: c, chores: make(map[string][]model.Chore)}
}

func (s *Session) Me() *Me {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.me == nil {
		return nil
	}
	m := *s.me
	if m.Profile != nil {
		p := *m.Profile
		m.Profile = &p
	}
	return &m
}

func (s *Session) Templates() []model.RecurringTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.RecurringTask(nil), s.templates...)
}

func (s *Session) Chores(date string) []model.Chore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Chore(nil), s.chores[date]...)
}

// Load fetches the caller and, for a house member, makes sure the day's
// chores exist before reading them.
func (s *Session) Load(ctx context.Context, date string) error {
	me, err := s.client.Me(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.me = me
	s.mu.Unlock()

	if !me.Provisioned {
		return nil
	}
	if _, err := s.client.Generate(ctx, date); err != nil {
		return err
	}
	return s.Refresh(ctx, date)
}

// Refresh re-reads templates and the chores for date.
func (s *Session) Refresh(ctx context.Context, date string) error {
	templates, err := s.client.Templates(ctx)
	if err != nil {
		return err
	}
	chores, err := s.client.Chores(ctx, date)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.templates = templates
	s.chores[date] = chores
	s.mu.Unlock()
	return nil
}

// Clear forgets the token and all cached state.
func (s *Session) Clear() {
	s.client.SetToken("")
	s.mu.Lock()
	s.me = nil
	s.templates = nil
	s.chores = make(map[string][]model.Chore)
	s.mu.Unlock()
}

// find returns the cached chore's date and index. Callers hold s.mu.
func (s *Session) find(id string) (string, int, bool) {
	for date, chores := range s.chores {
		for i := range chores {
			if chores[i].ID == id {
				return date, i, true
			}
		}
	}
	return "", 0, false
}

func (s *Session) put(c model.Chore) {
	if date, i, ok := s.find(c.ID); ok {
		s.chores[date][i] = c
	}
}

// Toggle shows the chore's next status immediately, then asks the server.
// If the server refuses, the cached chore goes back to what it was.
func (s *Session) Toggle(ctx context.Context, id string) (*model.Chore, error) {
	s.mu.Lock()
	date, i, ok := s.find(id)
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotLoaded
	}
	prev := s.chores[date][i]
	next, err := chore.NextOnToggle(prev.Status)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.chores[date][i].Status = next
	s.mu.Unlock()

	updated, err := s.client.Toggle(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.put(prev)
		return nil, err
	}
	s.put(*updated)
	return updated, nil
}

// Approve awards points for a submitted chore. The cache changes only after
// the server confirms.
func (s *Session) Approve(ctx context.Context, id string, awardedPoints int) (*chore.ApproveResult, error) {
	res, err := s.client.Approve(ctx, id, awardedPoints)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(res.Chore)
	if s.me != nil && s.me.Profile != nil && s.me.UserID == res.CreditedUserID {
		s.me.Profile.Points = res.Balance
	}
	return res, nil
}
