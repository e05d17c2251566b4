// Package roster tracks the members of a care team for one session.
package roster

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Sentinel kinds for roster errors.
var (
	ErrNotFound    = errors.New("member not found")
	ErrInvalidRole = errors.New("invalid member role")
	ErrEmptyName   = errors.New("member name must not be empty")
)

// Role classifies a care-team member.
type Role string

// Supported roles.
const (
	RoleCaregiver Role = "caregiver"
	RoleFamily    Role = "family"
	RoleClinician Role = "clinician"
)

// ParseRole maps a wire string to a Role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.TrimSpace(strings.ToLower(s))) {
	case RoleCaregiver:
		return RoleCaregiver, nil
	case RoleFamily:
		return RoleFamily, nil
	case RoleClinician:
		return RoleClinician, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Member is one person on the care team.
type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
	Phone string `json:"phone,omitempty"`
}

// Roster is a mutex-guarded in-memory member registry.
type Roster struct {
	mu      sync.RWMutex
	members map[string]Member
}

// New creates an empty roster.
func New() *Roster {
	return &Roster{members: make(map[string]Member)}
}

// Add validates and stores a member, generating an id when absent.
func (r *Roster) Add(m Member) (Member, error) {
	if strings.TrimSpace(m.Name) == "" {
		return Member{}, ErrEmptyName
	}
	if _, err := ParseRole(string(m.Role)); err != nil {
		return Member{}, err
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[m.ID] = m
	return m, nil
}

// Get returns the member with the given id.
func (r *Roster) Get(id string) (Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.members[id]
	if !ok {
		return Member{}, ErrNotFound
	}
	return m, nil
}

// Remove deletes a member, reporting ErrNotFound for unknown ids.
func (r *Roster) Remove(id string) (Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[id]
	if !ok {
		return Member{}, ErrNotFound
	}
	delete(r.members, id)
	return m, nil
}

// List returns all members sorted by name, id as tie-break.
func (r *Roster) List() []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the member count.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}
