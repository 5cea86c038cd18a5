// Package newplayer creates the avatar entity a newly connected player acts through.
package newplayer

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/go-mudcore/internal/entity"
	"github.com/pixil98/go-mudcore/internal/hooks"
)

const (
	KindAvatar entity.Kind = "avatar"

	// AttrName holds the avatar's display name.
	AttrName = "name"
	// AttrConnected is true while a session is acting through the avatar.
	AttrConnected = "connected"

	DefaultLook = "A plain, unremarkable adventurer."
)

// Request describes the player an avatar is wanted for.
type Request struct {
	Name string
}

type (
	// ResolveAvatarFunc may supply the avatar for a request. Returning false
	// defers to later subscribers and finally to the default avatar.
	ResolveAvatarFunc func(ctx context.Context, req *Request) (entity.Entity, bool, error)
	AvatarCreatedFunc func(ctx context.Context, avatar entity.Entity) error
)

var (
	ResolveAvatar = hooks.New[ResolveAvatarFunc]("resolve_avatar")
	AvatarCreated = hooks.New[AvatarCreatedFunc]("avatar_created")
)

// Avatar is the entity kind players act through.
type Avatar struct {
	*entity.Base
}

// Name returns the avatar's display name.
func Name(e entity.Entity) string {
	var name string
	if _, err := e.Attr(AttrName, &name); err != nil || name == "" {
		return fmt.Sprintf("someone #%d", e.ID())
	}
	return name
}

// Connected reports whether a session is currently acting through e.
func Connected(e entity.Entity) bool {
	var connected bool
	if _, err := e.Attr(AttrConnected, &connected); err != nil {
		return false
	}
	return connected
}

// SetConnected records whether a session is acting through e.
func SetConnected(e entity.Entity, connected bool) error {
	return e.SetAttr(AttrConnected, connected)
}

// System creates avatars for new players.
type System struct {
	hooks   *hooks.Registry
	store   *entity.Store
	actions *entity.ActionSystem
}

func NewSystem(h *hooks.Registry) *System {
	return &System{hooks: h}
}

// Bind wires the systems avatar creation depends on.
func (s *System) Bind(store *entity.Store, actions *entity.ActionSystem) {
	s.store = store
	s.actions = actions
}

// Create returns the avatar for a new player named name.
func (s *System) Create(ctx context.Context, name string) (entity.Entity, error) {
	if s.store == nil || s.actions == nil {
		return nil, fmt.Errorf("new player system used before core systems were ready")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("player name cannot be empty")
	}
	req := &Request{Name: name}

	avatar, ok, err := hooks.Resolve(s.hooks, ResolveAvatar, func(fn ResolveAvatarFunc) (entity.Entity, bool, error) {
		return fn(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("resolving avatar: %w", err)
	}
	if ok && avatar == nil {
		return nil, fmt.Errorf("resolving avatar: subscriber supplied no entity")
	}
	if !ok {
		avatar, err = s.defaultAvatar(req)
		if err != nil {
			return nil, err
		}
	}

	s.actions.MarkActing(avatar)
	if err := SetConnected(avatar, true); err != nil {
		return nil, err
	}

	err = hooks.Dispatch(s.hooks, AvatarCreated, func(fn AvatarCreatedFunc) error {
		return fn(ctx, avatar)
	})
	if err != nil {
		return nil, fmt.Errorf("announcing avatar: %w", err)
	}

	return avatar, nil
}

func (s *System) defaultAvatar(req *Request) (entity.Entity, error) {
	avatar, err := s.store.Add(KindAvatar)
	if err != nil {
		return nil, fmt.Errorf("adding avatar: %w", err)
	}

	if err := avatar.SetAttr(AttrName, req.Name); err != nil {
		return nil, err
	}
	avatar.AddTag(entity.TagAvatar)
	avatar.AddLook(entity.LookBasic, DefaultLook)

	return avatar, nil
}
