// Package entity contains the records of the forum application.
//
// The store treats them as opaque values, apart from their identity and kind,
// and the creation date of News for the latest news.
package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// ID is the 128-bit identifier shared by all entities.
type ID = uuid.UUID

// NewID returns a new random ID.
func NewID() ID {
	return uuid.New()
}

// Entity is the type set of everything the store can hold.
// Using it as a constraint makes any other type a compile error.
type Entity interface {
	User | Post | News | ForumThread

	Identity() ID
	Kind() Kind
}

type User struct {
	ID         ID        `json:"id"         validate:"required"`
	UserName   string    `json:"userName"   validate:"required"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"      validate:"omitempty,email"`
	CreateDate time.Time `json:"createDate"`
}

func (u User) Identity() ID { return u.ID }
func (u User) Kind() Kind   { return KindUser }

type Post struct {
	ID          ID        `json:"id"          validate:"required"`
	CreatedByID ID        `json:"createdById" validate:"required"`
	Body        string    `json:"body"        validate:"required"`
	CreateDate  time.Time `json:"createDate"`
}

func (p Post) Identity() ID { return p.ID }
func (p Post) Kind() Kind   { return KindPost }

type News struct {
	ID          ID        `json:"id"          validate:"required"`
	CreatedByID ID        `json:"createdById" validate:"required"`
	Title       string    `json:"title"       validate:"required"`
	Body        string    `json:"body"`
	CreateDate  time.Time `json:"createDate"`
}

func (n News) Identity() ID { return n.ID }
func (n News) Kind() Kind   { return KindNews }

// ForumThread groups posts under a title.
type ForumThread struct {
	ID          ID        `json:"id"          validate:"required"`
	CreatedByID ID        `json:"createdById" validate:"required"`
	Title       string    `json:"title"       validate:"required"`
	CreateDate  time.Time `json:"createDate"`
	PostIDs     []ID      `json:"postIds"`
}

func (t ForumThread) Identity() ID { return t.ID }
func (t ForumThread) Kind() Kind   { return KindForumThread }

// Clone returns a deep copy of t, sharing no memory with it.
func (t ForumThread) Clone() ForumThread {
	t.PostIDs = slices.Clone(t.PostIDs)
	return t
}

// Clone returns a copy of e that shares no memory with e.
// Only ForumThread holds references; all other entities are plain values.
func Clone[E Entity](e E) E { //nolint:ireturn // valid use of generics
	if t, ok := any(e).(ForumThread); ok {
		c, _ := any(t.Clone()).(E)
		return c
	}

	return e
}
