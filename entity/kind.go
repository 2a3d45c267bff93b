package entity

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupportedKind = errors.New("unsupported kind")

// Kind is the closed set of entity categories the store knows about.
type Kind int

const (
	KindUser Kind = iota + 1
	KindPost
	KindNews
	KindForumThread
)

// Kinds returns all supported kinds in their canonical order.
func Kinds() []Kind {
	return []Kind{KindUser, KindPost, KindNews, KindForumThread}
}

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "User"
	case KindPost:
		return "Post"
	case KindNews:
		return "News"
	case KindForumThread:
		return "ForumThread"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	return k >= KindUser && k <= KindForumThread
}

// ParseKind returns the Kind for a name like "user", "Users", "forum-thread" or "ForumThread".
func ParseKind(name string) (Kind, error) {
	normalised := strings.ToLower(strings.TrimSpace(name))
	normalised = strings.NewReplacer("-", "", "_", "", " ", "").Replace(normalised)

	switch normalised {
	case "user", "users":
		return KindUser, nil
	case "post", "posts":
		return KindPost, nil
	case "news":
		return KindNews, nil
	case "forumthread", "forumthreads", "thread", "threads":
		return KindForumThread, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedKind, name)
	}
}
