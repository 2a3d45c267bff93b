// Package generator produces placeholder entities for seeding a store.
package generator

import (
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/go-arrower/entitystore/entity"
)

// Counts sets how many entities are generated per kind.
// The number of users is given explicitly to GenerateUsers.
// Negative counts generate nothing.
type Counts struct {
	Posts        int
	News         int
	ForumThreads int
}

func DefaultCounts() Counts {
	return Counts{
		Posts:        100,
		News:         100,
		ForumThreads: 10,
	}
}

type Option func(g *Generator)

// WithSeed makes the output reproducible. A seed of 0 picks a random one.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.faker = gofakeit.New(seed)
	}
}

func WithCounts(counts Counts) Option {
	return func(g *Generator) {
		g.counts = counts
	}
}

// WithNow sets the reference time all creation dates lie before.
func WithNow(now time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func New(opts ...Option) *Generator {
	g := &Generator{
		mu:     sync.Mutex{},
		faker:  gofakeit.New(0),
		counts: DefaultCounts(),
		now:    time.Now(),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generator creates entities with random but plausible values.
// It is safe for concurrent use, but the output is only reproducible
// for a single caller.
type Generator struct {
	mu sync.Mutex

	faker  *gofakeit.Faker
	counts Counts
	now    time.Time
}

// GenerateUsers returns count users and their IDs in the same order.
func (g *Generator) GenerateUsers(count int) ([]entity.User, []entity.ID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	users := make([]entity.User, 0, max(count, 0))
	ids := make([]entity.ID, 0, max(count, 0))

	for range count {
		user := entity.User{
			ID:         g.id(),
			UserName:   g.faker.Username(),
			FirstName:  g.faker.FirstName(),
			LastName:   g.faker.LastName(),
			Email:      g.faker.Email(),
			CreateDate: g.date(2), //nolint:mnd // users are older than their content
		}

		users = append(users, user)
		ids = append(ids, user.ID)
	}

	return users, ids
}

// GeneratePosts returns posts written by random users out of userIDs.
// Without users, there are no authors and no posts.
func (g *Generator) GeneratePosts(userIDs []entity.ID) []entity.Post {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(userIDs) == 0 {
		return []entity.Post{}
	}

	posts := make([]entity.Post, 0, max(g.counts.Posts, 0))

	for range g.counts.Posts {
		posts = append(posts, entity.Post{
			ID:          g.id(),
			CreatedByID: g.author(userIDs),
			Body:        g.faker.Paragraph(1, 3, 12, " "), //nolint:mnd // length of a forum post
			CreateDate:  g.date(1),
		})
	}

	return posts
}

// GenerateNews returns news items published by random users out of userIDs.
func (g *Generator) GenerateNews(userIDs []entity.ID) []entity.News {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(userIDs) == 0 {
		return []entity.News{}
	}

	news := make([]entity.News, 0, max(g.counts.News, 0))

	for range g.counts.News {
		news = append(news, entity.News{
			ID:          g.id(),
			CreatedByID: g.author(userIDs),
			Title:       g.faker.Sentence(6),                  //nolint:mnd // headline length
			Body:        g.faker.Paragraph(2, 4, 14, "\n\n"), //nolint:mnd // article length
			CreateDate:  g.date(1),
		})
	}

	return news
}

// GenerateForumThreads returns threads opened by random users.
// The posts are spread over the threads round-robin, keeping their order.
func (g *Generator) GenerateForumThreads(userIDs []entity.ID, posts []entity.Post) []entity.ForumThread {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(userIDs) == 0 || g.counts.ForumThreads <= 0 {
		return []entity.ForumThread{}
	}

	threads := make([]entity.ForumThread, 0, g.counts.ForumThreads)

	for range g.counts.ForumThreads {
		threads = append(threads, entity.ForumThread{
			ID:          g.id(),
			CreatedByID: g.author(userIDs),
			Title:       g.faker.Sentence(4), //nolint:mnd // thread title length
			CreateDate:  g.date(1),
			PostIDs:     []entity.ID{},
		})
	}

	for i, p := range posts {
		t := &threads[i%len(threads)]
		t.PostIDs = append(t.PostIDs, p.ID)
	}

	return threads
}

// id draws the uuid from the faker, so a seeded generator is reproducible.
func (g *Generator) id() entity.ID {
	id, err := uuid.NewRandomFromReader(g.faker.Rand)
	if err != nil {
		return uuid.New()
	}

	return id
}

func (g *Generator) author(userIDs []entity.ID) entity.ID {
	return userIDs[g.faker.Number(0, len(userIDs)-1)]
}

// date returns a time within the given number of years before now.
func (g *Generator) date(years int) time.Time {
	return g.faker.DateRange(g.now.AddDate(-years, 0, 0), g.now).UTC().Truncate(time.Second)
}
