package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/go-arrower/entitystore/entity"
	"github.com/go-arrower/entitystore/store"
)

var ErrNotFound = errors.New("entity not found")

func newListCmd(c *cli) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "list <kind>",
		Aliases: []string{"ls"},
		Short:   "List all entities of a kind",
		Long: `List all entities of a kind in the order they are stored.
Supported kinds are users, posts, news, and forum-threads.`,
		Example: `  entitystore list users
  entitystore list forum-threads --limit 3`,
		Args: cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			kind, err := entity.ParseKind(args[0])
			if err != nil {
				return fmt.Errorf("%w", err)
			}

			di, err := c.container(cmd)
			if err != nil {
				return err
			}

			switch kind {
			case entity.KindUser:
				return list[entity.User](cmd.Context(), cmd.OutOrStdout(), di.Store, limit)
			case entity.KindPost:
				return list[entity.Post](cmd.Context(), cmd.OutOrStdout(), di.Store, limit)
			case entity.KindNews:
				return list[entity.News](cmd.Context(), cmd.OutOrStdout(), di.Store, limit)
			case entity.KindForumThread:
				return list[entity.ForumThread](cmd.Context(), cmd.OutOrStdout(), di.Store, limit)
			}

			return fmt.Errorf("%w: %s", store.ErrUnsupportedKind, kind)
		}),
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "show at most this many entities, 0 shows all")

	return cmd
}

func list[E entity.Entity](ctx context.Context, w io.Writer, s *store.Store, limit int) error {
	all, err := store.All[E](ctx, s)
	if err != nil {
		return fmt.Errorf("could not list: %w", err)
	}

	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}

	return printTable(w, all)
}

func newGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "get <kind> <id>",
		Short:   "Show a single entity as JSON",
		Example: `  entitystore get user 1b4e28ba-2fa1-11d2-883f-0016d3cca427`,
		Args:    cobra.ExactArgs(2), //nolint:mnd // kind and id
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			kind, err := entity.ParseKind(args[0])
			if err != nil {
				return fmt.Errorf("%w", err)
			}

			id, err := uuid.Parse(args[1])
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[1], err)
			}

			di, err := c.container(cmd)
			if err != nil {
				return err
			}

			var (
				found bool
				e     any
			)

			switch kind {
			case entity.KindUser:
				e, found, err = get[entity.User](cmd.Context(), di.Store, id)
			case entity.KindPost:
				e, found, err = get[entity.Post](cmd.Context(), di.Store, id)
			case entity.KindNews:
				e, found, err = get[entity.News](cmd.Context(), di.Store, id)
			case entity.KindForumThread:
				e, found, err = get[entity.ForumThread](cmd.Context(), di.Store, id)
			default:
				err = fmt.Errorf("%w: %s", store.ErrUnsupportedKind, kind)
			}

			if err != nil {
				return err
			}

			if !found {
				return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
			}

			return printJSON(cmd.OutOrStdout(), e)
		}),
	}
}

func get[E entity.Entity](ctx context.Context, s *store.Store, id entity.ID) (any, bool, error) {
	e, found, err := store.Get[E](ctx, s, id)
	if err != nil {
		return nil, false, fmt.Errorf("could not get: %w", err)
	}

	return e, found, nil
}

func newNewsCmd(c *cli) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "news",
		Short: "Show the latest news, most recent first",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, _ []string) error {
			di, err := c.container(cmd)
			if err != nil {
				return err
			}

			news, err := di.Store.LatestNews(cmd.Context(), count)
			if err != nil {
				return fmt.Errorf("could not get latest news: %w", err)
			}

			return printTable(cmd.OutOrStdout(), news)
		}),
	}

	cmd.Flags().IntVarP(&count, "count", "c", 5, "number of news to show") //nolint:mnd // default

	return cmd
}

// dump is the JSON document written by the dump command.
type dump struct {
	Users        []entity.User        `json:"users,omitempty"`
	Posts        []entity.Post        `json:"posts,omitempty"`
	News         []entity.News        `json:"news,omitempty"`
	ForumThreads []entity.ForumThread `json:"forumThreads,omitempty"`
}

func newDumpCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Write all entities of all kinds as JSON",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, _ []string) error {
			di, err := c.container(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			d := dump{}

			for _, kind := range di.Store.Kinds() {
				switch kind {
				case entity.KindUser:
					d.Users, err = store.All[entity.User](ctx, di.Store)
				case entity.KindPost:
					d.Posts, err = store.All[entity.Post](ctx, di.Store)
				case entity.KindNews:
					d.News, err = store.All[entity.News](ctx, di.Store)
				case entity.KindForumThread:
					d.ForumThreads, err = store.All[entity.ForumThread](ctx, di.Store)
				}

				if err != nil {
					return fmt.Errorf("could not dump %s: %w", kind, err)
				}
			}

			return printJSON(cmd.OutOrStdout(), d)
		}),
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("could not encode json: %w", err)
	}

	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}

	return strconv.Itoa(n) + " " + word + "s"
}
