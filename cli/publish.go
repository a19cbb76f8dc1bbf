package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"postpilot/api"
)

func newPublishCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <blog.json>",
		Short: "Publish a generated blog post",
		Long: `Send a blog post to the publish endpoint. The file holds the blog object
as printed by "postpilot generate ... -o json" (either the whole result or
just its "blog" field). Use - to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blog, err := readBlog(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			s := a.session(false)
			s.Store.SetBlog(&blog)
			resp, err := a.publisher().Publish(cmd.Context(), s)
			if err != nil {
				return err
			}
			if ok, err := a.structured(resp); ok {
				return err
			}
			msg := resp.Message
			if msg == "" {
				msg = blog.Title
			}
			a.printer.Notify("Published", msg, false)
			return nil
		},
	}
}

func readBlog(stdin io.Reader, path string) (api.BlogData, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return api.BlogData{}, fmt.Errorf("read blog: %w", err)
	}

	var wrapped struct {
		Blog *api.BlogData `json:"blog"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return api.BlogData{}, usageError("invalid blog file %s: %v", path, err)
	}
	if wrapped.Blog != nil {
		return *wrapped.Blog, nil
	}

	var blog api.BlogData
	if err := json.Unmarshal(data, &blog); err != nil {
		return api.BlogData{}, usageError("invalid blog file %s: %v", path, err)
	}
	if blog.Title == "" && blog.Content == "" {
		return api.BlogData{}, usageError("blog file %s has no title or content", path)
	}
	return blog, nil
}
