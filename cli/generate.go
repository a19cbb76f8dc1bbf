package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"postpilot/api"
	"postpilot/generator"
	"postpilot/output"
	"postpilot/publisher"
)

type generateFlags struct {
	region      string
	category    string
	autoPublish bool
	download    string
	format      string
}

func (f *generateFlags) register(cmd *cobra.Command, withRegion bool) {
	if withRegion {
		cmd.Flags().StringVar(&f.region, "region", "", "target region label or code")
	}
	cmd.Flags().StringVar(&f.category, "category", "", "content category label or code")
	cmd.Flags().BoolVar(&f.autoPublish, "auto-publish", false, "ask the API to publish right after generating")
	cmd.Flags().StringVar(&f.download, "download", "", "save the post into this directory")
	cmd.Flags().StringVar(&f.format, "format", "txt", "download format (txt, html)")
}

type generateResult struct {
	Blog     api.BlogData                `json:"blog" yaml:"blog"`
	Params   *generator.GenerationParams `json:"params,omitempty" yaml:"params,omitempty"`
	Stats    publisher.Stats             `json:"stats" yaml:"stats"`
	Topic    string                      `json:"trend_topic,omitempty" yaml:"trend_topic,omitempty"`
	Keywords []string                    `json:"trend_keywords,omitempty" yaml:"trend_keywords,omitempty"`
	File     string                      `json:"file,omitempty" yaml:"file,omitempty"`
}

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a blog post without the wizard",
	}
	cmd.AddCommand(
		newGenerateFromParamsCmd(a, "url <website>", "Generate from a website", generator.SourceWebsite),
		newGenerateFromParamsCmd(a, "topic <topic>", "Generate from a custom topic", generator.SourceCustom),
		newGenerateFromParamsCmd(a, "trend [trending topic]", "Generate from a trending topic, picking one when none is given", generator.SourceTrending),
		newGenerateBlogCmd(a),
	)
	return cmd
}

func newGenerateFromParamsCmd(a *app, use, short string, source generator.Source) *cobra.Command {
	var flags generateFlags
	positional := cobra.MinimumNArgs(1)
	if source == generator.SourceTrending {
		positional = cobra.ArbitraryArgs
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  positional,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := publisher.ParseFormat(flags.format)
			if err != nil {
				return usageError("%v", err)
			}
			subject := strings.Join(args, " ")
			params := generator.GenerationParams{
				SelectedOption: source,
				Region:         flags.region,
				Category:       flags.category,
			}
			switch source {
			case generator.SourceWebsite:
				params.WebsiteURL = subject
			case generator.SourceCustom:
				params.CustomTopic = subject
			case generator.SourceTrending:
				params.SelectedTrend = subject
			}

			s := a.session(flags.autoPublish)
			if source == generator.SourceTrending && subject == "" {
				trend, err := s.PickTrend(cmd.Context(), flags.region, flags.category)
				if err != nil {
					return err
				}
				params.SelectedTrend = strings.TrimSpace(trend.Topic)
				if a.format == output.FormatTable && params.SelectedTrend != "" {
					a.printer.Notify("Trending topic picked", params.SelectedTrend, false)
				}
			}
			if _, err := s.Generate(cmd.Context(), params); err != nil {
				return err
			}
			return a.reportBlog(s, flags.download, format)
		},
	}
	flags.register(cmd, true)
	return cmd
}

func newGenerateBlogCmd(a *app) *cobra.Command {
	var (
		flags    generateFlags
		isURL    bool
		keywords []string
	)
	cmd := &cobra.Command{
		Use:   "blog <content>",
		Short: "Generate from free-form content or a URL with explicit keywords",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := publisher.ParseFormat(flags.format)
			if err != nil {
				return usageError("%v", err)
			}
			s := a.session(flags.autoPublish)
			if _, err := s.GenerateGeneric(cmd.Context(), generator.GenericParams{
				Content:  strings.Join(args, " "),
				IsURL:    isURL,
				Keywords: keywords,
				Category: flags.category,
			}); err != nil {
				return err
			}
			return a.reportBlog(s, flags.download, format)
		},
	}
	flags.register(cmd, false)
	cmd.Flags().BoolVar(&isURL, "is-url", false, "treat the content as a URL to read")
	cmd.Flags().StringSliceVar(&keywords, "keywords", nil, "keywords to target (comma separated)")
	return cmd
}

// reportBlog prints the generated blog from the session store and saves it
// when dir is set.
func (a *app) reportBlog(s *generator.Session, dir string, format publisher.Format) error {
	snap := s.Store.Snapshot()
	if snap.Blog == nil {
		return generator.ErrNoBlog
	}
	blog := *snap.Blog

	res := generateResult{
		Blog:     blog,
		Params:   snap.Params,
		Stats:    publisher.ContentStats(blog.Content),
		Topic:    snap.TrendTopic,
		Keywords: snap.TrendKeywords,
	}
	if dir != "" {
		path, err := a.publisher().Download(dir, blog, format)
		if err != nil {
			return err
		}
		res.File = path
	}

	if ok, err := a.structured(res); ok {
		return err
	}

	a.printer.Notify("Blog generated", blog.Title, false)
	if snap.Params != nil {
		a.printer.Header("Generation Details")
		t := output.NewTable(a.printer.Out(), []string{"Field", "Value"})
		for _, d := range publisher.Details(*snap.Params) {
			t.AddRow(d.Label, d.Value)
		}
		if err := t.Render(); err != nil {
			return err
		}
	}

	a.printer.Header("Content Stats")
	t := output.NewTable(a.printer.Out(), []string{"Field", "Value"})
	t.AddRow("Words", strconv.Itoa(res.Stats.Words))
	t.AddRow("Reading time", strconv.Itoa(res.Stats.ReadingMinutes)+" min")
	if blog.URLSlug != "" {
		t.AddRow("Slug", blog.URLSlug)
	}
	if res.Topic != "" {
		t.AddRow("Trend", res.Topic)
	}
	if len(res.Keywords) > 0 {
		t.AddRow("Keywords", strings.Join(res.Keywords, ", "))
	}
	if err := t.Render(); err != nil {
		return err
	}

	if blog.Published != nil {
		if *blog.Published {
			a.printer.Notify("Published", "The post was published automatically.", false)
		} else {
			a.printer.Notify("Publish Failed", "The API did not publish the post.", true)
		}
	}
	if res.File != "" {
		a.printer.Notify("Download Complete", res.File, false)
	} else {
		a.printer.Header(blog.Title)
		a.printer.Print("%s", publisher.PlainText(blog.Content))
	}
	return nil
}
