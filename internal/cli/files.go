package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"loctool/internal/config"
	"loctool/internal/filewalker"
	"loctool/internal/interpolation"
	"loctool/internal/locale"
	"loctool/internal/parser"
	"loctool/internal/resource"
	"loctool/internal/selection"
	"loctool/internal/textutil"
	"loctool/internal/translation"
	"loctool/internal/worker"
	"loctool/internal/xliff"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// ErrPlaceholdersMissing is returned by check when any target lost a placeholder.
var ErrPlaceholdersMissing = errors.New("targets are missing placeholders")

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Rewrite an XLIFF file in another XLIFF version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, _ := cmd.Flags().GetString("version")
			cfg := loadConfig()
			if version != "" {
				cfg.XliffVersion = version
			}
			return runConvert(cfg, args[0], args[1])
		},
	}
	cmd.Flags().String("version", "", "Output XLIFF version: 1.2 or 2.0 (default from XLIFF_VERSION)")
	return cmd
}

func mergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <output> <file-or-dir>...",
		Short: "Merge the resources of several XLIFF files into one",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()
			return runMerge(ctx, loadConfig(), args[0], args[1:])
		},
	}
}

func splitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split <input> <output-dir>",
		Short: "Write one XLIFF file per project or per target language",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			by, _ := cmd.Flags().GetString("by")
			return runSplit(loadConfig(), args[0], args[1], by)
		},
	}
	cmd.Flags().String("by", SplitByProject, "Split key: project or language")
	return cmd
}

func selectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select <output> <file-or-dir>...",
		Short: "Copy the translation units that meet the criteria into one XLIFF file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, _ := cmd.Flags().GetString("criteria")
			project, _ := cmd.Flags().GetString("project")
			datatype, _ := cmd.Flags().GetString("datatype")
			loc, _ := cmd.Flags().GetString("locale")

			c, err := selection.Parse(criteria)
			if err != nil {
				return err
			}
			c.Locale = loc

			ctx, cancel := setupContext()
			defer cancel()
			return runSelect(ctx, loadConfig(), args[0], args[1:],
				resource.Criteria{Project: project, Datatype: datatype}, c)
		},
	}
	cmd.Flags().String("criteria", "", `Selection criteria, e.g. "maxunits:100,maxsource:2000,random,source.one=^There"`)
	cmd.Flags().String("project", "", "Only select from this project")
	cmd.Flags().String("datatype", "", "Only select resources of this datatype")
	cmd.Flags().String("locale", "", "Only select targets in locales this one covers, e.g. de for de-DE and de-AT")
	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Report translations that dropped placeholders from their source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(loadConfig(), args[0], cmd.OutOrStdout())
		},
	}
}

func xliffParser(cfg *config.Config) *parser.XliffFileType {
	return parser.NewXliffFileType(cfg.XliffOptions())
}

// runConvert handles the `convert` command.
func runConvert(cfg *config.Config, input, output string) error {
	p := xliffParser(cfg)
	in, err := p.Parse(input)
	if err != nil {
		return err
	}

	out := xliff.New(cfg.XliffOptions())
	out.AddResources(in.Xliff.GetResources(resource.Criteria{}))

	if err := p.Write(&parser.ParseResult{FilePath: output, FileType: "xliff", Xliff: out}, output); err != nil {
		return err
	}

	log.Info().
		Str("input", input).
		Str("output", output).
		Float64("from", in.Xliff.Version()).
		Float64("to", out.Version()).
		Msg("Converted XLIFF file")
	return nil
}

// mergeFiles loads every XLIFF file under paths through the worker pool and
// adds their resources, in path order, to one engine.
func mergeFiles(ctx context.Context, cfg *config.Config, paths []string) (*xliff.Xliff, error) {
	w := filewalker.NewWalker(xliffParser(cfg))

	var entries []filewalker.FileEntry
	for _, path := range paths {
		found, err := w.Walk(path)
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", path, err)
		}
		entries = append(entries, found...)
	}

	parsePool := worker.NewPool[filewalker.FileEntry, *parser.ParseResult]("parse", cfg.WorkerCount,
		func(ctx context.Context, entry filewalker.FileEntry) (*parser.ParseResult, error) {
			return w.ParseFile(entry)
		},
	)
	results := parsePool.Execute(ctx, entries)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := xliff.New(cfg.XliffOptions())
	for _, pr := range results {
		if pr.Err != nil || pr.Result == nil {
			log.Error().Err(pr.Err).Str("file", pr.Input.Path).Msg("Parse failed")
			continue
		}
		merged.AddResources(pr.Result.Xliff.GetResources(resource.Criteria{}))
	}

	log.Info().
		Int("files", len(entries)).
		Int("resources", merged.Size()).
		Msg("Merged XLIFF files")
	return merged, worker.Errors(results)
}

// runMerge handles the `merge` command. Files that fail to parse are
// reported but do not stop the merge.
func runMerge(ctx context.Context, cfg *config.Config, output string, inputs []string) error {
	merged, err := mergeFiles(ctx, cfg, inputs)
	if merged == nil {
		return err
	}
	if err != nil {
		log.Warn().Err(err).Msg("Some files were skipped")
	}
	if upToDate(cfg, output, merged) {
		log.Info().Str("output", output).Msg("Merged output already up to date")
		return nil
	}
	return xliffParser(cfg).Write(&parser.ParseResult{FilePath: output, FileType: "xliff", Xliff: merged}, output)
}

// upToDate reports whether the XLIFF file at path already holds exactly the
// resources of x.
func upToDate(cfg *config.Config, path string, x *xliff.Xliff) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	prev, err := xliffParser(cfg).Parse(path)
	if err != nil {
		return false
	}

	set := translation.NewSet(cfg.SourceLocale)
	set.AddAll(prev.Xliff.GetResources(resource.Criteria{}))
	size := set.Size()
	set.SetClean()

	next := translation.NewSet(cfg.SourceLocale)
	next.AddAll(x.GetResources(resource.Criteria{}))

	set.AddSet(next)
	return !set.IsDirty() && size == next.Size()
}

// Split keys accepted by the split command.
const (
	SplitByProject  = "project"
	SplitByLanguage = "language"
)

// ErrUnknownSplit is returned for a split key other than project or language.
var ErrUnknownSplit = errors.New("unknown split key")

// splitKey returns the partition a resource belongs to. Language splits use
// the canonical target locale, or the source locale of untranslated resources.
func splitKey(by string, r resource.Resource) string {
	if by == SplitByLanguage {
		return locale.Canonical(r.Meta().Locale())
	}
	return r.Meta().Project
}

// splitResources partitions the resources of x into one engine per key, in
// first-appearance order.
func splitResources(cfg *config.Config, x *xliff.Xliff, by string) ([]string, map[string]*xliff.Xliff) {
	var order []string
	parts := make(map[string]*xliff.Xliff)
	for _, r := range x.GetResources(resource.Criteria{}) {
		key := splitKey(by, r)
		part, ok := parts[key]
		if !ok {
			opts := cfg.XliffOptions()
			opts.Version = versionString(x.Version())
			part = xliff.New(opts)
			parts[key] = part
			order = append(order, key)
		}
		part.AddResource(r)
	}
	return order, parts
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func projectFileName(project string) string {
	name := unsafeFileChars.ReplaceAllString(project, "_")
	if name == "" {
		name = "default"
	}
	return name + ".xliff"
}

// runSplit handles the `split` command.
func runSplit(cfg *config.Config, input, outputDir, by string) error {
	if by == "" {
		by = SplitByProject
	}
	if by != SplitByProject && by != SplitByLanguage {
		return fmt.Errorf("%q: %w", by, ErrUnknownSplit)
	}

	p := xliffParser(cfg)
	in, err := p.Parse(input)
	if err != nil {
		return err
	}

	order, parts := splitResources(cfg, in.Xliff, by)
	for _, key := range order {
		out := filepath.Join(outputDir, projectFileName(key))
		if err := p.Write(&parser.ParseResult{FilePath: out, FileType: "xliff", Xliff: parts[key]}, out); err != nil {
			return err
		}
	}

	log.Info().Str("by", by).Int("files", len(order)).Str("output", outputDir).Msg("Split XLIFF file")
	return nil
}

// runSelect handles the `select` command: the resources of every input
// matching rc are flattened to units, and the units passing c are written
// to output.
func runSelect(ctx context.Context, cfg *config.Config, output string, inputs []string, rc resource.Criteria, c selection.Criteria) error {
	merged, err := mergeFiles(ctx, cfg, inputs)
	if merged == nil {
		return err
	}
	if err != nil {
		log.Warn().Err(err).Msg("Some files were skipped")
	}

	pool := xliff.New(cfg.XliffOptions())
	pool.AddResources(merged.GetResources(rc))
	units := pool.GetTranslationUnits()
	selected := selection.Select(units, c, nil)

	out := xliff.New(cfg.XliffOptions())
	if err := out.AddTranslationUnits(selected); err != nil {
		return fmt.Errorf("select into %s: %w", output, err)
	}
	if err := xliffParser(cfg).Write(&parser.ParseResult{FilePath: output, FileType: "xliff", Xliff: out}, output); err != nil {
		return err
	}

	log.Info().
		Int("units", len(units)).
		Int("selected", len(selected)).
		Str("output", output).
		Msg("Selected translation units")
	return nil
}

// Problem is a translation that lost placeholders.
type Problem struct {
	Key     string
	Locale  string
	Missing []string
}

func checkPlaceholders(x *xliff.Xliff) []Problem {
	var problems []Problem
	for _, u := range x.GetTranslationUnits() {
		if u.Target == "" {
			continue
		}
		if missing := interpolation.Missing(u.Source, u.Target); len(missing) > 0 {
			log.Warn().
				Str("key", u.Key).
				Str("source", textutil.Truncate(u.Source, 30)).
				Strs("missing", missing).
				Msg("Target dropped placeholders")
			problems = append(problems, Problem{Key: u.Key, Locale: u.TargetLocale, Missing: missing})
		}
	}
	return problems
}

// runCheck handles the `check` command.
func runCheck(cfg *config.Config, input string, out io.Writer) error {
	in, err := xliffParser(cfg).Parse(input)
	if err != nil {
		return err
	}

	problems := checkPlaceholders(in.Xliff)
	for _, p := range problems {
		fmt.Fprintf(out, "%s\t%s\tmissing %v\n", p.Key, p.Locale, p.Missing)
	}
	if len(problems) > 0 {
		log.Warn().Int("problems", len(problems)).Str("file", input).Msg("Placeholder check failed")
		return fmt.Errorf("%s: %d: %w", input, len(problems), ErrPlaceholdersMissing)
	}

	log.Info().Str("file", input).Msg("Placeholder check passed")
	return nil
}

func versionString(v float64) string {
	if v >= xliff.Version20 {
		return "2.0"
	}
	return "1.2"
}
