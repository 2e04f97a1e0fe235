package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Corphon/DreamLogger/internal/dream"
	"github.com/Corphon/DreamLogger/internal/models"
	"github.com/Corphon/DreamLogger/internal/services"
)

type analyzeOptions struct {
	*rootOptions
	seed    uint64
	offline bool
	explain bool
}

// analyzeOutput is the json form of an analysis.
type analyzeOutput struct {
	*models.AnalysisResult
	Scores   map[dream.Mood]int          `json:"scores,omitempty"`
	Elements map[dream.Dimension][]string `json:"elements,omitempty"`
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "analyze [dream text]",
		Short: "Analyze a dream without saving it",
		Long:  "Analyze a dream given as arguments, or read from stdin when no arguments are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Seed for scene phrase selection (0 = random)")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "Use only the local keyword engine")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "Show mood scores and matched scene elements")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *analyzeOptions) error {
	if err := opts.validateFormat(); err != nil {
		return err
	}

	text, err := readDreamText(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no dream text provided")
	}

	var generator services.TextGenerator
	if !opts.offline {
		cfg, err := opts.loadConfig()
		if err != nil {
			return err
		}
		if llm := services.NewLLMService(cfg); llm.IsReady() {
			generator = llm
		}
	}

	var src dream.RandomSource
	if opts.seed != 0 {
		src = dream.NewSeededSource(opts.seed)
	}

	result := services.NewAnalyzerService(generator, dream.NewComposer(src)).Analyze(cmd.Context(), text)

	out := analyzeOutput{AnalysisResult: result}
	if opts.explain {
		out.Scores = dream.Scores(text)
		out.Elements = make(map[dream.Dimension][]string)
		elements := dream.Elements(text)
		for _, d := range dream.Dimensions() {
			if names := elements.Names(d); len(names) > 0 {
				out.Elements[d] = names
			}
		}
	}

	if opts.format == "json" {
		return writeJSON(cmd.OutOrStdout(), out)
	}
	return printAnalysis(cmd.OutOrStdout(), out)
}

func readDreamText(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if f, ok := stdin.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return "", fmt.Errorf("no dream text provided")
		}
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}

func printAnalysis(w io.Writer, out analyzeOutput) error {
	fmt.Fprintf(w, "Mood: %s (%s)\n\n", out.Mood, out.MoodSource)
	fmt.Fprintf(w, "%s\n", out.Interpretation)

	if out.Scores != nil {
		fmt.Fprintln(w, "\nMood scores:")
		for _, m := range dream.Moods() {
			fmt.Fprintf(w, "  %-10s %d\n", m, out.Scores[m])
		}
	}
	if out.Elements != nil {
		fmt.Fprintln(w, "\nScene elements:")
		dims := make([]string, 0, len(out.Elements))
		for d := range out.Elements {
			dims = append(dims, string(d))
		}
		sort.Strings(dims)
		for _, d := range dims {
			fmt.Fprintf(w, "  %-10s %s\n", d, strings.Join(out.Elements[dream.Dimension(d)], ", "))
		}
	}
	return nil
}
