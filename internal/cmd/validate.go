package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	canvaserrors "github.com/felixgeelhaar/flowcanvas/internal/errors"
	"github.com/felixgeelhaar/flowcanvas/internal/layout"
)

var validateCmd = &cobra.Command{
	Use:   "validate <plan>",
	Short: "Check a plan for bad references and cycles",
	Long: `Load a plan the way the editor does and report what it had to drop.

Dependencies on missing nodes and edges between unknown ports are dropped
when a plan is loaded; they are reported as warnings. Dependency cycles are
reported as errors.

Examples:
  flowcanvas validate plan.yaml

  # Treat dropped references as errors too
  flowcanvas validate plan.yaml --strict
`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var validateStrict bool

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "fail on dropped references as well as cycles")

	rootCmd.AddCommand(validateCmd)
}

// issue is one finding of a plan check
type issue struct {
	Fatal   bool
	Message string
}

func runValidate(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}
	cfg, err := cmdCtx.LoadConfig()
	if err != nil {
		return err
	}
	logger := cmdCtx.Logger(cfg, cmd.ErrOrStderr())

	p, err := openPlan(args[0], cfg, logger)
	if err != nil {
		return err
	}

	issues := checkPlan(p, validateStrict)
	return reportIssues(cmd.OutOrStdout(), p, issues)
}

// checkPlan lists what the load dropped and every dependency cycle
func checkPlan(p *loadedPlan, strict bool) []issue {
	var issues []issue

	if n := p.Report.InvalidNodes; n > 0 {
		issues = append(issues, issue{Fatal: true, Message: fmt.Sprintf("%d node(s) without an id", n)})
	}
	for _, id := range p.Report.DuplicateNodes {
		issues = append(issues, issue{Fatal: true, Message: fmt.Sprintf("duplicate node %q", id)})
	}
	for _, ref := range p.Report.DanglingRefs {
		issues = append(issues, issue{
			Fatal:   strict,
			Message: fmt.Sprintf("node %q depends on missing node %q", ref.Node, ref.Dependency),
		})
	}
	for _, key := range p.Report.RejectedEdges {
		issues = append(issues, issue{
			Fatal:   strict,
			Message: fmt.Sprintf("edge %s does not connect existing ports", key.String()),
		})
	}

	levels := layout.ComputeLevels(p.Canvas.Nodes())
	if levels.HasCycle() {
		issues = append(issues, issue{
			Fatal:   true,
			Message: fmt.Sprintf("dependency cycle through %s", strings.Join(levels.Cyclic, ", ")),
		})
	}

	return issues
}

func reportIssues(w io.Writer, p *loadedPlan, issues []issue) error {
	fmt.Fprintf(w, "%s %s\n", titleColor.Sprint("validate"), p.Path)

	fatal := 0
	for _, is := range issues {
		icon := warnIcon()
		if is.Fatal {
			icon = failIcon()
			fatal++
		}
		fmt.Fprintf(w, "  %s %s\n", icon, is.Message)
	}

	summary := fmt.Sprintf("%d nodes, %d edges", len(p.Canvas.Nodes()), len(p.Canvas.EdgeKeys()))
	if fatal > 0 {
		fmt.Fprintf(w, "%s %s\n", failIcon(), summary)
		return canvaserrors.NewPlanInvalidError(fmt.Sprintf("%d problem(s) in %s", fatal, p.Path))
	}
	if len(issues) > 0 {
		fmt.Fprintf(w, "%s %s, %d warning(s)\n", warnIcon(), summary, len(issues))
		return nil
	}
	fmt.Fprintf(w, "%s %s, no problems\n", okIcon(), summary)
	return nil
}
