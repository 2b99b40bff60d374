package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/flowcanvas/internal/log"
	"github.com/felixgeelhaar/flowcanvas/internal/plan"
	"github.com/felixgeelhaar/flowcanvas/internal/tui"
)

var layoutCmd = &cobra.Command{
	Use:   "layout <plan>",
	Short: "Compute dependency levels and positions for a plan",
	Long: `Place every node of a plan by dependency level.

A node's level is the length of its longest dependency chain. Nodes that
are part of a cycle are placed on level 0 and reported.

Examples:
  # Show levels and positions
  flowcanvas layout plan.yaml

  # Machine readable output
  flowcanvas layout plan.yaml --format json

  # Write the positions back into the plan
  flowcanvas layout plan.yaml --write
`,
	Args: cobra.ExactArgs(1),
	RunE: runLayout,
}

var (
	layoutFormat string
	layoutWrite  bool
	layoutOut    string
	layoutYes    bool
)

func init() {
	layoutCmd.Flags().StringVarP(&layoutFormat, "format", "f", "table", "output format: table, json or yaml")
	layoutCmd.Flags().BoolVarP(&layoutWrite, "write", "w", false, "write the positions back to the plan")
	layoutCmd.Flags().StringVarP(&layoutOut, "out", "o", "", "write the laid out plan here instead of over the input")
	layoutCmd.Flags().BoolVarP(&layoutYes, "yes", "y", false, "overwrite without asking")

	rootCmd.AddCommand(layoutCmd)
}

// layoutEntry is one placed node
type layoutEntry struct {
	ID     string  `json:"id" yaml:"id"`
	Level  int     `json:"level" yaml:"level"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Cyclic bool    `json:"cyclic,omitempty" yaml:"cyclic,omitempty"`
}

// layoutResult is the full layout of a plan
type layoutResult struct {
	Nodes  []layoutEntry `json:"nodes" yaml:"nodes"`
	Cyclic []string      `json:"cyclic,omitempty" yaml:"cyclic,omitempty"`
}

func runLayout(cmd *cobra.Command, args []string) error {
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
	result := applyLayout(p)

	out := cmd.OutOrStdout()
	if err := writeLayout(out, layoutFormat, result); err != nil {
		return err
	}

	if !layoutWrite {
		return nil
	}
	target := layoutOut
	if target == "" {
		target = p.Path
	}
	return saveLayout(out, p, target, layoutYes, logger)
}

// applyLayout runs auto-layout on the loaded plan and lists the placements
// ordered by level, then x
func applyLayout(p *loadedPlan) layoutResult {
	levels := p.Canvas.AutoLayout()

	cyclic := make(map[string]bool, len(levels.Cyclic))
	for _, id := range levels.Cyclic {
		cyclic[id] = true
	}

	nodes := p.Canvas.Nodes()
	entries := make([]layoutEntry, 0, len(nodes))
	for _, n := range nodes {
		entries = append(entries, layoutEntry{
			ID:     n.ID,
			Level:  levels.ByNode[n.ID],
			X:      n.Position.X,
			Y:      n.Position.Y,
			Cyclic: cyclic[n.ID],
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Level != entries[j].Level {
			return entries[i].Level < entries[j].Level
		}
		return entries[i].X < entries[j].X
	})

	return layoutResult{Nodes: entries, Cyclic: levels.Cyclic}
}

func writeLayout(w io.Writer, format string, result layoutResult) error {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal layout: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to marshal layout: %w", err)
		}
		return enc.Close()
	case "table":
		rows := make([][]string, 0, len(result.Nodes))
		for _, e := range result.Nodes {
			mark := ""
			if e.Cyclic {
				mark = "cycle"
			}
			rows = append(rows, []string{
				e.ID,
				strconv.Itoa(e.Level),
				strconv.FormatFloat(e.X, 'f', -1, 64),
				strconv.FormatFloat(e.Y, 'f', -1, 64),
				mark,
			})
		}
		writeTable(w, []string{"NODE", "LEVEL", "X", "Y", ""}, rows)
		if len(result.Cyclic) > 0 {
			fmt.Fprintf(w, "\n%s cycle through %s; those nodes were placed on level 0\n",
				warnIcon(), strings.Join(result.Cyclic, ", "))
		}
	default:
		return fmt.Errorf("unknown format %q (use table, json or yaml)", format)
	}
	return nil
}

func saveLayout(w io.Writer, p *loadedPlan, target string, yes bool, logger *log.Logger) error {
	if !yes && tui.ShouldPrompt() {
		ok, err := tui.PromptForConfirmation(fmt.Sprintf("Write the new layout to %s?", target), true)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(w, subtleColor.Sprint("layout not written"))
			return nil
		}
	}

	if err := plan.Save(p.document(), target); err != nil {
		return err
	}
	logger.Info("layout written", "path", target, "nodes", len(p.Canvas.Nodes()))
	fmt.Fprintf(w, "%s layout written to %s\n", okIcon(), target)
	return nil
}
