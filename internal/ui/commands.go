package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/golink-dev/golink/internal/classify"
	"github.com/golink-dev/golink/internal/engine"
	"github.com/golink-dev/golink/internal/runstats"
	"github.com/golink-dev/golink/internal/walker"
)

// RunCheckCmd runs the full map-reduce-classify pipeline against root and
// returns a ResultsMsg as a single blocking tea.Cmd, since this pipeline has
// no incremental network phase to stream results from.
func RunCheckCmd(root string, jobs int, checkAnchors bool) tea.Cmd {
	return func() tea.Msg {
		stats := runstats.New()
		ctx := context.Background()

		stats.StartEnumerate()
		stats.StartMapReduce()
		s, err := engine.Run(ctx, root, walker.Options{}, engine.Options{Jobs: jobs})
		if err != nil {
			return ResultsMsg{Err: err}
		}
		stats.EndEnumerate(s.Len())
		stats.EndMapReduce(s.Len())

		stats.StartClassify()
		findings := classify.Run(s, classify.Options{CheckAnchors: checkAnchors})
		stats.EndClassify(len(classify.Errors(findings)), len(classify.Warnings(findings)))

		return ResultsMsg{Findings: findings, Stats: stats}
	}
}
