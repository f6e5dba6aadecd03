package ui

import (
	"github.com/golink-dev/golink/internal/classify"
	"github.com/golink-dev/golink/internal/runstats"
)

// ResultsMsg is sent once the enumerate/extract/reduce/classify pipeline
// (engine.Run followed by classify.Run) has finished, replacing the
// teacher's streaming FilesFoundMsg/LinksExtractedMsg/LinkCheckedMsg/
// AllChecksCompleteMsg sequence: this checker never touches the network, so
// there is no long HTTP-bound phase worth reporting result-by-result — the
// whole pipeline runs to completion inside one tea.Cmd.
type ResultsMsg struct {
	Err      error
	Findings []classify.Finding
	Stats    *runstats.Stats
}
