package commentary

import (
	"context"
	"fmt"
	"strings"

	"rinkcast/internal/domain/game"
	"rinkcast/internal/pipeline"
	"rinkcast/internal/session"
	"rinkcast/internal/tracker"
)

// Track names understood by the scripted commentator.
const (
	TrackPlayByPlay = "play-by-play"
	TrackColor      = "color"
)

// ScriptedCommentator produces template-based lines from the batch
// report. The play-by-play track calls goals and penalties as they
// land; the color track reacts to the game situation.
type ScriptedCommentator struct {
	playByPlaySpeaker string
	colorSpeaker      string
}

// NewScriptedCommentator constructs a commentator with the default
// two-person booth.
func NewScriptedCommentator() *ScriptedCommentator {
	return &ScriptedCommentator{
		playByPlaySpeaker: "al",
		colorSpeaker:      "bea",
	}
}

// Narrate turns the report into lines for the handle's track. Tracks
// the commentator does not know produce no lines.
func (c *ScriptedCommentator) Narrate(ctx context.Context, handle session.Handle, report tracker.UpdateReport, st game.State) ([]pipeline.Line, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch handle.Track {
	case TrackPlayByPlay:
		return c.playByPlay(report, st), nil
	case TrackColor:
		return c.color(report, st), nil
	default:
		return nil, nil
	}
}

func (c *ScriptedCommentator) playByPlay(report tracker.UpdateReport, st game.State) []pipeline.Line {
	var lines []pipeline.Line
	for _, g := range report.NewGoals {
		text := fmt.Sprintf("%s scores for the %s side! It's %d-%d.",
			g.Scorer, strings.ToLower(string(g.Side)), st.Score.Home, st.Score.Away)
		if len(g.Assists) > 0 {
			text += " Assisted by " + strings.Join(g.Assists, " and ") + "."
		}
		lines = append(lines, pipeline.Line{Speaker: c.playByPlaySpeaker, Style: "excited", Text: text})
	}
	for _, p := range report.NewPenalties {
		lines = append(lines, pipeline.Line{
			Speaker: c.playByPlaySpeaker,
			Style:   "neutral",
			Text:    fmt.Sprintf("%s goes off %d minutes for %s.", p.Player, p.Minutes, p.Infraction),
		})
	}
	return lines
}

func (c *ScriptedCommentator) color(report tracker.UpdateReport, st game.State) []pipeline.Line {
	var lines []pipeline.Line
	for _, g := range report.NewGoals {
		lines = append(lines, pipeline.Line{
			Speaker: c.colorSpeaker,
			Style:   "analysis",
			Text:    fmt.Sprintf("What a finish by %s in period %d.", g.Scorer, g.Period),
		})
	}
	if len(report.NewPenalties) > 0 && st.Situation != "" {
		lines = append(lines, pipeline.Line{
			Speaker: c.colorSpeaker,
			Style:   "analysis",
			Text:    fmt.Sprintf("Big momentum swing, we're looking at %s hockey now.", st.Situation),
		})
	}
	return lines
}
