package actor

import (
	"fmt"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"page-pilot/internal/application/port/output"
	"page-pilot/internal/domain/entity"
)

// minOptionSimilarity is the floor under which even the best fuzzy candidate
// is rejected as no match.
const minOptionSimilarity = 0.35

// selectOption picks the option of a <select> best matching want. Exact
// match, best partial match, and no match are three distinct outcomes.
func (a *Actor) selectOption(target output.Element, want string, outcome *entity.ActionOutcome) {
	opts := target.SelectOptions()
	if len(opts) == 0 {
		outcome.Fail("element has no selectable options.")
		return
	}

	wantNorm := entity.NormalizeWhitespace(want)
	for i, o := range opts {
		if entity.NormalizeWhitespace(o.Text) == wantNorm {
			if err := target.SelectByIndex(i); err != nil {
				outcome.Fail(fmt.Sprintf("failed to select option: %v.", err))
				return
			}
			outcome.Note(fmt.Sprintf("selected exact option %q.", o.Text))
			return
		}
	}

	dice := metrics.NewSorensenDice()
	best, bestScore := -1, 0.0
	for i, o := range opts {
		score := strutil.Similarity(
			strings.ToLower(wantNorm),
			strings.ToLower(entity.NormalizeWhitespace(o.Text)),
			dice,
		)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 || bestScore < minOptionSimilarity {
		outcome.Fail(fmt.Sprintf("no option matched %q.", want))
		return
	}
	if err := target.SelectByIndex(best); err != nil {
		outcome.Fail(fmt.Sprintf("failed to select option: %v.", err))
		return
	}
	outcome.Note(fmt.Sprintf("no exact match for %q, selected closest option %q (similarity %.2f).",
		want, opts[best].Text, bestScore))
}
