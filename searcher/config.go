package searcher

import (
	"fmt"

	"connect4/game"
	"connect4/meta"
)

// FromConfig builds the search described by an agent configuration of kind alphabeta,
// minimax or expectimax. Extra options are applied last.
func FromConfig(config meta.AgentConfig, options ...Option) (*Search, error) {
	mode, err := ParseMode(config.Kind)
	if err != nil {
		return nil, err
	}
	evaluate, err := game.ParseEvaluate(config.Evaluator)
	if err != nil {
		return nil, err
	}
	depth := config.SearchDepth()
	if depth <= 0 {
		return nil, fmt.Errorf("%w: got %d", game.ErrInvalidDepth, depth)
	}

	return NewSearch(append([]Option{
		WithMode(mode),
		WithDepth(depth),
		WithEvaluationFn(evaluate),
		WithTimeout(config.Timeout),
	}, options...)...), nil
}
