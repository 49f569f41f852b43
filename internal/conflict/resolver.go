package conflict

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

const (
	markerStart     = "<<<<<<<"
	markerSeparator = "======="
	markerEnd       = ">>>>>>>"
)

type Config struct {
	Preview bool
}

// Resolver rewrites conflicted files in place, removing conflict markers
// according to a Strategy. The caller is responsible for staging the result.
type Resolver struct {
	config Config
	logger *zap.Logger
}

func NewResolver(config Config, logger *zap.Logger) *Resolver {
	return &Resolver{
		config: config,
		logger: logger,
	}
}

// Resolve rewrites the file at path according to strategy. The original
// content is held aside for the duration of the call; if the rewritten file
// still carries marker lines it is restored and ErrResolutionIncomplete is
// returned.
func (r *Resolver) Resolve(path string, strategy Strategy) error {
	if strategy == StrategyManual {
		return fmt.Errorf("%w: %s", ErrManualResolution, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat conflicted file: %w", err)
	}

	backup, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read conflicted file: %w", err)
	}

	resolved, err := resolveContent(string(backup), strategy)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if r.config.Preview {
		r.logger.Info("preview: would resolve conflicts",
			zap.String("file", path),
			zap.Stringer("strategy", strategy))
		return nil
	}

	if err := os.WriteFile(path, []byte(resolved), info.Mode()); err != nil {
		return fmt.Errorf("failed to rewrite conflicted file: %w", err)
	}

	// Guard against malformed or nested conflicts slipping through: re-read
	// what we wrote and make sure no marker lines survived.
	written, err := os.ReadFile(path)
	if err == nil && !containsMarkers(string(written)) {
		r.logger.Info("resolved conflicts",
			zap.String("file", path),
			zap.Stringer("strategy", strategy))
		return nil
	}

	if restoreErr := os.WriteFile(path, backup, info.Mode()); restoreErr != nil {
		return fmt.Errorf("failed to restore original content: %w", restoreErr)
	}

	return fmt.Errorf("%w: %s", ErrResolutionIncomplete, path)
}

type parseState int

const (
	stateOutside parseState = iota
	stateInOurs
	stateInTheirs
)

// resolveContent runs the three-state marker machine over the file content
// and emits the lines the strategy keeps. An unterminated block or a marker
// in an unexpected position is malformed input.
func resolveContent(content string, strategy Strategy) (string, error) {
	var (
		out   strings.Builder
		state = stateOutside
	)

	lines := strings.SplitAfter(content, "\n")
	for _, line := range lines {
		if line == "" {
			// SplitAfter yields a trailing empty element when the content
			// ends with a newline.
			continue
		}

		switch {
		case strings.HasPrefix(line, markerStart):
			if state != stateOutside {
				return "", fmt.Errorf("%w: nested %s", ErrMalformedConflict, markerStart)
			}
			state = stateInOurs

		case strings.HasPrefix(line, markerSeparator):
			if state != stateInOurs {
				if state == stateOutside {
					// A run of equals signs outside a conflict block is
					// ordinary content.
					out.WriteString(line)
					continue
				}
				return "", fmt.Errorf("%w: unexpected %s", ErrMalformedConflict, markerSeparator)
			}
			state = stateInTheirs

		case strings.HasPrefix(line, markerEnd):
			if state != stateInTheirs {
				return "", fmt.Errorf("%w: unexpected %s", ErrMalformedConflict, markerEnd)
			}
			state = stateOutside

		default:
			keep := state == stateOutside ||
				strategy == StrategyBoth ||
				(state == stateInOurs && strategy == StrategyOurs) ||
				(state == stateInTheirs && strategy == StrategyTheirs)
			if keep {
				out.WriteString(line)
			}
		}
	}

	if state != stateOutside {
		return "", fmt.Errorf("%w: unterminated conflict block", ErrResolutionIncomplete)
	}

	return out.String(), nil
}

func containsMarkers(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, markerStart) || strings.HasPrefix(line, markerEnd) {
			return true
		}
	}
	return false
}
